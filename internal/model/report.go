package model

import "time"

// BlockKind is the grammar a block is parsed with
type BlockKind string

const (
	BlockMap      BlockKind = "map"      // Indentation-nested reasons
	BlockArgument BlockKind = "argument" // Head plus premise-conclusion structure
)

// Report summarizes the ingestion of one source document
type Report struct {
	Source    string        `json:"source"`               // Path, URL or "-" for stdin
	FetchedAt time.Time     `json:"fetched_at"`           // When the source was read
	FetchMeta *FetchMeta    `json:"fetch_meta,omitempty"` // Only for remote sources
	Cached    bool          `json:"cached"`               // Export served from cache
	Blocks    []BlockReport `json:"blocks"`
	Stats     GraphStats    `json:"stats"`
}

// FetchMeta contains HTTP metadata from fetching a remote source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// BlockReport is the outcome of ingesting a single block
type BlockReport struct {
	Index    int       `json:"index"` // Position within the document (0-based)
	Kind     BlockKind `json:"kind"`
	Line     int       `json:"line"`               // First line of the block in the source (1-based)
	Error    string    `json:"error,omitempty"`    // Empty when the block was ingested
	Category string    `json:"category,omitempty"` // Syntax error category name, if classified
}

// OK reports whether the block was ingested
func (b BlockReport) OK() bool {
	return b.Error == ""
}

// GraphStats counts the contents of a graph
type GraphStats struct {
	Propositions int `json:"propositions"`
	Arguments    int `json:"arguments"`
	Relations    int `json:"relations"`
	Grounded     int `json:"grounded"` // Relations carrying an inferred tag
}

// Failed returns the number of rejected blocks
func (r Report) Failed() int {
	n := 0
	for _, b := range r.Blocks {
		if !b.OK() {
			n++
		}
	}
	return n
}
