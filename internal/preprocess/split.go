// Package preprocess splits Argdown documents into map and argument
// blocks and normalizes each block before parsing.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/ppiankov/argmap/internal/model"
)

// Block is one segment of a document
type Block struct {
	Kind model.BlockKind
	Text string
	Line int // First non-blank line of Text in the source document (1-based)
}

var (
	multilineCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/|<!--.*?-->`)
	inlineCommentRe    = regexp.MustCompile(`/\*.*?\*/|<!--.*?-->`)
	pcsLineRe          = regexp.MustCompile(`^\([A-Z]*\d+\)\s`)
)

// stripComments removes block comments and whole-line "//" comments from
// a document. Lines that held nothing but comments are dropped. It also
// returns, for every output line, the line it came from in text (1-based).
func stripComments(text string) (string, []int) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// collapse multi-line comments onto the line they open on
	var b strings.Builder
	origins := []int{1}
	line, last := 1, 0
	copySegment := func(seg string) {
		for _, c := range seg {
			if c == '\n' {
				line++
				origins = append(origins, line)
			}
		}
		b.WriteString(seg)
	}
	for _, m := range multilineCommentRe.FindAllStringIndex(text, -1) {
		copySegment(text[last:m[0]])
		b.WriteString("/* c */")
		line += strings.Count(text[m[0]:m[1]], "\n")
		last = m[1]
	}
	copySegment(text[last:])

	lines := strings.Split(b.String(), "\n")
	kept := make([]string, 0, len(lines))
	keptOrigins := make([]int, 0, len(lines))
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed != "" {
			if strings.HasPrefix(trimmed, "//") {
				continue
			}
			l = inlineCommentRe.ReplaceAllString(l, "")
			if strings.TrimSpace(l) == "" {
				continue
			}
		}
		kept = append(kept, l)
		keptOrigins = append(keptOrigins, origins[i])
	}
	return strings.Join(kept, "\n"), keptOrigins
}

// SplitBlocks strips comments from a document and splits it at empty
// lines. A chunk opening with a PCS line continues the previous block and
// turns it into an argument block; every other chunk starts a map block.
func SplitBlocks(text string) []Block {
	stripped, origins := stripComments(text)

	var blocks []Block
	idx := 0 // output line the current chunk starts on
	for _, chunk := range strings.Split(stripped, "\n\n") {
		start := idx
		idx += strings.Count(chunk, "\n") + 2
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		lead := len(chunk) - len(strings.TrimLeft(chunk, " \t\n"))
		line := origins[start+strings.Count(chunk[:lead], "\n")]

		first, ok := firstContentLine(chunk)
		if ok && pcsLineRe.MatchString(strings.TrimSpace(first)) {
			if n := len(blocks); n > 0 {
				blocks[n-1].Kind = model.BlockArgument
				blocks[n-1].Text += "\n\n" + chunk
				continue
			}
			blocks = append(blocks, Block{Kind: model.BlockArgument, Text: chunk, Line: line})
			continue
		}
		blocks = append(blocks, Block{Kind: model.BlockMap, Text: chunk, Line: line})
	}
	return blocks
}

// firstContentLine returns the first line that is neither blank nor a
// "//" comment
func firstContentLine(chunk string) (string, bool) {
	for _, l := range strings.Split(chunk, "\n") {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		return l, true
	}
	return "", false
}
