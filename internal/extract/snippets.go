package extract

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Format names the kind of host document snippets are pulled from
type Format string

const (
	FormatAuto     Format = "auto"     // Sniff from content
	FormatRaw      Format = "raw"      // Whole document is Argdown
	FormatMarkdown Format = "markdown" // Fenced code blocks
	FormatHTML     Format = "html"     // <pre>/<code> with a language class
)

// Snippet is one Argdown fragment found in a host document
type Snippet struct {
	Text   string `json:"text"`
	Line   int    `json:"line"`   // Host line of the first snippet line (1-based), 0 if unknown
	Origin Format `json:"origin"` // Format the snippet was extracted from
}

var fenceOpen = regexp.MustCompile("^[ \t]*(`{3,}|~{3,})[ \t]*([A-Za-z0-9_-]*)")

// SnippetExtractor pulls Argdown sources out of Markdown and HTML documents
type SnippetExtractor struct {
	languages []string
}

// NewSnippetExtractor creates an extractor recognizing the argdown languages
func NewSnippetExtractor() *SnippetExtractor {
	return &SnippetExtractor{
		languages: []string{"argdown", "argdown-map", "argdown-argument"},
	}
}

// Extract returns the Argdown snippets of content. Raw documents yield a
// single snippet holding the whole content.
func (e *SnippetExtractor) Extract(content string, format Format) ([]Snippet, error) {
	if format == "" || format == FormatAuto {
		format = e.Sniff(content)
	}
	switch format {
	case FormatRaw:
		return []Snippet{{Text: content, Line: 1, Origin: FormatRaw}}, nil
	case FormatMarkdown:
		return e.fromMarkdown(content), nil
	case FormatHTML:
		return e.fromHTML(content)
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}
}

// Sniff guesses the host format of content
func (e *SnippetExtractor) Sniff(content string) Format {
	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") {
		return FormatHTML
	}
	for _, line := range strings.Split(content, "\n") {
		if m := fenceOpen.FindStringSubmatch(line); m != nil && e.isArgdown(m[2]) {
			return FormatMarkdown
		}
	}
	return FormatRaw
}

func (e *SnippetExtractor) isArgdown(lang string) bool {
	lang = strings.ToLower(lang)
	for _, l := range e.languages {
		if lang == l {
			return true
		}
	}
	return false
}

// fromMarkdown collects fenced blocks tagged with an argdown language
func (e *SnippetExtractor) fromMarkdown(content string) []Snippet {
	var snippets []Snippet
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		m := fenceOpen.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		fence := m[1]
		start := i + 1
		end := start
		for end < len(lines) && !isFenceClose(lines[end], fence) {
			end++
		}
		if e.isArgdown(m[2]) {
			snippets = append(snippets, Snippet{
				Text:   strings.Join(lines[start:min(end, len(lines))], "\n"),
				Line:   start + 1,
				Origin: FormatMarkdown,
			})
		}
		i = end
	}

	return snippets
}

func isFenceClose(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, fence[:1]) || len(trimmed) < len(fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}

// fromHTML collects <code> and <pre> elements whose class names an argdown language
func (e *SnippetExtractor) fromHTML(content string) ([]Snippet, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var snippets []Snippet
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "pre", "code":
				if e.hasArgdownClass(n) {
					snippets = append(snippets, Snippet{
						Text:   textContent(n),
						Origin: FormatHTML,
					})
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return snippets, nil
}

func (e *SnippetExtractor) hasArgdownClass(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			lang := strings.TrimPrefix(strings.TrimPrefix(class, "language-"), "lang-")
			if lang != class && e.isArgdown(lang) {
				return true
			}
		}
	}
	return false
}

// textContent concatenates all text below n without trimming
func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
