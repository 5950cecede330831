package preprocess

import (
	"strings"

	"github.com/ppiankov/argmap/internal/model"
)

// Handler transforms one block
type Handler interface {
	Handle(Block) Block
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(Block) Block

// Handle calls f(b)
func (f HandlerFunc) Handle(b Block) Block {
	return f(b)
}

// Chain applies handlers in order
type Chain []Handler

// NewChain creates a chain from handlers
func NewChain(handlers ...Handler) Chain {
	return Chain(handlers)
}

// DefaultChain returns the normalizer chain applied before parsing.
// Comments are removed twice since collapsing can join a comment line
// onto its predecessor.
func DefaultChain() Chain {
	return NewChain(
		RemoveComments,
		TrimWhitespace,
		CollapseLines,
		RemoveComments,
		TrimTrailingWhitespace,
	)
}

// Process runs b through every handler
func (c Chain) Process(b Block) Block {
	for _, h := range c {
		b = h.Handle(b)
	}
	return b
}

var (
	// RemoveComments drops "//" comment lines and lines that only held
	// comments, and cuts inline block comments and trailing "//" comments.
	RemoveComments Handler = HandlerFunc(removeComments)

	// TrimWhitespace strips every line of an argument block. Map blocks
	// are left alone since their indentation is significant.
	TrimWhitespace Handler = HandlerFunc(trimWhitespace)

	// CollapseLines joins soft-wrapped lines onto the line they continue.
	CollapseLines Handler = HandlerFunc(collapseLines)

	// TrimTrailingWhitespace right-trims every line of an argument block.
	TrimTrailingWhitespace Handler = HandlerFunc(trimTrailingWhitespace)
)

func mapLines(b Block, fn func(string) string) Block {
	lines := strings.Split(b.Text, "\n")
	for i, l := range lines {
		lines[i] = fn(l)
	}
	b.Text = strings.Join(lines, "\n")
	return b
}

func removeComments(b Block) Block {
	lines := strings.Split(b.Text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		cleaned := inlineCommentRe.ReplaceAllString(l, "")
		if trimmed != "" && strings.TrimSpace(cleaned) == "" {
			continue
		}
		if i := lineCommentIndex(cleaned); i >= 0 {
			cleaned = strings.TrimRight(cleaned[:i], " \t")
		}
		kept = append(kept, cleaned)
	}
	b.Text = strings.Join(kept, "\n")
	return b
}

// lineCommentIndex finds a "//" that starts a comment, i.e. one at the
// start of the line or after a blank. URLs inside text are kept.
func lineCommentIndex(line string) int {
	for i := 0; i+1 < len(line); i++ {
		if line[i] == '/' && line[i+1] == '/' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
			return i
		}
	}
	return -1
}

func trimWhitespace(b Block) Block {
	if b.Kind != model.BlockArgument {
		return b
	}
	return mapLines(b, strings.TrimSpace)
}

func trimTrailingWhitespace(b Block) Block {
	if b.Kind != model.BlockArgument {
		return b
	}
	return mapLines(b, func(l string) string { return strings.TrimRight(l, " \t") })
}

var reasonPrefixes = []string{"[", "<", "+", "-", "><", "_>", "<_"}

func collapseLines(b Block) Block {
	var out []string
	for _, l := range strings.Split(b.Text, "\n") {
		if len(out) == 0 || strings.TrimSpace(l) == "" || startsLine(l) || isInferenceLine(out[len(out)-1]) {
			out = append(out, l)
			continue
		}
		last := len(out) - 1
		out[last] = strings.TrimRight(out[last], " \t") + " " + strings.TrimLeft(l, " \t")
	}
	b.Text = strings.Join(out, "\n")
	return b
}

// startsLine reports whether l opens a new logical line: a PCS line, a
// reason or relation line, or an inference line
func startsLine(l string) bool {
	trimmed := strings.TrimSpace(l)
	if pcsLineRe.MatchString(trimmed) {
		return true
	}
	for _, p := range reasonPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

func isInferenceLine(l string) bool {
	return strings.HasPrefix(strings.TrimSpace(l), "--")
}
