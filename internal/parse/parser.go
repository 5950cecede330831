// Package parse turns normalized Argdown blocks into parse trees.
//
// Map blocks are indentation-nested reason forests, argument blocks an
// optional head followed by a premise-conclusion structure. Both grammars
// are parsed line by line with one line of lookahead (three for delimited
// inference annotations). A rejected block yields a *SyntaxError naming
// the parser state and offending token; the error is then matched against
// a fixed catalogue of failing exemplars to attach a Category.
package parse

import "strings"

const (
	grammarMap      = "map"
	grammarArgument = "argument"
)

// Option configures a Parser
type Option func(*Parser)

// WithTabWidth sets the number of columns a tab counts for in map
// indentation. Non-positive values are ignored.
func WithTabWidth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.tabWidth = n
		}
	}
}

// Parser parses both block grammars. It holds no per-parse state and is
// safe for concurrent use.
type Parser struct {
	tabWidth int
}

// New creates a parser
func New(opts ...Option) *Parser {
	p := &Parser{tabWidth: 4}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Map parses a map block
func (p *Parser) Map(text string) (*MapTree, error) {
	tree, serr := p.parseMap(text)
	if serr != nil {
		mapCatalogue.classify(serr)
		return nil, serr
	}
	return tree, nil
}

// Argument parses an argument block
func (p *Parser) Argument(text string) (*ArgumentTree, error) {
	tree, serr := p.parseArgument(text)
	if serr != nil {
		argumentCatalogue.classify(serr)
		return nil, serr
	}
	return tree, nil
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// proposition parses "[label]", "[label]: text", "<label>..." (when
// arguments are allowed) or bare text starting at pos. prefix names the
// parser states of the enclosing rule.
func proposition(grammar, prefix string, raw string, pos, line int, allowArgument bool) (Reason, *SyntaxError) {
	r := Reason{Kind: ReasonProposition, Line: line}
	if pos >= len(raw) {
		return r, newSyntaxError(grammar, prefix, []TokenKind{TokenPropositionLabel, TokenText}, rootLex(raw, len(raw)), line, raw)
	}

	kind, label, w, ok := lexLabel(raw[pos:])
	if ok && (kind == TokenPropositionLabel || allowArgument) {
		state := prefix + ":prop-label"
		if kind == TokenArgumentLabel {
			r.Kind = ReasonArgument
			state = prefix + ":arg-label"
		}
		r.Label = label
		pos = skipBlank(raw, pos+w)
		if pos == len(raw) {
			return r, nil
		}
		if raw[pos] != ':' {
			return r, newSyntaxError(grammar, state, []TokenKind{TokenColon, TokenNewline}, rootLex(raw, pos), line, raw)
		}
		pos = skipBlank(raw, pos+1)
		if pos == len(raw) {
			return r, newSyntaxError(grammar, prefix+":text", []TokenKind{TokenText}, rootLex(raw, pos), line, raw)
		}
	}

	r.Text = raw[pos:]
	return r, nil
}
