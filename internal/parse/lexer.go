package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/argmap/internal/model"
)

// TokenKind classifies a lexeme of either grammar
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenPropositionLabel
	TokenArgumentLabel
	TokenPCSLabel
	TokenInferenceLine
	TokenInferenceInfo
	TokenRelation
	TokenColon
	TokenNewline
	TokenEOF
)

var tokenNames = [...]string{
	"TEXT", "PROPOSITION_LABEL", "ARGUMENT_LABEL", "PCS_LABEL", "INFERENCE_LINE",
	"INFERENCE_INFO", "RELATION", "COLON", "NEWLINE", "EOF",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "UNKNOWN"
	}
	return tokenNames[k]
}

// Token is a lexeme with its 1-based column
type Token struct {
	Kind   TokenKind
	Text   string
	Column int
}

// RelationMarker is the prefix binding a reason line to its parent
type RelationMarker int

const (
	NoMarker      RelationMarker = iota
	LeftPro                      // "+ ", "<+ "
	RightPro                     // "+> "
	LeftCon                      // "- ", "<- "
	RightCon                     // "-> "
	LeftUndercut                 // "<_ "
	RightUndercut                // "_> "
	Contradict                   // ">< "
)

var markerTable = []struct {
	text   string
	marker RelationMarker
}{
	{"<+", LeftPro},
	{"<-", LeftCon},
	{"<_", LeftUndercut},
	{"+>", RightPro},
	{"->", RightCon},
	{"_>", RightUndercut},
	{"><", Contradict},
	{"+", LeftPro},
	{"-", LeftCon},
}

func (m RelationMarker) String() string {
	switch m {
	case LeftPro:
		return "<+"
	case RightPro:
		return "+>"
	case LeftCon:
		return "<-"
	case RightCon:
		return "->"
	case LeftUndercut:
		return "<_"
	case RightUndercut:
		return "_>"
	case Contradict:
		return "><"
	default:
		return ""
	}
}

// Valence returns the dialectical valence the marker states
func (m RelationMarker) Valence() model.Valence {
	switch m {
	case LeftCon, RightCon:
		return model.Attack
	case LeftUndercut, RightUndercut:
		return model.Undercut
	case Contradict:
		return model.Contradict
	default:
		return model.Support
	}
}

// FromChild reports whether the relation runs from the marked line to its
// anchor (the parent reason or the preceding PCS entry).
func (m RelationMarker) FromChild() bool {
	switch m {
	case RightPro, RightCon, RightUndercut:
		return false
	default:
		return true
	}
}

var (
	pcsLabelRe      = regexp.MustCompile(`^\(([A-Z]*[0-9]+)\)`)
	inferenceLineRe = regexp.MustCompile(`^-{3,}$`)
	inferenceInfoRe = regexp.MustCompile(`^--(?:\n[\t ]*)?(.+?)(?:\n[\t ]*)?--$`)
)

// matchMarker returns the relation marker at the start of s and its width
// including the separating blank.
func matchMarker(s string) (RelationMarker, int, bool) {
	for _, m := range markerTable {
		n := len(m.text)
		if len(s) > n && strings.HasPrefix(s, m.text) && (s[n] == ' ' || s[n] == '\t') {
			return m.marker, n + 1, true
		}
	}
	return NoMarker, 0, false
}

// lexLabel matches a closed [proposition] or <argument> label at the start
// of s and returns its kind, inner text and width.
func lexLabel(s string) (TokenKind, string, int, bool) {
	if s == "" {
		return 0, "", 0, false
	}
	var kind TokenKind
	var closer byte
	switch s[0] {
	case '[':
		kind, closer = TokenPropositionLabel, ']'
	case '<':
		kind, closer = TokenArgumentLabel, '>'
	default:
		return 0, "", 0, false
	}
	end := strings.IndexByte(s[1:], closer)
	if end < 1 {
		return 0, "", 0, false
	}
	return kind, s[1 : end+1], end + 2, true
}

// rootLex classifies the remainder of a line starting at byte offset pos
// without regard to parser state. It names the offending token of a
// structural error.
func rootLex(line string, pos int) Token {
	col := column(line, pos)
	s := line[pos:]
	if strings.TrimSpace(s) == "" {
		return Token{Kind: TokenNewline, Text: "\n", Column: col}
	}
	if inferenceLineRe.MatchString(s) {
		return Token{Kind: TokenInferenceLine, Text: s, Column: col}
	}
	if inferenceInfoRe.MatchString(s) {
		return Token{Kind: TokenInferenceInfo, Text: s, Column: col}
	}
	if m := pcsLabelRe.FindString(s); m != "" {
		return Token{Kind: TokenPCSLabel, Text: m, Column: col}
	}
	if kind, _, w, ok := lexLabel(s); ok {
		return Token{Kind: kind, Text: s[:w], Column: col}
	}
	if _, w, ok := matchMarker(s); ok {
		return Token{Kind: TokenRelation, Text: s[:w], Column: col}
	}
	if s[0] == ':' {
		return Token{Kind: TokenColon, Text: ":", Column: col}
	}
	return Token{Kind: TokenText, Text: s, Column: col}
}

// skipBlank advances pos past spaces and tabs
func skipBlank(line string, pos int) int {
	for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		pos++
	}
	return pos
}

// column converts a byte offset into a 1-based character column
func column(line string, pos int) int {
	return utf8.RuneCountInString(line[:pos]) + 1
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
