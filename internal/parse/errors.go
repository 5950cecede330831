package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInconsistentDedent is returned when a map line dedents to a column
// no enclosing line was indented to.
var ErrInconsistentDedent = errors.New("unindent does not match any outer indentation level")

// Category is a named class of syntax errors. Categories are comparable
// with errors.Is against any *SyntaxError.
type Category struct {
	Name    string
	Message string
}

func (c *Category) Error() string { return c.Message }

var (
	UnknownRelation              = &Category{"unknown-relation", "Unrecognized dialectical relation type"}
	MissingArgumentLabelColon    = &Category{"missing-argument-label-colon", "Missing colon after argument label"}
	MissingPropositionLabelColon = &Category{"missing-proposition-label-colon", "Missing colon after proposition label"}
	MissingEmptyLine             = &Category{"missing-empty-line", "Missing separating empty line"}
	MissingPremise               = &Category{"missing-premise", "Expecting argument to start with premise"}
	MissingArgumentLabel         = &Category{"missing-argument-label", "Block does not start with argument label"}
	InvalidInferenceLine         = &Category{"invalid-inference-line", "Invalidly formatted inference line"}
	InvalidPropositionLabel      = &Category{"invalid-proposition-label", "Invalidly formatted proposition label"}
	TooManyLinebreaks            = &Category{"too-many-linebreaks", "Too many line breaks"}
)

// SyntaxError reports a rejected block. Category is nil when no catalogue
// entry matched; Err is set for failures outside the grammar proper.
type SyntaxError struct {
	Category *Category
	Grammar  string
	State    string
	Expected []TokenKind
	Token    Token
	Line     int
	Column   int
	Context  string
	Err      error
}

func (e *SyntaxError) Error() string {
	if e.Category != nil {
		return fmt.Sprintf("%s at line %d, column %d.\n\n%s", e.Category.Message, e.Line, e.Column, e.Context)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s block: %v at line %d.\n\n%s", e.Grammar, e.Err, e.Line, e.Context)
	}
	expected := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		expected[i] = k.String()
	}
	return fmt.Sprintf("%s block: unexpected %s %q at line %d, column %d (expected %s).\n\n%s",
		e.Grammar, e.Token.Kind, e.Token.Text, e.Line, e.Column, strings.Join(expected, ", "), e.Context)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is matches the error's category
func (e *SyntaxError) Is(target error) bool {
	c, ok := target.(*Category)
	return ok && e.Category != nil && e.Category == c
}

func newSyntaxError(grammar, state string, expected []TokenKind, tok Token, line int, raw string) *SyntaxError {
	return &SyntaxError{
		Grammar:  grammar,
		State:    state,
		Expected: expected,
		Token:    tok,
		Line:     line,
		Column:   tok.Column,
		Context:  context(raw, tok.Column),
	}
}

// context renders the offending line with a caret under the column
func context(raw string, col int) string {
	line := strings.TrimRight(raw, " \t\r\n")
	if col < 1 {
		col = 1
	}
	return line + "\n" + strings.Repeat(" ", col-1) + "^"
}
