package parse

import (
	"strings"
	"sync"
)

type exemplars struct {
	category *Category
	texts    []string
}

type failure struct {
	category *Category
	state    string
	token    Token
}

// catalogue maps error categories to minimal failing blocks. The
// exemplars are parsed once, on the first error that needs classifying.
type catalogue struct {
	parse    func(string) *SyntaxError
	entries  []exemplars
	once     sync.Once
	failures []failure
}

func (c *catalogue) build() {
	for _, e := range c.entries {
		for _, text := range e.texts {
			serr := c.parse(text)
			if serr == nil || serr.Err != nil {
				continue
			}
			c.failures = append(c.failures, failure{category: e.category, state: serr.State, token: serr.Token})
		}
	}
}

// classify attaches the category of the best matching exemplar: same state
// and identical token first, then same state and token kind, then same
// state alone. Errors outside the grammar proper are left unclassified.
func (c *catalogue) classify(serr *SyntaxError) {
	if serr.Err != nil {
		return
	}
	c.once.Do(c.build)

	matchers := []func(failure) bool{
		func(f failure) bool {
			return f.state == serr.State && f.token.Kind == serr.Token.Kind && f.token.Text == serr.Token.Text
		},
		func(f failure) bool { return f.state == serr.State && f.token.Kind == serr.Token.Kind },
		func(f failure) bool { return f.state == serr.State },
	}
	for _, match := range matchers {
		for _, f := range c.failures {
			if match(f) {
				serr.Category = f.category
				return
			}
		}
	}
}

func block(lines ...string) string {
	return strings.Join(lines, "\n")
}

var defaultParser = New()

var mapCatalogue = &catalogue{
	parse: func(text string) *SyntaxError {
		_, serr := defaultParser.parseMap(text)
		return serr
	},
	entries: []exemplars{
		{UnknownRelation, []string{
			block("[root]: root text", "    <+ reason", "    < [child]: child text"),
			block("[root]: root text", "    <+ reason", "        < [child]: child text"),
			block("[root]: root text", "    <+ reason", "        <+ reason", "    < [child]: child text"),
			block("[root]: root text", "    <+ reason", "        <+ reason", "        < [child]: child text"),
			block("[root]: root text", "    > [child]: child text"),
			block("[root]: root text", "    <~ [child]: child text"),
			block("[root]: root text", "    ~> [child]: child text"),
			block("[root]: root text", "    <– [child]: child text"),
			block("[root]: root text", "    –> [child]: child text"),
			block("[root]: root text", "    <? [child]: child text"),
			block("[root]: root text", "    ?> [child]: child text"),
			block("[root]: root text", "    ~ [child]: child text"),
			block("[root]: root text", "    = [child]: child text"),
		}},
		{MissingArgumentLabelColon, []string{
			block("<Argument> argument"),
			block("[Claim]: claim", "    + <L> text"),
			block("[Claim]: claim", "    + reason", "    + <L> text"),
			block("[Claim]: claim", "    + reason", "        + <L> text"),
			block("[Claim]: claim", "    + reason", "       + reason", "    + <L> text"),
		}},
		{MissingPropositionLabelColon, []string{
			block("[Argument] argument"),
			block("[Claim]: claim", "    + [L] text"),
			block("[Claim]: claim", "    + reason", "    + [L] text"),
			block("[Claim]: claim", "    + reason", "        + [L] text"),
			block("[Claim]: claim", "    + reason", "       + reason", "    + [L] text"),
		}},
	},
}

var argumentCatalogue = &catalogue{
	parse: func(text string) *SyntaxError {
		_, serr := defaultParser.parseArgument(text)
		return serr
	},
	entries: []exemplars{
		{MissingEmptyLine, []string{
			block("<Argument 1>", "(1) Premise.", "----", "(2) Conclusion."),
			block("<Argument 1>", "    (1) Premise.", "    ----", "    (2) Conclusion."),
			block("<Argument 1>: Argument body.", "(P1) Premise.", "----", "(C1) Conclusion."),
		}},
		{MissingPremise, []string{
			block("<Argument 1>", "", "----", "(1) Conclusion."),
			block("<Argument 1>", "", "   ", "----", "(1) Conclusion."),
			block("<Argument 1>", "", "-- inference --", "(1) Conclusion."),
			block("<Argument 1>", "", "               ", "-- inference --", "(1) Conclusion."),
		}},
		{MissingArgumentLabelColon, []string{
			block("<Argument label> Argument body.", "   ", "(1) Premise.", "----", "(2) Conclusion."),
			block("<Argument label>Argument body.", "   ", "(1) Premise.", "----", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "   + <L> Reason", "----", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "----", "(2) Conclusion.", "   + <L> Reason"),
			block("<Argument 1>", "", "(1) Premise.", "----", "(2) Conclusion.", "----", "(3) Conclusion.", "   + <L> Reason"),
		}},
		{MissingPropositionLabelColon, []string{
			block("<Argument 1>", "   ", "(P1) [Label] Premise.", "----", "(C1) Conclusion."),
			block("<Argument 1>", "   ", "(P1) Premise.", "----", "(C1) [Label] Conclusion."),
			block("<Argument 1>", "   ", "(P1) Premise.", "(P2) [Label] Premise.", "----", "(C1) Conclusion."),
			block("<Argument 1>", "   ", "(P1) Premise.", "(P2) [Label]: Premise.", "----", "(C1) Conclusion.", "----", "(C1) [Label] Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "   + [PL] Reason", "----", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "----", "(2) Conclusion.", "   + [PL] Reason"),
			block("<Argument 1>", "", "(1) Premise.", "----", "(2) Conclusion.", "----", "(3) Conclusion.", "   + [PL] Reason"),
		}},
		{MissingArgumentLabel, []string{
			block("Argument 1", "", "(1) Premise.", "----", "(2) Conclusion."),
			block("Argument 1", "", "    (1) Premise.", "    ----", "    (2) Conclusion."),
			block("[Argument 1]: Argument body.", "", "(P1) Premise.", "----", "(C1) Conclusion."),
		}},
		{InvalidInferenceLine, []string{
			block("<Argument 1>", "", "(1) Premise.", "-- inference -- ", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "–– inference ––", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "---- ", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "----- ", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "(2) Premise.", "--", "(3) Conclusion."),
		}},
		{InvalidPropositionLabel, []string{
			block("<Argument 1>", "", "P1 Premise.", "----", "C2 Conclusion."),
			block("<Argument 1>", "", "(P1) Premise.", "----", "C2 Conclusion."),
			block("<Argument 1>", "", "(P1) Premise.", "-- with magic --", "C2 Conclusion."),
			block("<Argument 1>: Gist.", "", "1 Premise.", "----", "2 Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "(2) Premise.", "----", "C Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "(2) Premise.", "-- with magic --", "C Conclusion."),
			block("<Argument 1>", "", "Premise.", "----", "Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "----", "(2) Conclusion.", "(3) Premise.", "----", "(4 ) Conclusion"),
			block("<Argument 1>", "", "(1) Premise.", "----", "(2) Conclusion.", "(3) Premise.", "-- with magic --", "(4 ) Conclusion"),
			block("<Argument 1>", "", "[1] Premise.", "----", "[2] Conclusion."),
			block("<Argument 1>", "", "(Premise1) Premise.", "----", "(Conclusion1) Conclusion."),
			block("<Argument 1>", "", "1) Premise.", "----", "2) Conclusion."),
			block("<Argument 1>", "", "(P1) Premise.", "----", "(C) Conclusion."),
		}},
		{TooManyLinebreaks, []string{
			block("<Argument 1>", "", "(1) Premise.", "   ", "----", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "----", "", "(2) Conclusion."),
			block("<Argument 1>", "", "(1) Premise.", "   ", "(2) Premise.", "----", "(3) Conclusion."),
		}},
	},
}
