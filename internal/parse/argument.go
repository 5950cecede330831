package parse

import "strings"

type argumentParser struct {
	lines  []string
	offset int // lines trimmed off the front of the block
}

// parseArgument parses an argument block. Leading and trailing blank
// lines are ignored, as is the indentation of every line.
func (p *Parser) parseArgument(text string) (*ArgumentTree, *SyntaxError) {
	text = normalizeNewlines(text)
	trimmed := strings.TrimSpace(text)
	offset := 0
	if trimmed != "" {
		offset = strings.Count(text[:strings.Index(text, trimmed)], "\n")
	}
	a := &argumentParser{lines: strings.Split(trimmed, "\n"), offset: offset}
	return a.parse()
}

func (a *argumentParser) lineNo(i int) int { return a.offset + i + 1 }

func (a *argumentParser) fail(state string, expected []TokenKind, i int, tok Token) *SyntaxError {
	raw := ""
	if i < len(a.lines) {
		raw = a.lines[i]
	}
	return newSyntaxError(grammarArgument, state, expected, tok, a.lineNo(i), raw)
}

// eof is the token reported when the block ends early
func (a *argumentParser) eof() (int, Token) {
	last := len(a.lines) - 1
	return last, Token{Kind: TokenEOF, Column: column(a.lines[last], len(a.lines[last]))}
}

// unexpected reports the line i as seen by the state-free lexer
func (a *argumentParser) unexpected(state string, expected []TokenKind, i int) *SyntaxError {
	if i >= len(a.lines) {
		last, tok := a.eof()
		return a.fail(state, expected, last, tok)
	}
	raw := a.lines[i]
	return a.fail(state, expected, i, rootLex(raw, skipBlank(raw, 0)))
}

func (a *argumentParser) parse() (*ArgumentTree, *SyntaxError) {
	tree := &ArgumentTree{}
	i := 0

	raw := a.lines[0]
	start := skipBlank(raw, 0)
	if !pcsLabelRe.MatchString(raw[start:]) {
		head, serr := a.head(raw, start)
		if serr != nil {
			return nil, serr
		}
		tree.Head = head

		i = 1
		if i >= len(a.lines) || !isBlank(a.lines[i]) {
			return nil, a.unexpected("head:separator", []TokenKind{TokenNewline}, i)
		}
		for i < len(a.lines) && isBlank(a.lines[i]) {
			i++
		}
	}

	first, serr := a.statement(i, "body:start", "premise")
	if serr != nil {
		return nil, serr
	}
	tree.Body = append(tree.Body, BodyItem{Kind: ItemPremise, Statement: first})
	i++

	for i < len(a.lines) {
		raw := a.lines[i]
		if isBlank(raw) {
			j := i
			for j < len(a.lines) && isBlank(a.lines[j]) {
				j++
			}
			if j < len(a.lines) {
				return nil, a.unexpected("body:blank-line", []TokenKind{TokenNewline, TokenEOF}, j)
			}
			break
		}

		start := skipBlank(raw, 0)
		content := raw[start:]
		switch {
		case pcsLabelRe.MatchString(content):
			st, serr := a.statement(i, "body:item", "premise")
			if serr != nil {
				return nil, serr
			}
			tree.Body = append(tree.Body, BodyItem{Kind: ItemPremise, Statement: st})
			i++

		case strings.HasPrefix(content, "--"):
			info, consumed, ok := a.inference(i)
			if !ok {
				return nil, a.unexpected("body:item", bodyExpected, i)
			}
			j := i + consumed
			if j < len(a.lines) && isBlank(a.lines[j]) {
				return nil, a.fail("conclusion:start", []TokenKind{TokenPCSLabel}, j,
					Token{Kind: TokenNewline, Text: "\n", Column: 1})
			}
			st, serr := a.statement(j, "conclusion:start", "conclusion")
			if serr != nil {
				return nil, serr
			}
			tree.Body = append(tree.Body, BodyItem{Kind: ItemConclusion, Statement: st, Inference: info})
			i = j + 1

		default:
			marker, w, ok := matchMarker(content)
			if !ok {
				return nil, a.unexpected("body:item", bodyExpected, i)
			}
			pos := skipBlank(raw, start+w)
			reason, serr := proposition(grammarArgument, "reason", raw, pos, a.lineNo(i), true)
			if serr != nil {
				return nil, serr
			}
			tree.Body = append(tree.Body, BodyItem{Kind: ItemReason, Marker: marker, Reason: reason})
			i++
		}
	}

	return tree, nil
}

var bodyExpected = []TokenKind{TokenPCSLabel, TokenInferenceLine, TokenInferenceInfo, TokenRelation}

// head parses "<label>" or "<label>: text"
func (a *argumentParser) head(raw string, pos int) (*Head, *SyntaxError) {
	kind, label, w, ok := lexLabel(raw[pos:])
	if !ok || kind != TokenArgumentLabel {
		return nil, a.fail("start", []TokenKind{TokenArgumentLabel, TokenPCSLabel}, 0, rootLex(raw, pos))
	}
	h := &Head{Label: label, Line: a.lineNo(0)}
	pos = skipBlank(raw, pos+w)
	if pos == len(raw) {
		return h, nil
	}
	if raw[pos] != ':' {
		return nil, a.fail("head:arg-label", []TokenKind{TokenColon, TokenNewline}, 0, rootLex(raw, pos))
	}
	pos = skipBlank(raw, pos+1)
	if pos == len(raw) {
		return nil, a.fail("head:text", []TokenKind{TokenText}, 0, rootLex(raw, pos))
	}
	h.Text = raw[pos:]
	return h, nil
}

// statement parses a numbered PCS line at index i. startState is reported
// when the line does not open with a sequence label.
func (a *argumentParser) statement(i int, startState, prefix string) (Statement, *SyntaxError) {
	if i >= len(a.lines) {
		return Statement{}, a.unexpected(startState, []TokenKind{TokenPCSLabel}, i)
	}
	raw := a.lines[i]
	start := skipBlank(raw, 0)
	m := pcsLabelRe.FindStringSubmatch(raw[start:])
	if m == nil {
		return Statement{}, a.unexpected(startState, []TokenKind{TokenPCSLabel}, i)
	}

	pos := skipBlank(raw, start+len(m[0]))
	prop, serr := proposition(grammarArgument, prefix, raw, pos, a.lineNo(i), false)
	if serr != nil {
		return Statement{}, serr
	}
	return Statement{
		Seq:              m[1],
		PropositionLabel: prop.Label,
		Text:             prop.Text,
		Line:             a.lineNo(i),
	}, nil
}

// inference matches an inference marker at line i: a bare rule of three or
// more dashes, or a "-- annotation --" spread over up to three lines.
// It returns the raw annotation and the number of lines consumed.
func (a *argumentParser) inference(i int) (string, int, bool) {
	first := a.lines[i][skipBlank(a.lines[i], 0):]
	if inferenceLineRe.MatchString(first) {
		return "", 1, true
	}
	joined := first
	for k := 1; k <= 3 && i+k <= len(a.lines); k++ {
		if k > 1 {
			joined += "\n" + a.lines[i+k-1]
		}
		if m := inferenceInfoRe.FindString(joined); m != "" {
			return strings.TrimSpace(m[2 : len(m)-2]), k, true
		}
	}
	return "", 0, false
}
