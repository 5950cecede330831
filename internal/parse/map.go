package parse

import "strings"

// parseMap builds the reason forest of a map block. Blank lines are
// skipped; the first content line fixes the base column.
func (p *Parser) parseMap(text string) (*MapTree, *SyntaxError) {
	lines := strings.Split(normalizeNewlines(text), "\n")
	tree := &MapTree{}

	var levels []int
	var open []*MapNode // last node per open level

	for i, raw := range lines {
		lineNo := i + 1
		if isBlank(raw) {
			continue
		}
		start := skipBlank(raw, 0)
		indent := p.indentation(raw[:start])

		switch {
		case levels == nil:
			levels = []int{indent}
		case indent > levels[len(levels)-1]:
			levels = append(levels, indent)
		case indent < levels[len(levels)-1]:
			for len(levels) > 0 && levels[len(levels)-1] > indent {
				levels = levels[:len(levels)-1]
			}
			if len(levels) == 0 || levels[len(levels)-1] != indent {
				return nil, &SyntaxError{
					Grammar: grammarMap,
					State:   "indent",
					Token:   Token{Kind: TokenText, Text: raw[start:], Column: column(raw, start)},
					Line:    lineNo,
					Column:  column(raw, start),
					Context: context(raw, column(raw, start)),
					Err:     ErrInconsistentDedent,
				}
			}
		}

		depth := len(levels) - 1
		n, serr := mapLine(raw, start, lineNo, depth > 0)
		if serr != nil {
			return nil, serr
		}
		if depth == 0 {
			tree.Roots = append(tree.Roots, n)
		} else {
			parent := open[depth-1]
			parent.Children = append(parent.Children, n)
		}
		open = append(open[:depth], n)
	}

	return tree, nil
}

// mapLine parses one reason line; children must start with a relation marker
func mapLine(raw string, pos, line int, child bool) (*MapNode, *SyntaxError) {
	n := &MapNode{}
	if child {
		marker, w, ok := matchMarker(raw[pos:])
		if !ok {
			return nil, newSyntaxError(grammarMap, "child:relation", []TokenKind{TokenRelation}, rootLex(raw, pos), line, raw)
		}
		n.Marker = marker
		pos = skipBlank(raw, pos+w)
		if pos == len(raw) {
			return nil, newSyntaxError(grammarMap, "reason",
				[]TokenKind{TokenPropositionLabel, TokenArgumentLabel, TokenText}, rootLex(raw, pos), line, raw)
		}
	}

	reason, serr := proposition(grammarMap, "reason", raw, pos, line, true)
	if serr != nil {
		return nil, serr
	}
	n.Reason = reason
	return n, nil
}

// indentation measures leading blanks, counting tabs as tabWidth columns
func (p *Parser) indentation(lead string) int {
	n := 0
	for _, c := range lead {
		if c == '\t' {
			n += p.tabWidth
		} else {
			n++
		}
	}
	return n
}
