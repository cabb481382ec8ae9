// Package parser turns the lines of a Pitanja quiz file into a Document.
//
// A Pitanja file starts with a "@PITANJA_FILE <name>" header followed by
// question blocks. Each block opens with "@PITANJE <type>", carries one
// "??? <question>" line and a number of answer lines, and closes with
// "---===---". Blank lines are ignored between and inside blocks.
//
// Parsing is strict: the first malformed line aborts the whole parse with a
// *ParseError and no partial Document is returned.
package parser

// Parse parses a complete Pitanja file given as lines. Lines may keep their
// "\n" or "\r\n" terminators.
func Parse(lines []string) (*Document, error) {
	c := cursor{lines: lines}

	// ExpectHeader
	if c.done() {
		return nil, &ParseError{Kind: HeaderInvalid, Line: 1}
	}
	header := MatchHeader(c.line())
	if !header.OK {
		return nil, errAt(HeaderInvalid, c)
	}
	doc := &Document{
		Filename:  header.Name,
		Questions: make([]Question, 0),
	}
	c = c.next()

	// ScanningBody
	for !c.done() {
		if isBlank(c.line()) {
			c = c.next()
			continue
		}

		qt := MatchQuestionType(c.line())
		if !qt.OK {
			return nil, errAt(QuestionTypeInvalid, c)
		}
		parse, ok := subParsers[QuestionType(qt.Type)]
		if !ok {
			return nil, errAt(QuestionTypeInvalid, c)
		}

		q, end, err := parse(c.next())
		if err != nil {
			return nil, err
		}
		doc.Questions = append(doc.Questions, q)
		c = end
	}

	return doc, nil
}
