package parser

// cursor is a position within the input lines. It is passed and returned by
// value; nothing mutates a cursor in place.
type cursor struct {
	lines []string
	pos   int
}

func (c cursor) done() bool   { return c.pos >= len(c.lines) }
func (c cursor) line() string { return c.lines[c.pos] }
func (c cursor) next() cursor { return cursor{lines: c.lines, pos: c.pos + 1} }

// skipBlank advances past whitespace-only lines
func (c cursor) skipBlank() cursor {
	for !c.done() && isBlank(c.line()) {
		c = c.next()
	}
	return c
}

// subParser consumes one question block starting right after its
// "@PITANJE" line and returns the cursor one past the terminator
type subParser func(c cursor) (Question, cursor, error)

var subParsers = map[QuestionType]subParser{
	TypeMultipleChoice: parseMultipleChoice,
	TypeYesNo:          parseYesNo,
	TypeFillIn:         parseFillIn,
}

// parseBlock is the traversal shared by every question variant. accept is
// called once per answer line and reports whether the line had the
// variant's answer shape.
func parseBlock(c cursor, accept func(line string) bool) (string, cursor, error) {
	c = c.skipBlank()
	if c.done() {
		return "", c, errEOF()
	}
	qm := MatchQuestionText(c.line())
	if !qm.OK {
		return "", c, errAt(QuestionLineInvalid, c)
	}
	c = c.next()

	for {
		c = c.skipBlank()
		if c.done() {
			return "", c, errEOF()
		}
		if isTerminator(c.line()) {
			return qm.Text, c.next(), nil
		}
		if !accept(c.line()) {
			return "", c, errAt(AnswerLineInvalid, c)
		}
		c = c.next()
	}
}

func parseMultipleChoice(c cursor) (Question, cursor, error) {
	q := &MultipleChoice{RightAnswers: []string{}, WrongAnswers: []string{}}
	text, end, err := parseBlock(c, func(line string) bool {
		m := MatchChoiceAnswer(line)
		if !m.OK {
			return false
		}
		if m.Right {
			q.RightAnswers = append(q.RightAnswers, m.Text)
		} else {
			q.WrongAnswers = append(q.WrongAnswers, m.Text)
		}
		return true
	})
	if err != nil {
		return nil, end, err
	}
	q.Question = text
	return q, end, nil
}

func parseYesNo(c cursor) (Question, cursor, error) {
	q := &YesNo{}
	text, end, err := parseBlock(c, func(line string) bool {
		m := MatchYesNoAnswer(line)
		if !m.OK {
			return false
		}
		// last answer line wins
		q.RightAnswer = m.Value
		return true
	})
	if err != nil {
		return nil, end, err
	}
	q.Question = text
	return q, end, nil
}

func parseFillIn(c cursor) (Question, cursor, error) {
	q := &FillIn{RightAnswers: FillInAnswers{}}
	text, end, err := parseBlock(c, func(line string) bool {
		m := MatchFillInAnswer(line)
		if !m.OK {
			return false
		}
		q.RightAnswers = q.RightAnswers.Add(m.Key, m.Text)
		return true
	})
	if err != nil {
		return nil, end, err
	}
	q.Question = text
	return q, end, nil
}
