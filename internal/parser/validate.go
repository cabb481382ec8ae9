package parser

import "strings"

// Fixed tokens of the Pitanja grammar
const (
	headerToken       = "@PITANJA_FILE"
	questionTypeToken = "@PITANJE"
	questionTextToken = "???"
	rightAnswerToken  = "@+"
	wrongAnswerToken  = "@-"
	yesToken          = "@DA"
	noToken           = "@NE"
	answerPrefix      = "@"
	terminatorLine    = "---===---"
)

// HeaderMatch is the result of MatchHeader
type HeaderMatch struct {
	OK   bool
	Name string
}

// QuestionTypeMatch is the result of MatchQuestionType
type QuestionTypeMatch struct {
	OK   bool
	Type string
}

// TextMatch is the result of MatchQuestionText
type TextMatch struct {
	OK   bool
	Text string
}

// ChoiceMatch is the result of MatchChoiceAnswer
type ChoiceMatch struct {
	OK    bool
	Right bool
	Text  string
}

// YesNoMatch is the result of MatchYesNoAnswer
type YesNoMatch struct {
	OK    bool
	Value bool
}

// FillInMatch is the result of MatchFillInAnswer
type FillInMatch struct {
	OK   bool
	Key  string
	Text string
}

// MatchHeader checks for "@PITANJA_FILE <name>"
func MatchHeader(line string) HeaderMatch {
	toks := tokenize(line)
	if len(toks) != 2 || toks[0] != headerToken {
		return HeaderMatch{}
	}
	return HeaderMatch{OK: true, Name: toks[1]}
}

// MatchQuestionType checks for "@PITANJE <type>". The type keyword itself is
// not checked here; the document parser rejects unknown ones.
func MatchQuestionType(line string) QuestionTypeMatch {
	toks := tokenize(line)
	if len(toks) != 2 || toks[0] != questionTypeToken {
		return QuestionTypeMatch{}
	}
	return QuestionTypeMatch{OK: true, Type: strings.TrimSpace(toks[1])}
}

// MatchQuestionText checks for "??? <text...>"
func MatchQuestionText(line string) TextMatch {
	toks := tokenize(line)
	if len(toks) < 2 || toks[0] != questionTextToken {
		return TextMatch{}
	}
	return TextMatch{OK: true, Text: rejoin(toks[1:])}
}

// MatchChoiceAnswer checks for "@+ <text...>" or "@- <text...>"
func MatchChoiceAnswer(line string) ChoiceMatch {
	toks := tokenize(line)
	if len(toks) < 2 {
		return ChoiceMatch{}
	}
	switch toks[0] {
	case rightAnswerToken:
		return ChoiceMatch{OK: true, Right: true, Text: rejoin(toks[1:])}
	case wrongAnswerToken:
		return ChoiceMatch{OK: true, Right: false, Text: rejoin(toks[1:])}
	}
	return ChoiceMatch{}
}

// MatchYesNoAnswer checks for a line that is exactly "@DA" or "@NE"
func MatchYesNoAnswer(line string) YesNoMatch {
	switch strings.TrimSpace(line) {
	case yesToken:
		return YesNoMatch{OK: true, Value: true}
	case noToken:
		return YesNoMatch{OK: true, Value: false}
	}
	return YesNoMatch{}
}

// MatchFillInAnswer checks for "@<key> <text...>"
func MatchFillInAnswer(line string) FillInMatch {
	toks := tokenize(line)
	if len(toks) < 2 || !strings.HasPrefix(toks[0], answerPrefix) {
		return FillInMatch{}
	}
	return FillInMatch{
		OK:   true,
		Key:  strings.TrimPrefix(toks[0], answerPrefix),
		Text: rejoin(toks[1:]),
	}
}

// isTerminator reports whether line closes a question block
func isTerminator(line string) bool {
	return strings.TrimSpace(line) == terminatorLine
}

// isBlank reports whether line holds nothing but whitespace
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// tokenize splits on single ASCII spaces, so runs of spaces yield empty tokens
func tokenize(line string) []string {
	return strings.Split(stripTerminator(line), " ")
}

// rejoin joins the non-empty tokens with single spaces
func rejoin(toks []string) string {
	words := make([]string, 0, len(toks))
	for _, t := range toks {
		if t != "" {
			words = append(words, t)
		}
	}
	return strings.Join(words, " ")
}

func stripTerminator(line string) string {
	return strings.TrimRight(line, "\r\n")
}
