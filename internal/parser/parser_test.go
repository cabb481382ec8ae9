package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(strings.TrimPrefix(s, "\n"), "\n")
}

func TestParseMinimalFile(t *testing.T) {
	doc, err := Parse(lines(`
@PITANJA_FILE sample
@PITANJE da-ne
??? Is the sky blue?
@DA
---===---`))
	require.NoError(t, err)

	assert.Equal(t, &Document{
		Filename: "sample",
		Questions: []Question{
			&YesNo{Question: "Is the sky blue?", RightAnswer: true},
		},
	}, doc)
}

func TestParseHeaderOnly(t *testing.T) {
	doc, err := Parse([]string{"@PITANJA_FILE empty", "", "   "})
	require.NoError(t, err)
	assert.Equal(t, "empty", doc.Filename)
	assert.Empty(t, doc.Questions)
}

func TestParseMultipleChoiceKeepsOrder(t *testing.T) {
	doc, err := Parse(lines(`
@PITANJA_FILE geo
@PITANJE zaokruzi
??? Which are in Europe?
@+ France
@- Japan
@+ Spain
@- Peru
@+ France
---===---`))
	require.NoError(t, err)
	require.Len(t, doc.Questions, 1)

	q, ok := doc.Questions[0].(*MultipleChoice)
	require.True(t, ok)
	assert.Equal(t, "Which are in Europe?", q.Question)
	assert.Equal(t, []string{"France", "Spain", "France"}, q.RightAnswers)
	assert.Equal(t, []string{"Japan", "Peru"}, q.WrongAnswers)
}

func TestParseYesNoLastAnswerWins(t *testing.T) {
	doc, err := Parse(lines(`
@PITANJA_FILE yn
@PITANJE da-ne
??? Is water wet?
@DA
@NE
---===---`))
	require.NoError(t, err)
	assert.Equal(t, &YesNo{Question: "Is water wet?", RightAnswer: false}, doc.Questions[0])
}

func TestParseFillInGroupsByKey(t *testing.T) {
	doc, err := Parse(lines(`
@PITANJA_FILE fill
@PITANJE dopuni
??? Capital of France is ___ and of Italy ___
@1 Paris
@2 Rome
@1 paris
@2 Roma
---===---`))
	require.NoError(t, err)

	q, ok := doc.Questions[0].(*FillIn)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, q.RightAnswers.Keys())
	assert.Equal(t, FillInAnswers{
		{Key: "1", Values: []string{"Paris", "paris"}},
		{Key: "2", Values: []string{"Rome", "Roma"}},
	}, q.RightAnswers)
}

func TestFillInAnswersAddLeavesReceiver(t *testing.T) {
	doc, err := Parse([]string{"@PITANJA_FILE f", "@PITANJE dopuni", "??? q", "@1 Paris", "---===---"})
	require.NoError(t, err)
	original := doc.Questions[0].(*FillIn).RightAnswers

	extended := original.Add("1", "paris").Add("2", "Rome")

	assert.Equal(t, FillInAnswers{{Key: "1", Values: []string{"Paris"}}}, original)
	assert.Equal(t, FillInAnswers{
		{Key: "1", Values: []string{"Paris", "paris"}},
		{Key: "2", Values: []string{"Rome"}},
	}, extended)
}

func TestParseIgnoresBlankLines(t *testing.T) {
	compact := lines(`
@PITANJA_FILE mix
@PITANJE zaokruzi
??? Pick one
@+ a
@- b
---===---
@PITANJE dopuni
??? Fill ___
@x y
---===---`)

	spaced := lines(`
@PITANJA_FILE mix


@PITANJE zaokruzi

??? Pick one

@+ a

@- b

---===---


@PITANJE dopuni
??? Fill ___

@x y

---===---

`)

	want, err := Parse(compact)
	require.NoError(t, err)
	got, err := Parse(spaced)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got.Questions, 2)
}

func TestParseMixedDocumentOrder(t *testing.T) {
	doc, err := Parse(lines(`
@PITANJA_FILE mixed
@PITANJE da-ne
??? first
@NE
---===---
@PITANJE zaokruzi
??? second
@+ yes
---===---
@PITANJE dopuni
??? third
@a b
---===---`))
	require.NoError(t, err)
	require.Len(t, doc.Questions, 3)

	kinds := make([]QuestionType, len(doc.Questions))
	texts := make([]string, len(doc.Questions))
	for i, q := range doc.Questions {
		kinds[i] = q.Kind()
		texts[i] = q.Text()
	}
	assert.Equal(t, []QuestionType{TypeYesNo, TypeMultipleChoice, TypeFillIn}, kinds)
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestParseKeepsEmptyQuestionText(t *testing.T) {
	doc, err := Parse([]string{"@PITANJA_FILE e", "@PITANJE da-ne", "??? ", "@DA", "---===---"})
	require.NoError(t, err)
	assert.Equal(t, "", doc.Questions[0].Text())
}

func TestParseAcceptsLineTerminators(t *testing.T) {
	doc, err := Parse([]string{
		"@PITANJA_FILE crlf\r\n",
		"@PITANJE dopuni\r\n",
		"??? Fill ___\r\n",
		"@1 answer\r\n",
		"---===---\r\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "crlf", doc.Filename)
	assert.Equal(t, &FillIn{
		Question:     "Fill ___",
		RightAnswers: FillInAnswers{{Key: "1", Values: []string{"answer"}}},
	}, doc.Questions[0])
}

func TestParseAcceptsPaddedTerminator(t *testing.T) {
	doc, err := Parse([]string{
		"@PITANJA_FILE s",
		"@PITANJE da-ne",
		"??? q",
		"@NE",
		"  ---===---\t",
		"@PITANJE zaokruzi",
		"??? r",
		"@+ a",
		"---===---\r\n",
	})
	require.NoError(t, err)
	require.Len(t, doc.Questions, 2)
	assert.Equal(t, &YesNo{Question: "q", RightAnswer: false}, doc.Questions[0])
	assert.Equal(t, "r", doc.Questions[1].Text())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		kind     ErrorKind
		sentinel error
		line     int
	}{
		{
			name:     "empty input",
			input:    nil,
			kind:     HeaderInvalid,
			sentinel: ErrHeaderInvalid,
			line:     1,
		},
		{
			name:     "header missing at sign",
			input:    []string{"PITANJA_FILE sample", "@PITANJE da-ne", "??? q", "@DA", "---===---"},
			kind:     HeaderInvalid,
			sentinel: ErrHeaderInvalid,
			line:     1,
		},
		{
			name:     "body line is not a question type",
			input:    []string{"@PITANJA_FILE s", "", "??? stray"},
			kind:     QuestionTypeInvalid,
			sentinel: ErrQuestionTypeInvalid,
			line:     3,
		},
		{
			name:     "unknown question type",
			input:    []string{"@PITANJA_FILE s", "@PITANJE esej", "??? q", "---===---"},
			kind:     QuestionTypeInvalid,
			sentinel: ErrQuestionTypeInvalid,
			line:     2,
		},
		{
			name:     "question line has wrong marker",
			input:    []string{"@PITANJA_FILE s", "@PITANJE da-ne", "", "?? q", "@DA", "---===---"},
			kind:     QuestionLineInvalid,
			sentinel: ErrQuestionLineInvalid,
			line:     4,
		},
		{
			name:     "multiple choice answer with bad marker",
			input:    []string{"@PITANJA_FILE s", "@PITANJE zaokruzi", "??? q", "@+ ok", "@* wrong token", "---===---"},
			kind:     AnswerLineInvalid,
			sentinel: ErrAnswerLineInvalid,
			line:     5,
		},
		{
			name:     "yes no answer with payload",
			input:    []string{"@PITANJA_FILE s", "@PITANJE da-ne", "??? q", "@DA sure", "---===---"},
			kind:     AnswerLineInvalid,
			sentinel: ErrAnswerLineInvalid,
			line:     4,
		},
		{
			name:     "fill in answer without key",
			input:    []string{"@PITANJA_FILE s", "@PITANJE dopuni", "??? q", "Paris", "---===---"},
			kind:     AnswerLineInvalid,
			sentinel: ErrAnswerLineInvalid,
			line:     4,
		},
		{
			name:     "terminator with inner space",
			input:    []string{"@PITANJA_FILE s", "@PITANJE da-ne", "??? q", "@NE", "--- ===---", "---===---"},
			kind:     AnswerLineInvalid,
			sentinel: ErrAnswerLineInvalid,
			line:     5,
		},
		{
			name:     "missing terminator",
			input:    []string{"@PITANJA_FILE s", "@PITANJE zaokruzi", "??? q", "@+ a", ""},
			kind:     UnexpectedEndOfInput,
			sentinel: ErrUnexpectedEndOfInput,
		},
		{
			name:     "missing question line",
			input:    []string{"@PITANJA_FILE s", "@PITANJE dopuni", "", "  "},
			kind:     UnexpectedEndOfInput,
			sentinel: ErrUnexpectedEndOfInput,
		},
		{
			name:     "question type on last line",
			input:    []string{"@PITANJA_FILE s", "@PITANJE da-ne"},
			kind:     UnexpectedEndOfInput,
			sentinel: ErrUnexpectedEndOfInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.line, perr.Line)
			if tt.line > 0 && tt.line <= len(tt.input) {
				assert.Equal(t, tt.input[tt.line-1], perr.Content)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse([]string{"@PITANJA_FILE s", "@PITANJE zaokruzi", "??? q", "@* nope", "---===---"})
	require.Error(t, err)
	assert.Equal(t, `line 4: invalid answer line: "@* nope"`, err.Error())
	assert.False(t, errors.Is(err, ErrHeaderInvalid))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quiz.pitanja")
	content := "@PITANJA_FILE quiz\r\n@PITANJE da-ne\r\n??? Ok?\r\n@DA\r\n---===---\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "quiz", doc.Filename)
	assert.Len(t, doc.Questions, 1)

	bad := filepath.Join(dir, "bad.pitanja")
	require.NoError(t, os.WriteFile(bad, []byte("nope\n"), 0o644))
	_, err = ParseFile(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHeaderInvalid))
	assert.Contains(t, err.Error(), bad)
}
