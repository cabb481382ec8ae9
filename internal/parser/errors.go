package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a parse failed
type ErrorKind int

const (
	HeaderInvalid ErrorKind = iota + 1
	QuestionTypeInvalid
	QuestionLineInvalid
	AnswerLineInvalid
	UnexpectedEndOfInput
)

var kindNames = map[ErrorKind]string{
	HeaderInvalid:        "invalid header line",
	QuestionTypeInvalid:  "invalid question type line",
	QuestionLineInvalid:  "invalid question line",
	AnswerLineInvalid:    "invalid answer line",
	UnexpectedEndOfInput: "unexpected end of input",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrHeaderInvalid        = errors.New(HeaderInvalid.String())
	ErrQuestionTypeInvalid  = errors.New(QuestionTypeInvalid.String())
	ErrQuestionLineInvalid  = errors.New(QuestionLineInvalid.String())
	ErrAnswerLineInvalid    = errors.New(AnswerLineInvalid.String())
	ErrUnexpectedEndOfInput = errors.New(UnexpectedEndOfInput.String())
)

var kindSentinels = map[ErrorKind]error{
	HeaderInvalid:        ErrHeaderInvalid,
	QuestionTypeInvalid:  ErrQuestionTypeInvalid,
	QuestionLineInvalid:  ErrQuestionLineInvalid,
	AnswerLineInvalid:    ErrAnswerLineInvalid,
	UnexpectedEndOfInput: ErrUnexpectedEndOfInput,
}

// ParseError reports the first offending line of a Pitanja file
type ParseError struct {
	Kind    ErrorKind
	Line    int    // 1-based; 0 when input ran out
	Content string // offending line without its terminator
}

func (e *ParseError) Error() string {
	if e.Kind == UnexpectedEndOfInput || e.Line == 0 {
		return e.Kind.String()
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Kind, e.Content)
}

// Is lets errors.Is match a ParseError against the kind sentinels
func (e *ParseError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func errAt(kind ErrorKind, c cursor) *ParseError {
	return &ParseError{
		Kind:    kind,
		Line:    c.pos + 1,
		Content: stripTerminator(c.line()),
	}
}

func errEOF() *ParseError {
	return &ParseError{Kind: UnexpectedEndOfInput}
}
