// Package encoding writes parsed Pitanja documents in JSON, YAML or TOML and
// reads JSON and YAML documents back.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gubarz/pitanja/internal/parser"
)

// Format names an output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrDecodeUnsupported is returned when a format can only be written
var ErrDecodeUnsupported = errors.New("decoding not supported for this format")

// Options control how a document is written
type Options struct {
	Pretty bool // Indent output instead of one compact document per line
}

// ParseFormat resolves a format name such as "json" or "yml"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: json, yaml, toml)", name)
	}
}

// Ext returns the file extension used for f, without the dot
func (f Format) Ext() string {
	return string(f)
}

// Encode writes doc to w in format f
func Encode(w io.Writer, doc *parser.Document, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, doc, opts)
	case FormatYAML:
		return encodeYAML(w, doc)
	case FormatTOML:
		return encodeTOML(w, doc, opts)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

// Decode reads a document previously written with Encode
func Decode(r io.Reader, f Format) (*parser.Document, error) {
	switch f {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatTOML:
		return nil, fmt.Errorf("%s: %w", f, ErrDecodeUnsupported)
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
}

// buildQuestion turns the decoded fields of one question back into its
// typed form
func buildQuestion(kind, text string, right, wrong []string, answer bool, groups parser.FillInAnswers) (parser.Question, error) {
	switch parser.QuestionType(kind) {
	case parser.TypeMultipleChoice:
		return &parser.MultipleChoice{
			Question:     text,
			RightAnswers: nonNil(right),
			WrongAnswers: nonNil(wrong),
		}, nil
	case parser.TypeYesNo:
		return &parser.YesNo{Question: text, RightAnswer: answer}, nil
	case parser.TypeFillIn:
		if groups == nil {
			groups = parser.FillInAnswers{}
		}
		return &parser.FillIn{Question: text, RightAnswers: groups}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", kind)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
