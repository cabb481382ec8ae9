package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gubarz/pitanja/internal/parser"
)

type documentJSON struct {
	Filename  string `json:"filename"`
	Questions []any  `json:"questions"`
}

type multipleChoiceJSON struct {
	Type         parser.QuestionType `json:"type"`
	Question     string              `json:"question"`
	RightAnswers []string            `json:"rightAnswers"`
	WrongAnswers []string            `json:"wrongAnswers"`
}

type yesNoJSON struct {
	Type        parser.QuestionType `json:"type"`
	Question    string              `json:"question"`
	RightAnswer bool                `json:"rightAnswer"`
}

type fillInJSON struct {
	Type         parser.QuestionType `json:"type"`
	Question     string              `json:"question"`
	RightAnswers orderedAnswers      `json:"rightAnswers"`
}

// orderedAnswers renders fill-in groups as a JSON object in key order
type orderedAnswers parser.FillInAnswers

func (a orderedAnswers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Key)
		if err != nil {
			return nil, err
		}
		values, err := json.Marshal(nonNil(g.Values))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *orderedAnswers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	groups := parser.FillInAnswers{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected answer key, got %v", tok)
		}
		var values []string
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("answers for key %q: %w", key, err)
		}
		if _, found := groups.Get(key); !found {
			groups = append(groups, parser.AnswerGroup{Key: key, Values: []string{}})
		}
		for _, v := range values {
			groups = groups.Add(key, v)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	*a = orderedAnswers(groups)
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func toJSON(doc *parser.Document) documentJSON {
	out := documentJSON{Filename: doc.Filename, Questions: make([]any, 0, len(doc.Questions))}
	for _, q := range doc.Questions {
		switch q := q.(type) {
		case *parser.MultipleChoice:
			out.Questions = append(out.Questions, multipleChoiceJSON{
				Type:         q.Kind(),
				Question:     q.Question,
				RightAnswers: nonNil(q.RightAnswers),
				WrongAnswers: nonNil(q.WrongAnswers),
			})
		case *parser.YesNo:
			out.Questions = append(out.Questions, yesNoJSON{
				Type:        q.Kind(),
				Question:    q.Question,
				RightAnswer: q.RightAnswer,
			})
		case *parser.FillIn:
			out.Questions = append(out.Questions, fillInJSON{
				Type:         q.Kind(),
				Question:     q.Question,
				RightAnswers: orderedAnswers(q.RightAnswers),
			})
		}
	}
	return out
}

func encodeJSON(w io.Writer, doc *parser.Document, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(toJSON(doc))
}

// questionWire accepts the union of every variant's fields
type questionWire struct {
	Type         string          `json:"type"`
	Question     string          `json:"question"`
	RightAnswers json.RawMessage `json:"rightAnswers"`
	WrongAnswers []string        `json:"wrongAnswers"`
	RightAnswer  bool            `json:"rightAnswer"`
}

func decodeJSON(r io.Reader) (*parser.Document, error) {
	var wire struct {
		Filename  string         `json:"filename"`
		Questions []questionWire `json:"questions"`
	}
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	doc := &parser.Document{Filename: wire.Filename, Questions: make([]parser.Question, 0, len(wire.Questions))}
	for i, qw := range wire.Questions {
		var (
			right  []string
			groups orderedAnswers
		)
		if len(qw.RightAnswers) > 0 {
			var err error
			switch parser.QuestionType(qw.Type) {
			case parser.TypeMultipleChoice:
				err = json.Unmarshal(qw.RightAnswers, &right)
			case parser.TypeFillIn:
				err = json.Unmarshal(qw.RightAnswers, &groups)
			}
			if err != nil {
				return nil, fmt.Errorf("question %d: %w", i+1, err)
			}
		}
		q, err := buildQuestion(qw.Type, qw.Question, right, qw.WrongAnswers, qw.RightAnswer, parser.FillInAnswers(groups))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		doc.Questions = append(doc.Questions, q)
	}
	return doc, nil
}
