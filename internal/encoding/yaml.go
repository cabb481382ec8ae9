package encoding

import (
	"fmt"
	"io"

	"github.com/gubarz/pitanja/internal/parser"
	"gopkg.in/yaml.v3"
)

type documentYAML struct {
	Filename  string `yaml:"filename"`
	Questions []any  `yaml:"questions"`
}

type multipleChoiceYAML struct {
	Type         string   `yaml:"type"`
	Question     string   `yaml:"question"`
	RightAnswers []string `yaml:"rightAnswers"`
	WrongAnswers []string `yaml:"wrongAnswers"`
}

type yesNoYAML struct {
	Type        string `yaml:"type"`
	Question    string `yaml:"question"`
	RightAnswer bool   `yaml:"rightAnswer"`
}

type fillInYAML struct {
	Type         string          `yaml:"type"`
	Question     string          `yaml:"question"`
	RightAnswers orderedYAMLList `yaml:"rightAnswers"`
}

// orderedYAMLList renders fill-in groups as a mapping in key order
type orderedYAMLList parser.FillInAnswers

func (a orderedYAMLList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, g := range a {
		values := &yaml.Node{}
		if err := values.Encode(nonNil(g.Values)); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: g.Key},
			values,
		)
	}
	return node, nil
}

func encodeYAML(w io.Writer, doc *parser.Document) error {
	out := documentYAML{Filename: doc.Filename, Questions: make([]any, 0, len(doc.Questions))}
	for _, q := range doc.Questions {
		switch q := q.(type) {
		case *parser.MultipleChoice:
			out.Questions = append(out.Questions, multipleChoiceYAML{
				Type:         string(q.Kind()),
				Question:     q.Question,
				RightAnswers: nonNil(q.RightAnswers),
				WrongAnswers: nonNil(q.WrongAnswers),
			})
		case *parser.YesNo:
			out.Questions = append(out.Questions, yesNoYAML{
				Type:        string(q.Kind()),
				Question:    q.Question,
				RightAnswer: q.RightAnswer,
			})
		case *parser.FillIn:
			out.Questions = append(out.Questions, fillInYAML{
				Type:         string(q.Kind()),
				Question:     q.Question,
				RightAnswers: orderedYAMLList(q.RightAnswers),
			})
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func decodeYAML(r io.Reader) (*parser.Document, error) {
	var wire struct {
		Filename  string `yaml:"filename"`
		Questions []struct {
			Type         string    `yaml:"type"`
			Question     string    `yaml:"question"`
			RightAnswers yaml.Node `yaml:"rightAnswers"`
			WrongAnswers []string  `yaml:"wrongAnswers"`
			RightAnswer  bool      `yaml:"rightAnswer"`
		} `yaml:"questions"`
	}
	if err := yaml.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	doc := &parser.Document{Filename: wire.Filename, Questions: make([]parser.Question, 0, len(wire.Questions))}
	for i, qw := range wire.Questions {
		var (
			right  []string
			groups parser.FillInAnswers
			err    error
		)
		switch parser.QuestionType(qw.Type) {
		case parser.TypeMultipleChoice:
			if qw.RightAnswers.Kind != 0 {
				err = qw.RightAnswers.Decode(&right)
			}
		case parser.TypeFillIn:
			groups, err = yamlGroups(&qw.RightAnswers)
		}
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}

		q, err := buildQuestion(qw.Type, qw.Question, right, qw.WrongAnswers, qw.RightAnswer, groups)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		doc.Questions = append(doc.Questions, q)
	}
	return doc, nil
}

// yamlGroups reads a fill-in mapping node keeping its key order
func yamlGroups(node *yaml.Node) (parser.FillInAnswers, error) {
	groups := parser.FillInAnswers{}
	if node.Kind == 0 {
		return groups, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: rightAnswers must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var values []string
		if err := node.Content[i+1].Decode(&values); err != nil {
			return nil, fmt.Errorf("answers for key %q: %w", key, err)
		}
		if _, found := groups.Get(key); !found {
			groups = append(groups, parser.AnswerGroup{Key: key, Values: []string{}})
		}
		for _, v := range values {
			groups = groups.Add(key, v)
		}
	}
	return groups, nil
}
