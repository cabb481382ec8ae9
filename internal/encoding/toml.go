package encoding

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/gubarz/pitanja/internal/parser"
)

// TOML tables have no key order, so fill-in keys come out sorted.
type documentTOML struct {
	Filename  string           `toml:"filename"`
	Questions []map[string]any `toml:"questions"`
}

func encodeTOML(w io.Writer, doc *parser.Document, opts Options) error {
	out := documentTOML{Filename: doc.Filename, Questions: make([]map[string]any, 0, len(doc.Questions))}
	for _, q := range doc.Questions {
		table := map[string]any{
			"type":     string(q.Kind()),
			"question": q.Text(),
		}
		switch q := q.(type) {
		case *parser.MultipleChoice:
			table["rightAnswers"] = nonNil(q.RightAnswers)
			table["wrongAnswers"] = nonNil(q.WrongAnswers)
		case *parser.YesNo:
			table["rightAnswer"] = q.RightAnswer
		case *parser.FillIn:
			groups := make(map[string][]string, len(q.RightAnswers))
			for _, g := range q.RightAnswers {
				groups[g.Key] = nonNil(g.Values)
			}
			table["rightAnswers"] = groups
		}
		out.Questions = append(out.Questions, table)
	}

	enc := toml.NewEncoder(w)
	if !opts.Pretty {
		enc.Indent = ""
	}
	return enc.Encode(out)
}
