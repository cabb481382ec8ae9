package parser

// QuestionType is the keyword naming a question variant
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "zaokruzi"
	TypeYesNo          QuestionType = "da-ne"
	TypeFillIn         QuestionType = "dopuni"
)

// Document is a fully parsed Pitanja file
type Document struct {
	Filename  string     // Name from the header line
	Questions []Question // In source order
}

// Question is one of *MultipleChoice, *YesNo or *FillIn
type Question interface {
	Kind() QuestionType
	Text() string
	question()
}

// MultipleChoice is a "zaokruzi" question
type MultipleChoice struct {
	Question     string
	RightAnswers []string // "@+" lines in source order
	WrongAnswers []string // "@-" lines in source order
}

// YesNo is a "da-ne" question
type YesNo struct {
	Question    string
	RightAnswer bool
}

// FillIn is a "dopuni" question
type FillIn struct {
	Question     string
	RightAnswers FillInAnswers
}

// AnswerGroup holds every answer given for one fill-in key
type AnswerGroup struct {
	Key    string
	Values []string
}

// FillInAnswers is an insertion-ordered mapping from key to answers
type FillInAnswers []AnswerGroup

// Add returns a copy of a with value appended under key, creating the group
// on first use. a itself is left untouched.
func (a FillInAnswers) Add(key, value string) FillInAnswers {
	out := make(FillInAnswers, len(a), len(a)+1)
	copy(out, a)
	for i := range out {
		if out[i].Key == key {
			values := make([]string, len(out[i].Values), len(out[i].Values)+1)
			copy(values, out[i].Values)
			out[i].Values = append(values, value)
			return out
		}
	}
	return append(out, AnswerGroup{Key: key, Values: []string{value}})
}

// Get returns the answers for key
func (a FillInAnswers) Get(key string) ([]string, bool) {
	for _, g := range a {
		if g.Key == key {
			return g.Values, true
		}
	}
	return nil, false
}

// Keys returns the keys in first-insertion order
func (a FillInAnswers) Keys() []string {
	keys := make([]string, len(a))
	for i, g := range a {
		keys[i] = g.Key
	}
	return keys
}

func (q *MultipleChoice) Kind() QuestionType { return TypeMultipleChoice }
func (q *YesNo) Kind() QuestionType          { return TypeYesNo }
func (q *FillIn) Kind() QuestionType         { return TypeFillIn }

func (q *MultipleChoice) Text() string { return q.Question }
func (q *YesNo) Text() string          { return q.Question }
func (q *FillIn) Text() string         { return q.Question }

func (*MultipleChoice) question() {}
func (*YesNo) question()          {}
func (*FillIn) question()         {}
