package ui

import (
	"fmt"
	"strings"

	"github.com/gubarz/pitanja/internal/parser"
)

// renderDocument renders every question of doc and returns the content with
// the line index at which each question starts
func renderDocument(doc *parser.Document) (string, []int) {
	var b strings.Builder
	starts := make([]int, 0, len(doc.Questions))
	line := 0

	for i, q := range doc.Questions {
		if i > 0 {
			b.WriteString("\n")
			line++
		}
		starts = append(starts, line)

		block := renderQuestion(i+1, q)
		b.WriteString(block)
		line += countLines(block)
		if i < len(doc.Questions)-1 {
			b.WriteString("\n")
		}
	}

	return b.String(), starts
}

// renderQuestion renders one numbered question and its answers
func renderQuestion(n int, q parser.Question) string {
	lines := []string{
		fmt.Sprintf("%d. %s %s", n, styles.Kind.Render("["+string(q.Kind())+"]"), styles.Question.Render(q.Text())),
	}

	switch q := q.(type) {
	case *parser.MultipleChoice:
		for _, a := range q.RightAnswers {
			lines = append(lines, "   "+styles.Right.Render("+ "+a))
		}
		for _, a := range q.WrongAnswers {
			lines = append(lines, "   "+styles.Wrong.Render("- "+a))
		}
	case *parser.YesNo:
		answer := "NE"
		if q.RightAnswer {
			answer = "DA"
		}
		lines = append(lines, "   "+styles.Right.Render("→ "+answer))
	case *parser.FillIn:
		for _, g := range q.RightAnswers {
			lines = append(lines, "   "+styles.Key.Render("@"+g.Key)+" "+styles.Right.Render(strings.Join(g.Values, ", ")))
		}
	}

	return strings.Join(lines, "\n")
}

// title renders the document header line
func title(doc *parser.Document) string {
	noun := "questions"
	if len(doc.Questions) == 1 {
		noun = "question"
	}
	return styles.Title.Render(doc.Filename) + styles.Dim.Render(fmt.Sprintf("  (%d %s)", len(doc.Questions), noun))
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
