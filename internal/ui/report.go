package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/gubarz/pitanja/internal/parser"
)

// Reporter prints one styled line per checked file and a closing summary
type Reporter struct {
	w      io.Writer
	ok     int
	failed int
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Result reports the outcome of parsing path
func (r *Reporter) Result(path string, doc *parser.Document, err error) {
	if err != nil {
		r.failed++
		fmt.Fprintf(r.w, "%s %s\n", styles.Error.Render("✗"), path)
		fmt.Fprintf(r.w, "    %s\n", styles.Error.Render(describe(err)))
		return
	}
	r.ok++
	fmt.Fprintf(r.w, "%s %s %s\n", styles.OK.Render("✓"), path, styles.Dim.Render("→ "+plainTitle(doc)))
}

// Summary prints the totals
func (r *Reporter) Summary() {
	line := fmt.Sprintf("%d ok, %d failed", r.ok, r.failed)
	if r.failed > 0 {
		fmt.Fprintln(r.w, styles.Error.Render(line))
		return
	}
	fmt.Fprintln(r.w, styles.OK.Render(line))
}

// Failed returns how many files failed
func (r *Reporter) Failed() int {
	return r.failed
}

// describe drops the path prefix of a file error when a ParseError carries
// the line details
func describe(err error) string {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return perr.Error()
	}
	return err.Error()
}

func plainTitle(doc *parser.Document) string {
	return fmt.Sprintf("%s (%d questions)", doc.Filename, len(doc.Questions))
}
