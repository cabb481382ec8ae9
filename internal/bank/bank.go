// Package bank stores parsed Pitanja documents in a SQLite question bank.
// Importing a document whose filename is already present replaces it.
package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gubarz/pitanja/internal/parser"
	_ "modernc.org/sqlite" // driver: sqlite
)

// ErrNotFound is returned when no document has the requested filename
var ErrNotFound = errors.New("document not found")

// DocumentInfo summarizes one stored document
type DocumentInfo struct {
	Filename   string
	Source     string
	Questions  int
	ImportedAt time.Time
}

// Store is a question bank backed by SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DSN returns a data source name for the database file at path. Path
// segments are percent-encoded so "?" and "#" stay part of the file name.
func DSN(path string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file:" + strings.Join(segments, "/") + "?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
}

// Open opens the bank at dsn and ensures the schema exists
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer; one connection also keeps ":memory:" banks whole
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL DEFAULT '',
  imported_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  document_id INTEGER NOT NULL REFERENCES documents(id),
  position INTEGER NOT NULL,
  type TEXT NOT NULL,                       -- zaokruzi, da-ne, dopuni
  question TEXT NOT NULL,
  right_answer INTEGER NOT NULL DEFAULT 0   -- da-ne only
);

CREATE TABLE IF NOT EXISTS answers (
  question_id INTEGER NOT NULL REFERENCES questions(id),
  position INTEGER NOT NULL,
  answer_key TEXT NOT NULL DEFAULT '',      -- dopuni key
  value TEXT NOT NULL,
  is_right INTEGER NOT NULL DEFAULT 1       -- zaokruzi @+ / @-
);

CREATE INDEX IF NOT EXISTS idx_questions_document ON questions(document_id, position);
CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id, position);
`

// Import stores doc under its filename, replacing any earlier import
func (s *Store) Import(ctx context.Context, doc *parser.Document, source string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = deleteDocument(ctx, tx, doc.Filename); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents(filename, source, imported_at) VALUES(?, ?, ?)`,
		doc.Filename, source, s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for pos, q := range doc.Questions {
		if err = insertQuestion(ctx, tx, docID, pos, q); err != nil {
			return fmt.Errorf("question %d: %w", pos+1, err)
		}
	}

	return tx.Commit()
}

func deleteDocument(ctx context.Context, tx *sql.Tx, filename string) error {
	stmts := []string{
		`DELETE FROM answers WHERE question_id IN (
		   SELECT q.id FROM questions q JOIN documents d ON q.document_id = d.id WHERE d.filename = ?)`,
		`DELETE FROM questions WHERE document_id IN (SELECT id FROM documents WHERE filename = ?)`,
		`DELETE FROM documents WHERE filename = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, filename); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}
	return nil
}

func insertQuestion(ctx context.Context, tx *sql.Tx, docID int64, pos int, q parser.Question) error {
	var rightAnswer bool
	if yn, ok := q.(*parser.YesNo); ok {
		rightAnswer = yn.RightAnswer
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO questions(document_id, position, type, question, right_answer) VALUES(?, ?, ?, ?, ?)`,
		docID, pos, string(q.Kind()), q.Text(), rightAnswer)
	if err != nil {
		return err
	}
	qID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	insert := func(n int, key, value string, right bool) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO answers(question_id, position, answer_key, value, is_right) VALUES(?, ?, ?, ?, ?)`,
			qID, n, key, value, right)
		return err
	}

	n := 0
	switch q := q.(type) {
	case *parser.MultipleChoice:
		for _, a := range q.RightAnswers {
			if err := insert(n, "", a, true); err != nil {
				return err
			}
			n++
		}
		for _, a := range q.WrongAnswers {
			if err := insert(n, "", a, false); err != nil {
				return err
			}
			n++
		}
	case *parser.FillIn:
		for _, g := range q.RightAnswers {
			for _, v := range g.Values {
				if err := insert(n, g.Key, v, true); err != nil {
					return err
				}
				n++
			}
		}
	}
	return nil
}

// List returns every stored document ordered by filename
func (s *Store) List(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT d.filename, d.source, d.imported_at, COUNT(q.id)
FROM documents d LEFT JOIN questions q ON q.document_id = d.id
GROUP BY d.id
ORDER BY d.filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var (
			info     DocumentInfo
			imported int64
		)
		if err := rows.Scan(&info.Filename, &info.Source, &imported, &info.Questions); err != nil {
			return nil, err
		}
		info.ImportedAt = time.Unix(imported, 0)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Load rebuilds the document stored under filename
func (s *Store) Load(ctx context.Context, filename string) (*parser.Document, error) {
	var docID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM documents WHERE filename = ?`, filename).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	doc := &parser.Document{Filename: filename, Questions: make([]parser.Question, 0)}
	byID, err := s.loadQuestions(ctx, docID, doc)
	if err != nil {
		return nil, err
	}
	if err := s.loadAnswers(ctx, docID, byID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) loadQuestions(ctx context.Context, docID int64, doc *parser.Document) (map[int64]parser.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, question, right_answer FROM questions WHERE document_id = ? ORDER BY position`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]parser.Question)
	for rows.Next() {
		var (
			id          int64
			kind, text  string
			rightAnswer bool
		)
		if err := rows.Scan(&id, &kind, &text, &rightAnswer); err != nil {
			return nil, err
		}

		var q parser.Question
		switch parser.QuestionType(kind) {
		case parser.TypeMultipleChoice:
			q = &parser.MultipleChoice{Question: text, RightAnswers: []string{}, WrongAnswers: []string{}}
		case parser.TypeYesNo:
			q = &parser.YesNo{Question: text, RightAnswer: rightAnswer}
		case parser.TypeFillIn:
			q = &parser.FillIn{Question: text, RightAnswers: parser.FillInAnswers{}}
		default:
			return nil, fmt.Errorf("stored question %d has unknown type %q", id, kind)
		}
		byID[id] = q
		doc.Questions = append(doc.Questions, q)
	}
	return byID, rows.Err()
}

func (s *Store) loadAnswers(ctx context.Context, docID int64, byID map[int64]parser.Question) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT a.question_id, a.answer_key, a.value, a.is_right
FROM answers a JOIN questions q ON a.question_id = q.id
WHERE q.document_id = ?
ORDER BY q.position, a.position`, docID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qID        int64
			key, value string
			right      bool
		)
		if err := rows.Scan(&qID, &key, &value, &right); err != nil {
			return err
		}
		switch q := byID[qID].(type) {
		case *parser.MultipleChoice:
			if right {
				q.RightAnswers = append(q.RightAnswers, value)
			} else {
				q.WrongAnswers = append(q.WrongAnswers, value)
			}
		case *parser.FillIn:
			q.RightAnswers = q.RightAnswers.Add(key, value)
		}
	}
	return rows.Err()
}
