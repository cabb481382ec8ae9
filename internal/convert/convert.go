// Package convert parses batches of Pitanja files and writes each document in
// the configured encoding.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gubarz/pitanja/internal/encoding"
	"github.com/gubarz/pitanja/internal/parser"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// Options and Results
// ============================================================================

// Options configure a Converter
type Options struct {
	Format   encoding.Format
	Pretty   bool
	OutDir   string // Empty writes every document to stdout
	Jobs     int    // Files parsed at once
	FailFast bool   // Stop at the first file that fails to parse
}

// Result is the outcome for one source file
type Result struct {
	Path   string
	Doc    *parser.Document
	Output string // Written file, empty for stdout
	Err    error
}

// Skipped reports whether the file was never parsed because the run was
// canceled first
func (r Result) Skipped() bool {
	return r.Doc == nil && r.Err == nil
}

// ============================================================================
// Converter
// ============================================================================

// Converter parses and encodes Pitanja files
type Converter struct {
	opts   Options
	stdout io.Writer
}

// NewConverter creates a converter writing to os.Stdout
func NewConverter(opts Options) *Converter {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.Format == "" {
		opts.Format = encoding.FormatJSON
	}
	return &Converter{opts: opts, stdout: os.Stdout}
}

// WithStdout sets where documents go when no output directory is configured
func (c *Converter) WithStdout(w io.Writer) *Converter {
	c.stdout = w
	return c
}

// Options returns the effective options
func (c *Converter) Options() Options {
	return c.opts
}

// Parse parses every path concurrently. Results keep the order of paths.
// With FailFast the first parse error cancels the remaining files and is
// returned; otherwise per-file errors are only recorded in the results.
// Files not reached before cancellation are left Skipped.
func (c *Converter) Parse(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path}
				return err
			}
			doc, err := parser.ParseFile(path)
			results[i] = Result{Path: path, Doc: doc, Err: err}
			if err != nil && c.opts.FailFast {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Convert parses paths and writes every parsed document in path order.
// The returned error joins every per-file failure.
func (c *Converter) Convert(ctx context.Context, paths []string) ([]Result, error) {
	results, err := c.Parse(ctx, paths)
	if err != nil {
		return results, err
	}

	var errs []error
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		r.Output, r.Err = c.Write(r.Doc, r.Path)
		if r.Err != nil {
			if c.opts.FailFast {
				return results, r.Err
			}
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// ============================================================================
// Output Handling
// ============================================================================

// Write encodes doc to stdout or to "<outdir>/<source base>.<ext>" and
// returns the written path
func (c *Converter) Write(doc *parser.Document, srcPath string) (string, error) {
	encOpts := encoding.Options{Pretty: c.opts.Pretty}
	if c.opts.OutDir == "" {
		// keep a stream of YAML documents splittable
		if c.opts.Format == encoding.FormatYAML {
			if _, err := io.WriteString(c.stdout, "---\n"); err != nil {
				return "", err
			}
		}
		return "", encoding.Encode(c.stdout, doc, c.opts.Format, encOpts)
	}

	if err := os.MkdirAll(c.opts.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	dest := OutputPath(c.opts.OutDir, srcPath, c.opts.Format)

	file, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if err := encoding.Encode(file, doc, c.opts.Format, encOpts); err != nil {
		file.Close()
		return "", fmt.Errorf("%s: %w", dest, err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

// OutputPath returns where the document parsed from srcPath is written
func OutputPath(outDir, srcPath string, format encoding.Format) string {
	base := filepath.Base(srcPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+"."+format.Ext())
}

// ============================================================================
// Source Discovery
// ============================================================================

// Collect expands directories in paths into the source files below them
// whose extension is in exts. Plain files are kept as given.
func Collect(paths []string, exts []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("path error: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && HasSourceExt(p, exts) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// HasSourceExt reports whether path ends in one of exts
func HasSourceExt(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}
