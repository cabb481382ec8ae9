package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const maxLineSize = 1024 * 1024

// ReadLines splits r into lines without their terminators
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, stripTerminator(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ParseReader reads all of r and parses it
func ParseReader(r io.Reader) (*Document, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}

// ParseFile parses the Pitanja file at path. Errors are prefixed with path.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := ParseReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
