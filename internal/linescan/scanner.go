// Package linescan reads configuration dumps as trimmed text lines.
//
// Input bytes are decoded with a named WHATWG encoding ("utf-8",
// "windows-1252", "latin1", "utf-16le", ...). UTF-8 input is validated line
// by line instead of being silently repaired, so a dump saved under the wrong
// encoding fails loudly.
package linescan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding name is given.
const DefaultEncoding = "utf-8"

// maxLineSize bounds a single line. Certificates pasted into a dump are the
// longest lines seen in practice.
const maxLineSize = 1024 * 1024

var (
	// ErrUnknownEncoding is returned for encoding names htmlindex does not know.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrInvalidText is returned when a line is not valid under the declared encoding.
	ErrInvalidText = errors.New("invalid text for encoding")
)

// Lookup resolves an encoding name. It returns the encoding and its
// canonical name.
func Lookup(name string) (encoding.Encoding, string, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	return enc, canonical, nil
}

// Scanner yields the lines of a document, trimmed of surrounding whitespace.
// Interior whitespace is preserved. A Scanner is single pass: to read a
// document again, open a new one.
type Scanner struct {
	s        *bufio.Scanner
	closer   io.Closer
	encoding string
	validate bool
	line     int
	text     string
	err      error
}

// NewScanner decodes r with the named encoding.
func NewScanner(r io.Reader, encodingName string) (*Scanner, error) {
	enc, canonical, err := Lookup(encodingName)
	if err != nil {
		return nil, err
	}

	validate := canonical == "utf-8"
	if !validate {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Scanner{
		s:        s,
		encoding: canonical,
		validate: validate,
	}, nil
}

// Open opens path for scanning. The caller must Close the scanner.
func Open(path, encodingName string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	sc, err := NewScanner(f, encodingName)
	if err != nil {
		f.Close()
		return nil, err
	}
	sc.closer = f
	return sc, nil
}

// Scan advances to the next line.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.s.Scan() {
		if err := s.s.Err(); err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line+1, err)
		}
		return false
	}
	s.line++

	raw := s.s.Text()
	if s.validate && !utf8.ValidString(raw) {
		s.err = fmt.Errorf("line %d: %w %s", s.line, ErrInvalidText, s.encoding)
		return false
	}
	if s.line == 1 {
		raw = strings.TrimPrefix(raw, "\ufeff")
	}
	s.text = strings.TrimSpace(raw)
	return true
}

// Text returns the current line.
func (s *Scanner) Text() string {
	return s.text
}

// Line returns the 1-based number of the current line.
func (s *Scanner) Line() int {
	return s.line
}

// Encoding returns the canonical name of the encoding in use.
func (s *Scanner) Encoding() string {
	return s.encoding
}

// Err returns the first error hit while scanning.
func (s *Scanner) Err() error {
	return s.err
}

// Close releases the underlying file, if any.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
