package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

func openCSV(path string) (*csv.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(f)
	br = stripUTF8BOM(br)

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false
	return r, f.Close, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("missing header")
		}
		return nil, err
	}
	for i := range h {
		h[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(h[i]) {
			return nil, fmt.Errorf("invalid header encoding")
		}
	}
	return h, nil
}

func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		m[name] = i
	}
	return m
}

// requireColumns checks that every required column is present. Extra columns
// are tolerated; the extract gains and loses trailing columns between
// publications.
func requireColumns(header []string, required []string) error {
	hset := make(map[string]struct{}, len(header))
	for _, h := range header {
		hset[h] = struct{}{}
	}
	for _, req := range required {
		if _, ok := hset[req]; !ok {
			return fmt.Errorf("missing required header column: %s", req)
		}
	}
	return nil
}

// csvSource adapts one open CSV file to the importer's row stream.
type csvSource struct {
	name   string
	r      *csv.Reader
	close  func() error
	header map[string]int
	line   int
}

func openCSVSource(path string, required []string) (*csvSource, error) {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	header, err := readHeader(r)
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := requireColumns(header, required); err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &csvSource{
		name:   path,
		r:      r,
		close:  closeFn,
		header: headerIndex(header),
		line:   1, // header consumed
	}, nil
}

func (s *csvSource) Name() string { return s.name }

func (s *csvSource) Next() (map[string]string, int, error) {
	rec, err := s.r.Read()
	if err == io.EOF {
		return nil, 0, io.EOF
	}
	if err != nil {
		return nil, 0, err
	}
	s.line++
	row := make(map[string]string, len(s.header))
	for name, idx := range s.header {
		if idx < len(rec) {
			row[name] = rec[idx]
		}
	}
	return row, s.line, nil
}

func (s *csvSource) Close() error {
	return s.close()
}
