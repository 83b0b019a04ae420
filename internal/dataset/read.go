package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

// ReadOptions controls delimited-text parsing.
type ReadOptions struct {
	// Delimiter for the file. If 0, sniffed from the source name (".tsv" is tab, otherwise comma).
	Delimiter rune
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
}

// Load reads and parses a source into a Table.
func Load(src Source, opt ReadOptions) (*Table, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, &SourceReadError{Source: src.Name, Err: err}
	}
	defer rc.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(src.Name)
	}
	t, err := Read(rc, opt)
	if err != nil {
		var sre *SourceReadError
		if errors.As(err, &sre) && sre.Source == "" {
			sre.Source = src.Name
		}
		return nil, err
	}
	t.Name = src.Name
	return t, nil
}

// Read parses delimited text with a header row. An empty input yields an empty table.
// Short rows are padded with blank cells and long rows are truncated to the header width.
func Read(r io.Reader, opt ReadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, &SourceReadError{Err: fmt.Errorf("read header: %w", err)}
	}
	header = dedupeHeader(stripHeaderBOM(header))
	ncol := len(header)
	t := &Table{Header: header}

	maxRows := opt.MaxRows
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &SourceReadError{Err: fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)}
		}
		if maxRows > 0 && len(t.Rows) >= maxRows {
			continue
		}
		row := make([]string, ncol)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

func stripHeaderBOM(header []string) []string {
	if len(header) > 0 && strings.HasPrefix(header[0], utf8BOM) {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return header
}

// dedupeHeader names blank columns "Unnamed: <i>" and suffixes repeated names with ".1", ".2", ...
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if n, ok := seen[h]; ok {
			for {
				n++
				name = fmt.Sprintf("%s.%d", h, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[h] = n
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
