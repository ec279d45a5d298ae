// Package source decodes an input file into a header row plus data rows.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Row is one data row. Line is the 1-based line (CSV) or sheet row (XLSX) it
// came from. Values are parallel to Table.Headers and may be shorter.
type Row struct {
	Line   int
	Values []string
}

// Table is a decoded file. Recoded lists the lines a CSV decoder read as
// Windows-1252 because they were not valid UTF-8.
type Table struct {
	Name    string
	Headers []string
	Rows    []Row
	Recoded []int
}

// Open decodes the file at path, choosing the decoder from its extension.
// name overrides the table name (defaults to the file's base name).
func Open(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(path)
	}
	return Decode(f, name)
}

// Decode reads a table from r. name picks the decoder by extension; files
// without a known extension are sniffed (XLSX files are zip archives).
func Decode(r io.Reader, name string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return DecodeXLSX(r, name)
	case ".csv", ".txt", ".tsv":
		return DecodeCSV(r, name)
	case "":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
			return DecodeXLSX(bytes.NewReader(data), name)
		}
		return DecodeCSV(bytes.NewReader(data), name)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
