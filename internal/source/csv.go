package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const utf8BOM = "\ufeff"

// DecodeCSV reads a delimited file whose first non-blank record is the header.
// The delimiter is sniffed from the header line: ';' and '\t' exports are
// accepted alongside ','. Lines that are not valid UTF-8 are read as
// Windows-1252, the encoding spreadsheet tools use for legacy CSV exports;
// their numbers are listed in Table.Recoded.
func DecodeCSV(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	data, recoded, err := recodeLines(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	br := bufio.NewReader(bytes.NewReader(data))
	comma, err := sniffDelimiter(br)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	csvr := csv.NewReader(br)
	csvr.Comma = comma
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	csvr.TrimLeadingSpace = true

	t := &Table{Name: name, Recoded: recoded}
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := csvr.FieldPos(0)
		if t.Headers == nil {
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
			t.Headers = rec
			continue
		}
		t.Rows = append(t.Rows, Row{Line: line, Values: rec})
	}
	if t.Headers == nil {
		return nil, fmt.Errorf("%s: no header row", name)
	}
	return t, nil
}

func sniffDelimiter(br *bufio.Reader) (rune, error) {
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, err
	}
	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best, nil
}

// recodeLines decodes each line that is not valid UTF-8 as Windows-1252 and
// leaves valid lines untouched, so one stray byte cannot garble the header.
func recodeLines(data []byte) ([]byte, []int, error) {
	if utf8.Valid(data) {
		return data, nil, nil
	}
	var out bytes.Buffer
	var recoded []int
	for i, line := range bytes.SplitAfter(data, []byte("\n")) {
		if utf8.Valid(line) {
			out.Write(line)
			continue
		}
		dec, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), line)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out.Write(dec)
		recoded = append(recoded, i+1)
	}
	return out.Bytes(), recoded, nil
}
