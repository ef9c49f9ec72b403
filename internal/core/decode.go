package core

// decode.go is the row source: it turns uploaded bytes into a Table.
//
// Three variants share one shape (header row consumed as field names, blank
// lines skipped, rows keyed by header):
//
//   - FormatCSV: comma-delimited text
//   - FormatTSV: tab-delimited text
//   - FormatXLSX: first worksheet of an Excel workbook
//
// Text input is cleaned before parsing: a UTF-8 BOM is dropped and invalid
// UTF-8 sequences are replaced, so exports from Windows tools decode cleanly.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
)

// Format identifies a supported spreadsheet encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// ErrFileTooLarge is returned when the input exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// utf8BOM is prepended by Excel and Notepad when saving "UTF-8" text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat picks a Format from the file name, sniffing the first line of
// text input when the extension is unknown.
func DetectFormat(fileName string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx":
		return FormatXLSX
	}

	// Zip magic: an xlsx uploaded without its extension
	if bytes.HasPrefix(head, []byte("PK\x03\x04")) {
		return FormatXLSX
	}

	line := head
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.IndexByte(line, '\t') >= 0 && bytes.IndexByte(line, ',') < 0 {
		return FormatTSV
	}
	return FormatCSV
}

// ReadTable sniffs the format of r from fileName and its first bytes, then decodes it.
func ReadTable(fileName string, r io.Reader, maxSize int64) (*Table, Format, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	head = head[:n]
	format := DetectFormat(fileName, head)

	table, err := DecodeTable(io.MultiReader(bytes.NewReader(head), r), format, maxSize)
	return table, format, err
}

// DecodeTable reads at most maxSize bytes from r and decodes them as format.
// A maxSize of zero or less disables the limit.
func DecodeTable(r io.Reader, format Format, maxSize int64) (*Table, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: exceeds %s limit", ErrFileTooLarge, humanize.IBytes(uint64(maxSize)))
	}

	switch format {
	case FormatXLSX:
		return decodeXLSX(data)
	case FormatTSV:
		return decodeDelimited(data, '\t')
	default:
		return decodeDelimited(data, ',')
	}
}

// decodeDelimited parses comma or tab separated text.
func decodeDelimited(data []byte, delim rune) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return buildTable(records), nil
}

// decodeXLSX reads the first worksheet of a workbook.
func decodeXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: read sheet %q: %w", sheets[0], err)
	}
	return buildTable(records), nil
}

// buildTable turns raw records into header-keyed rows.
// The first non-blank record is the header; later blank records are dropped.
// Cells beyond the header width are stored under extraKey positions.
func buildTable(records [][]string) *Table {
	t := &Table{}

	i := 0
	for i < len(records) && isBlankRecord(records[i]) {
		i++
	}
	if i == len(records) {
		return t
	}

	t.Headers = uniqueHeaders(records[i])

	for _, rec := range records[i+1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := make(Row, len(rec))
		for j, v := range rec {
			if j < len(t.Headers) {
				row[t.Headers[j]] = v
				continue
			}
			// Cells past the header row are kept for the fallback scan.
			if key := extraKey(j); !hasKey(row, key) {
				row[key] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// extraKey names a cell at zero-based position i that has no header.
func extraKey(i int) string {
	return "#" + strconv.Itoa(i+1)
}

func hasKey(row Row, key string) bool {
	_, ok := row[key]
	return ok
}

// uniqueHeaders trims header names, names empty ones by position and
// suffixes repeats so every header is a distinct map key.
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Column " + strconv.Itoa(i+1)
		}
		name := h
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s (%d)", h, n)
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

// isBlankRecord reports whether a record came from an empty or whitespace-only line.
// Records with delimiters but no content are kept; their cells count as empty.
func isBlankRecord(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "")
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}

	return buf.Bytes()
}
