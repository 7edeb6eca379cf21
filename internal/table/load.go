package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lucentbytes/insightloom-cli/internal/sniff"
)

// ErrEmptyInput signals an empty buffer or input that yields zero data rows
// after every loading attempt.
var ErrEmptyInput = errors.New("el archivo está vacío o no contiene datos válidos")

// ParseError reports structurally malformed content that exhausted the
// delimiter/encoding fallback chain, noting the last attempted parameters.
type ParseError struct {
	Delimiter rune
	Encoding  string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no se pudo interpretar el archivo (separador %q, codificación %s): %v",
		e.Delimiter, e.Encoding, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// candidate is one (encoding, delimiter, text) loading attempt. The chain is
// an explicit ordered list so the fallback order is auditable.
type candidate struct {
	encoding string
	delim    rune
	text     string
	// needMultiCol rejects single-column parses, used by raw-bytes retries.
	needMultiCol bool
}

// Load parses raw bytes of unknown encoding and delimiter into a Table.
//
// Primary path: decode with the detected encoding, sniff the delimiter on
// the decoded text, parse. Recovery: retry with comma when the sniffed
// delimiter produced a single column; then parse the raw bytes directly with
// comma, semicolon and tab, accepting the first multi-column result.
func Load(raw []byte) (*Table, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmptyInput
	}

	encoding := sniff.DetectEncoding(raw)
	decoded, decErr := sniff.Decode(raw, encoding)

	var chain []candidate
	if decErr == nil {
		delim := sniff.DetectSeparator(decoded)
		chain = append(chain, candidate{encoding: encoding, delim: delim, text: decoded})
		if delim != ',' {
			chain = append(chain, candidate{encoding: encoding, delim: ',', text: decoded})
		}
	}
	for _, delim := range []rune{',', ';', '\t'} {
		chain = append(chain, candidate{encoding: "raw", delim: delim, text: string(raw), needMultiCol: true})
	}

	var lastErr *ParseError
	for i, cand := range chain {
		header, records, err := parseCSV(cand.text, cand.delim)
		if err != nil {
			lastErr = &ParseError{Delimiter: cand.delim, Encoding: cand.encoding, Err: err}
			continue
		}
		if len(header) == 0 {
			continue
		}
		// A single-column parse with a non-comma delimiter is degenerate:
		// the sniffer most likely picked a character that never splits.
		if i == 0 && len(header) == 1 && cand.delim != ',' {
			continue
		}
		if cand.needMultiCol && len(header) <= 1 {
			continue
		}
		t := build(header, records)
		if t.Rows() == 0 {
			return nil, ErrEmptyInput
		}
		return t, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrEmptyInput
}

// parseCSV reads text with the given delimiter. Ragged rows are allowed;
// rows are later normalized to the header width.
func parseCSV(text string, delim rune) (header []string, records [][]string, err error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err = r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("leer cabecera: %w", err)
	}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("leer fila %d: %w", len(records)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		records = append(records, row)
	}
	return header, records, nil
}
