package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"trade-reconciler/internal/detect"
	"trade-reconciler/internal/types"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmptyInput is returned when a source has no header row at all.
var ErrEmptyInput = errors.New("input has no rows")

// headerScanDepth bounds how far into a file a header row is searched for.
const headerScanDepth = 30

func decoderFor(name string, raw []byte) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		if utf8.Valid(raw) {
			return unicode.UTF8.NewDecoder(), nil
		}
		return charmap.Windows1252.NewDecoder(), nil
	case "utf-8", "utf8":
		return unicode.UTF8.NewDecoder(), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "gbk":
		return simplifiedchinese.GBK.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ReadTable decodes a delimited export into a header row and data rows.
// A byte-order mark always wins over the named encoding. Preamble lines
// above the real header are skipped.
func ReadTable(r io.Reader, enc string) (*types.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	dec, err := decoderFor(enc, raw)
	if err != nil {
		return nil, err
	}
	text, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(dec)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode input as %s: %w", enc, err)
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	h := LocateHeader(records)
	return &types.Table{Headers: records[h], Rows: records[h+1:]}, nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the first line.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// LocateHeader returns the index of the row most likely to be the header:
// the first row within the scan depth that maps the most known fields. Rows
// mapping fewer than two fields never qualify; the fallback is row 0.
func LocateHeader(records [][]string) int {
	best, bestHits := 0, 1
	for i, rec := range records {
		if i >= headerScanDepth {
			break
		}
		if hits := len(detect.BuildColumnMap(rec)); hits > bestHits {
			best, bestHits = i, hits
		}
	}
	return best
}
