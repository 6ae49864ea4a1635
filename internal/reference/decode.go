package reference

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Delimiter is fixed: the source tables are always semicolon separated.
const Delimiter = ';'

// DefaultEncodings is tried in order. Strict UTF-8 goes first because the
// single-byte charsets accept any input and would shadow it.
var DefaultEncodings = []string{"utf-8", "windows-1252", "iso-8859-1"}

type decoder func(raw []byte) (string, error)

var decoders = map[string]decoder{
	"utf-8":        decodeUTF8,
	"windows-1252": charmapDecoder(charmap.Windows1252),
	"iso-8859-1":   charmapDecoder(charmap.ISO8859_1),
}

var encodingAliases = map[string]string{
	"utf8":       "utf-8",
	"utf-8-sig":  "utf-8",
	"cp1252":     "windows-1252",
	"latin-1":    "iso-8859-1",
	"latin1":     "iso-8859-1",
	"iso8859-1":  "iso-8859-1",
	"iso-8859-1": "iso-8859-1",
}

// CanonicalEncoding maps an encoding name or alias to the name used in
// diagnostics. It reports false for encodings that are not supported.
func CanonicalEncoding(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := encodingAliases[key]; ok {
		key = alias
	}
	_, ok := decoders[key]
	return key, ok
}

// DecodeError reports that no candidate encoding produced a usable table.
type DecodeError struct {
	Tried   []string
	Reasons []string
}

func (err *DecodeError) Error() string {
	attempts := make([]string, len(err.Tried))
	for i, name := range err.Tried {
		attempts[i] = fmt.Sprintf("%s (%s)", name, err.Reasons[i])
	}
	return "decoding reference table: no usable encoding, tried " + strings.Join(attempts, ", ")
}

// decodeTable returns the records of the first candidate encoding that
// decodes cleanly and yields more than one column.
func decodeTable(raw []byte, encodings []string) ([][]string, string, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}

	decodeErr := &DecodeError{}
	for _, name := range encodings {
		canonical, ok := CanonicalEncoding(name)
		if !ok {
			decodeErr.Tried = append(decodeErr.Tried, name)
			decodeErr.Reasons = append(decodeErr.Reasons, "unsupported encoding")
			continue
		}
		decodeErr.Tried = append(decodeErr.Tried, canonical)

		records, err := decodeWith(raw, decoders[canonical])
		if err != nil {
			decodeErr.Reasons = append(decodeErr.Reasons, err.Error())
			continue
		}
		return records, canonical, nil
	}
	return nil, "", decodeErr
}

func decodeWith(raw []byte, decode decoder) ([][]string, error) {
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing rows: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	if len(records[0]) <= 1 {
		return nil, fmt.Errorf("only %d column", len(records[0]))
	}
	return records, nil
}

func decodeUTF8(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("invalid utf-8 byte sequence")
	}
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func charmapDecoder(charset *charmap.Charmap) decoder {
	return func(raw []byte) (string, error) {
		decoded, err := charset.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			return "", fmt.Errorf("undefined byte for %s", charset)
		}
		return string(decoded), nil
	}
}
