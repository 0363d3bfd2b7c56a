package jqdata

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
)

// sentinel is the prefix the service uses instead of HTTP status codes.
const sentinel = "error"

// ResponseFormat selects how a response body is decoded.
type ResponseFormat int

const (
	FormatTabular ResponseFormat = iota + 1
	FormatLineList
	FormatScalar
	FormatJSON
)

func (f ResponseFormat) String() string {
	switch f {
	case FormatTabular:
		return "csv"
	case FormatLineList:
		return "line"
	case FormatScalar:
		return "single"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

func (f ResponseFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Consumer decodes a raw response body into T. The set of formats is
// closed: build consumers with Tabular, Records, LineList, Scalar or JSON.
type Consumer[T any] struct {
	format  ResponseFormat
	consume func(body []byte) (T, error)
}

// Format reports the wire format this consumer decodes.
func (c Consumer[T]) Format() ResponseFormat { return c.format }

// Consume decodes body.
func (c Consumer[T]) Consume(body io.Reader) (T, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		var zero T
		return zero, transportError("read body", err)
	}
	return c.consume(b)
}

// Tabular decodes a CSV body whose first line is the header into rows of T,
// matched by `csv` struct tags.
func Tabular[T any]() Consumer[[]T] {
	return Consumer[[]T]{format: FormatTabular, consume: consumeTabular[T]}
}

// Record is an untyped tabular row keyed by header name.
type Record map[string]string

// Records decodes a CSV body into untyped rows.
func Records() Consumer[[]Record] {
	return Consumer[[]Record]{format: FormatTabular, consume: consumeRecords}
}

// LineList splits a body into lines. It does not apply the sentinel check:
// a server error in line form comes back as an ordinary one-element list.
func LineList() Consumer[[]string] {
	return Consumer[[]string]{format: FormatLineList, consume: consumeLines}
}

// Scalar parses the whole body as a single value.
func Scalar[T any](parse func(string) (T, error)) Consumer[T] {
	return Consumer[T]{format: FormatScalar, consume: func(b []byte) (T, error) {
		return consumeScalar(b, parse)
	}}
}

// JSON decodes a JSON document into T. A sentinel body is a server error.
func JSON[T any]() Consumer[T] {
	return Consumer[T]{format: FormatJSON, consume: consumeJSON[T]}
}

func newCSVReader(b []byte) *csv.Reader {
	return csv.NewReader(bytes.NewReader(b))
}

// checkHeader applies the sentinel convention to the first CSV line.
func checkHeader(header []string, body []byte) error {
	if len(header) == 0 {
		return serverError("empty response body")
	}
	if strings.HasPrefix(header[0], sentinel) {
		return serverError(firstLine(body))
	}
	return nil
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), "\r")
}

func consumeTabular[T any](b []byte) ([]T, error) {
	dec, err := csvutil.NewDecoder(newCSVReader(b))
	if errors.Is(err, io.EOF) {
		return nil, serverError("empty response body")
	}
	if err != nil {
		// an unparsable header may still be a sentinel line
		if strings.HasPrefix(string(b), sentinel) {
			return nil, serverError(firstLine(b))
		}
		return nil, decodeError("read csv header", err)
	}
	if err := checkHeader(dec.Header(), b); err != nil {
		return nil, err
	}

	rows := []T{}
	for {
		var row T
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeError(fmt.Sprintf("decode row %d", len(rows)+1), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func consumeRecords(b []byte) ([]Record, error) {
	r := newCSVReader(b)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, serverError("empty response body")
	}
	if err != nil {
		if strings.HasPrefix(string(b), sentinel) {
			return nil, serverError(firstLine(b))
		}
		return nil, decodeError("read csv header", err)
	}
	if err := checkHeader(header, b); err != nil {
		return nil, err
	}

	rows := []Record{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, decodeError(fmt.Sprintf("decode row %d", len(rows)+1), err)
		}
		row := make(Record, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func consumeLines(b []byte) ([]string, error) {
	if !utf8.Valid(b) {
		return nil, decodeError("body is not valid utf-8", nil)
	}
	lines := []string{}
	if len(b) == 0 {
		return lines, nil
	}
	text := strings.TrimSuffix(string(b), "\n")
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines, nil
}

func consumeScalar[T any](b []byte, parse func(string) (T, error)) (T, error) {
	var zero T
	if !utf8.Valid(b) {
		return zero, decodeError("body is not valid utf-8", nil)
	}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, sentinel) {
		return zero, serverError(s)
	}
	v, err := parse(s)
	if err != nil {
		return zero, decodeError(fmt.Sprintf("parse %q", s), err)
	}
	return v, nil
}

func consumeJSON[T any](b []byte) (T, error) {
	var v T
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte(sentinel)) {
		return v, serverError(strings.TrimSpace(string(b)))
	}
	if err := json.Unmarshal(b, &v); err != nil {
		var zero T
		return zero, decodeError("decode json", err)
	}
	return v, nil
}
