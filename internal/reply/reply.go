// Package reply parses the structured replies returned by the natural-language
// query service into a validated, tagged result.
package reply

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedReply is returned when a payload cannot be interpreted as a reply.
var ErrMalformedReply = errors.New("malformed reply")

// Status tags a reply as succeeded or failed.
type Status int

// Reply statuses.
const (
	StatusFailed Status = iota
	StatusSucceeded
)

// String returns the display label used by the status badge.
func (s Status) String() string {
	if s == StatusSucceeded {
		return "Query Succeeded"
	}
	return "Query Failed"
}

// Reply is a parsed query service reply.
// Rows[0] is the header row when Rows is non-empty.
type Reply struct {
	Status      Status
	Explanation string
	SQL         string
	Attempts    int
	Rows        [][]any
	// Reason carries the service's error text for failed replies.
	Reason string
}

// Succeeded reports whether the reply is tagged as succeeded.
func (r Reply) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Table returns the header and data rows when the reply holds at least one
// data row. ok is false for absent, empty, or header-only rows.
func (r Reply) Table() (header []any, rows [][]any, ok bool) {
	if len(r.Rows) <= 1 {
		return nil, nil, false
	}
	return r.Rows[0], r.Rows[1:], true
}

// wireReply mirrors the JSON shape sent by the service.
type wireReply struct {
	Success     *bool        `json:"success"`
	Explanation *string      `json:"explanation"`
	SQL         *string      `json:"sql"`
	Attempts    *json.Number `json:"attempts"`
	Rows        [][]any      `json:"rows"`
	Error       *string      `json:"error"`
}

// Parse decodes and validates a reply payload.
// All validation failures wrap ErrMalformedReply.
func Parse(data []byte) (Reply, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var w wireReply
	if err := dec.Decode(&w); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Reply{}, fmt.Errorf("%w: trailing data after reply object", ErrMalformedReply)
	}

	if w.Success == nil {
		return Reply{}, fmt.Errorf("%w: missing success field", ErrMalformedReply)
	}

	r := Reply{
		Status:      StatusFailed,
		Explanation: deref(w.Explanation),
		SQL:         deref(w.SQL),
		Reason:      deref(w.Error),
	}
	if *w.Success {
		r.Status = StatusSucceeded
	}

	if w.Attempts != nil {
		n, err := w.Attempts.Int64()
		if err != nil || n < 0 {
			return Reply{}, fmt.Errorf("%w: attempts must be a non-negative integer, got %s", ErrMalformedReply, w.Attempts.String())
		}
		r.Attempts = int(n)
	}

	rows, err := validateRows(w.Rows)
	if err != nil {
		return Reply{}, err
	}
	r.Rows = rows

	return r, nil
}

func validateRows(rows [][]any) ([][]any, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	width := -1
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is not an array", ErrMalformedReply, i)
		}
		for j, cell := range row {
			if !isScalar(cell) {
				return nil, fmt.Errorf("%w: row %d cell %d is not a scalar", ErrMalformedReply, i, j)
			}
		}
		if i == 0 {
			width = len(row)
			continue
		}
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrMalformedReply, i, len(row), width)
		}
	}

	return rows, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number, float64:
		return true
	default:
		return false
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
