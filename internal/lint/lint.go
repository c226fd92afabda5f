// Package lint collects non-fatal diagnostics raised while parsing and
// formatting. The sink is append-only: producers record, consumers read the
// accumulated records after the pass completes.
package lint

import (
	"fmt"

	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// Record is a single diagnostic keyed by an id, with a free-form payload
// (usually the offending word) and the source location it is attributed to.
type Record struct {
	ID       string
	Payload  string
	Position lexer.Position
}

// String renders the record in file:line:col style for terminal output
func (r Record) String() string {
	return fmt.Sprintf("%d:%d [%s] %s", r.Position.Line, r.Position.Column, r.ID, r.Payload)
}

// Sink accumulates diagnostic records in the order they were raised.
// A nil *Sink is valid and discards everything recorded into it.
type Sink struct {
	records []Record
}

// Record appends a diagnostic. Safe to call on a nil sink.
func (s *Sink) Record(id, payload string, pos lexer.Position) {
	if s == nil {
		return
	}
	s.records = append(s.records, Record{ID: id, Payload: payload, Position: pos})
}

// Records returns the accumulated diagnostics in source order
func (s *Sink) Records() []Record {
	if s == nil {
		return nil
	}
	return s.records
}

// Empty reports whether nothing has been recorded
func (s *Sink) Empty() bool {
	return s == nil || len(s.records) == 0
}
