package diagnostic

import (
	"cmp"
	"go/token"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Coder is implemented by errors that map onto a diagnostic code.
type Coder interface {
	DiagnosticCode() string
}

// Sink accumulates diagnostics. It is safe for concurrent use and append-only.
type Sink struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends d.
func (s *Sink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diags = append(s.diags, d)
}

// AddError adds an error diagnostic.
func (s *Sink) AddError(code, message, decl, field string, pos token.Position) {
	s.Report(Diagnostic{Severity: SeverityError, Code: code, Message: message, Decl: decl, Field: field, Pos: pos})
}

// AddWarning adds a warning diagnostic.
func (s *Sink) AddWarning(code, message, decl, field string, pos token.Position) {
	s.Report(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Decl: decl, Field: field, Pos: pos})
}

// AddInfo adds an info diagnostic.
func (s *Sink) AddInfo(code, message, decl, field string, pos token.Position) {
	s.Report(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Decl: decl, Field: field, Pos: pos})
}

// ReportError records err with the given severity. The code comes from the
// first error in the chain implementing Coder, hints become suggestions.
func (s *Sink) ReportError(sev Severity, err error, decl, field string, pos token.Position) {
	if err == nil {
		return
	}

	code := CodeGenerationFailed

	var coder Coder
	if errors.As(err, &coder) {
		code = coder.DiagnosticCode()
	}

	s.Report(Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     err.Error(),
		Decl:        decl,
		Field:       field,
		Pos:         pos,
		Suggestions: errors.GetAllHints(err),
	})
}

// Snapshot returns a copy of the collected diagnostics ordered by position,
// then severity (errors first), then code. Arrival order across concurrently
// processed declarations is not meaningful, so it is not preserved.
func (s *Sink) Snapshot() []Diagnostic {
	s.mu.Lock()
	out := slices.Clone(s.diags)
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
			cmp.Compare(b.Severity, a.Severity),
			cmp.Compare(a.Decl, b.Decl),
			cmp.Compare(a.Field, b.Field),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})

	return out
}

// Count returns the number of diagnostics with the given severity.
func (s *Sink) Count(sev Severity) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, d := range s.diags {
		if d.Severity == sev {
			n++
		}
	}

	return n
}

// HasErrors returns true if there are any error diagnostics.
func (s *Sink) HasErrors() bool {
	return s.Count(SeverityError) > 0
}

// Err returns a combined error from all error diagnostics, or nil if there are none.
func (s *Sink) Err() error {
	var parts []string
	for _, d := range s.Snapshot() {
		if d.Severity == SeverityError {
			parts = append(parts, d.String())
		}
	}

	if len(parts) == 0 {
		return nil
	}

	return errors.Newf("%d error(s):\n%s", len(parts), strings.Join(parts, "\n"))
}
