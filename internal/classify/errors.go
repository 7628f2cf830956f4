package classify

import (
	"fmt"

	"partialgen/internal/analyze"
	"partialgen/internal/common"
	"partialgen/internal/diagnostic"
)

// ConflictKind is the reason a field cannot be classified.
type ConflictKind int

const (
	// ConflictBothModifiers: the field is marked both required and skip.
	ConflictBothModifiers ConflictKind = iota + 1
	// ConflictInheritedSkip: the field is skipped but overrides a field that is not.
	ConflictInheritedSkip
	// ConflictMissingDefault: the field is skipped and its type offers no default.
	ConflictMissingDefault
)

// String returns a human-readable representation of the ConflictKind.
func (k ConflictKind) String() string {
	switch k {
	case ConflictBothModifiers:
		return "both_modifiers"
	case ConflictInheritedSkip:
		return "inherited_skip"
	case ConflictMissingDefault:
		return "missing_default"
	default:
		return common.UnknownStr
	}
}

// FieldConflictError reports an authoring error on a single field.
type FieldConflictError struct {
	Kind  ConflictKind
	Owner analyze.TypeID
	Field string
	// Inherited is the supertype field involved in a ConflictInheritedSkip.
	Inherited *analyze.FieldDeclaration
	// InheritedClass is the classification of Inherited.
	InheritedClass Classification

	escalates bool
}

// Error implements error.
func (e *FieldConflictError) Error() string {
	switch e.Kind {
	case ConflictBothModifiers:
		return fmt.Sprintf("field %s is marked both required and skip", e.Field)
	case ConflictInheritedSkip:
		return fmt.Sprintf("field %s is skipped but overrides %s field %s.%s",
			e.Field, e.InheritedClass, e.Inherited.Owner.Short(), e.Inherited.Name)
	case ConflictMissingDefault:
		return fmt.Sprintf("field %s is skipped but %s has no default for it", e.Field, e.Owner.Name)
	default:
		return fmt.Sprintf("field %s: conflict", e.Field)
	}
}

// Escalates reports whether the failure aborts the whole type.
func (e *FieldConflictError) Escalates() bool {
	return e.escalates
}

// DiagnosticCode implements diagnostic.Coder.
func (e *FieldConflictError) DiagnosticCode() string {
	if e.Kind == ConflictMissingDefault {
		return diagnostic.CodeMissingDefault
	}

	return diagnostic.CodeFieldConflict
}

// Hint returns a suggested fix.
func (e *FieldConflictError) Hint() string {
	switch e.Kind {
	case ConflictBothModifiers:
		return `keep only one of partial:"required" and partial:"skip"`
	case ConflictInheritedSkip:
		return fmt.Sprintf("drop the skip modifier, or skip %s in %s as well", e.Inherited.Name, e.Inherited.Owner.Name)
	case ConflictMissingDefault:
		return fmt.Sprintf(`add a partialdefault:"<expr>" tag, or declare func Default%s() %s`, e.Owner.Name, e.Owner.Name)
	default:
		return ""
	}
}

// AbortError is returned by ClassifyAll when a field failure escalates.
type AbortError struct {
	Decl  analyze.TypeID
	Cause *FieldConflictError
}

// Error implements error.
func (e *AbortError) Error() string {
	return fmt.Sprintf("%s aborted: field %s implements a parent getter and cannot be dropped", e.Decl.Name, e.Cause.Field)
}

// Unwrap returns the escalating field error.
func (e *AbortError) Unwrap() error {
	return e.Cause
}

// DiagnosticCode implements diagnostic.Coder.
func (e *AbortError) DiagnosticCode() string {
	return diagnostic.CodeTypeAborted
}
