package diagnostic

import (
	"fmt"
	"go/token"
	"strings"

	"partialgen/internal/common"
)

// Diagnostic codes.
const (
	CodeInvalidShape         = "invalid_shape"
	CodeGenericType          = "generic_type"
	CodeBadDirective         = "bad_directive"
	CodeFieldConflict        = "field_conflict"
	CodeMissingDefault       = "missing_default"
	CodeUnknownModifier      = "unknown_modifier"
	CodeUnknownChild         = "unknown_child"
	CodeChildNotLeaf         = "child_not_leaf"
	CodeChildNotImplementing = "child_not_implementing"
	CodeChildFailed          = "child_failed"
	CodeUndeclaredChild      = "undeclared_child"
	CodeGrandchildHierarchy  = "grandchild_hierarchy"
	CodeUnsupportedAttribute = "unsupported_attribute_value"
	CodeCompatTypeRef        = "compat_type_ref"
	CodeCompatOmitZero       = "compat_omitzero"
	CodeOutputCollision      = "output_collision"
	CodeTypeAborted          = "type_aborted"
	CodeGenerationFailed     = "generation_failed"
	CodeTypeError            = "type_error"
	CodeNameCollision        = "name_collision"
)

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Decl is the qualified name of the declaration this relates to (if any).
	Decl string
	// Field is the field this relates to (if any).
	Field string
	// Pos is the source position of the declaration or field.
	Pos token.Position
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// String returns a formatted diagnostic string:
// "file:line:col: severity: [code] decl.field: message".
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Pos.IsValid() {
		sb.WriteString(d.Pos.String())
		sb.WriteString(": ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Code != "" {
		fmt.Fprintf(&sb, "[%s] ", d.Code)
	}

	subject := d.Decl
	if d.Field != "" {
		subject += "." + d.Field
	}

	if subject != "" {
		sb.WriteString(subject)
		sb.WriteString(": ")
	}

	sb.WriteString(d.Message)

	return sb.String()
}
