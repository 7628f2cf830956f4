package plan

import (
	"fmt"

	"partialgen/internal/analyze"
	"partialgen/internal/diagnostic"
)

// ConfigurationError reports a declaration that cannot be generated at all.
// It is fatal to that declaration only.
type ConfigurationError struct {
	Code string
	Decl analyze.TypeID
	Msg  string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return e.Msg
}

// DiagnosticCode implements diagnostic.Coder.
func (e *ConfigurationError) DiagnosticCode() string {
	return e.Code
}

func configError(code string, decl *analyze.TypeDeclaration, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Code: code, Decl: decl.ID, Msg: fmt.Sprintf(format, args...)}
}

func invalidShape(decl *analyze.TypeDeclaration, want string) *ConfigurationError {
	return configError(diagnostic.CodeInvalidShape, decl,
		"%s annotation requires %s, %s is %s", decl.Kind, want, decl.ID.Name, describeShape(decl))
}

func describeShape(decl *analyze.TypeDeclaration) string {
	switch decl.Shape {
	case analyze.ShapeStruct:
		return "a struct"
	case analyze.ShapeInterface:
		return "an interface"
	default:
		if decl.Object != nil {
			return "of underlying type " + decl.Object.Type().Underlying().String()
		}

		return "not a struct or interface"
	}
}
