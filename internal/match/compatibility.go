package match

import (
	"go/types"
)

// TypeCompatibility is how a field type relates to the type a getter returns.
type TypeCompatibility int

const (
	// TypeIncompatible means no conversion exists.
	TypeIncompatible TypeCompatibility = iota
	// TypeConvertible means a Go conversion exists.
	TypeConvertible
	// TypeAssignable means the value can be returned as is.
	TypeAssignable
	// TypeIdentical means the types are the same.
	TypeIdentical
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return "identical"
	case TypeAssignable:
		return "assignable"
	case TypeConvertible:
		return "convertible"
	case TypeIncompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// CompareTypes returns how have relates to want.
func CompareTypes(have, want types.Type) TypeCompatibility {
	switch {
	case types.Identical(have, want):
		return TypeIdentical
	case types.AssignableTo(have, want):
		return TypeAssignable
	case types.ConvertibleTo(have, want):
		return TypeConvertible
	default:
		return TypeIncompatible
	}
}
