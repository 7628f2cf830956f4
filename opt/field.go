package opt

import "fmt"

// Field is a two-variant union: Value(T) or Missing.
type Field[T any] struct {
	value   T
	present bool
}

// Value returns a Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// Missing returns a Field that holds nothing.
func Missing[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the held value and true, or the zero value and false when Missing.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.present
}

// IsValue reports whether f was supplied.
func (f Field[T]) IsValue() bool {
	return f.present
}

// IsMissing reports whether f was not supplied.
func (f Field[T]) IsMissing() bool {
	return !f.present
}

// OrElse returns the held value, or fallback when f is Missing.
func (f Field[T]) OrElse(fallback T) T {
	if f.present {
		return f.value
	}

	return fallback
}

// IsZero reports whether f is Missing. Encoders use it to omit the field.
func (f Field[T]) IsZero() bool {
	return !f.present
}

// String returns "Value(<v>)" or "Missing".
func (f Field[T]) String() string {
	if !f.present {
		return "Missing"
	}

	return fmt.Sprintf("Value(%v)", f.value)
}
