package hierarchy

// Grow applies a partial update to c. It only compiles once the partials of
// this package are generated.
func Grow(c Circle, p CirclePartial) Circle {
	return p.Merge(c)
}
