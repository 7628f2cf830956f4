package classify

//go:generate go tool stringer -type=Classification -linecomment -output=classification_string.go

// Classification is the optionality of a field in the generated partial.
type Classification int

const (
	Optional  Classification = iota // optional
	Mandatory                       // mandatory
	Excluded                        // excluded
)

// Wrapped reports whether the field is carried as opt.Field in the partial.
func (c Classification) Wrapped() bool {
	return c == Optional
}

// InPartial reports whether the field appears in the partial at all.
func (c Classification) InPartial() bool {
	return c != Excluded
}
