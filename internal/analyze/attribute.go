package analyze

import (
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// AttributeSource tells where an attribute was written.
type AttributeSource int

const (
	SourceTag    AttributeSource = iota // struct tag key:"value"
	SourceMarker                        // marker comment // +name...
)

// ArgKind classifies an attribute argument value.
type ArgKind int

const (
	ArgRaw         ArgKind = iota // bare text copied as written
	ArgString                     // quoted string
	ArgNumber                     // integer or float literal
	ArgBool                       // true / false
	ArgList                       // {a;b} or {a,b}
	ArgTypeRef                    // reference to a named type
	ArgUnsupported                // value that cannot be reproduced structurally
)

// AttributeArg is one argument of an attribute.
type AttributeArg struct {
	// Key is the argument name for key=value marker arguments.
	Key  string
	Kind ArgKind
	// Text is the value as written, quotes included.
	Text string
	// Elems and Sep describe ArgList values.
	Elems []AttributeArg
	Sep   string
	// Ref is the referenced type for ArgTypeRef values.
	Ref *types.TypeName
}

// Attribute is an opaque metadata decoration: a struct tag entry or a marker
// comment. The generator copies attributes without interpreting them.
type Attribute struct {
	Source AttributeSource
	Name   string
	Args   []AttributeArg
	// Named is true for markers written as +name:key=value,...
	Named bool
}

// ArgFormatter renders a single non-list argument value.
type ArgFormatter func(AttributeArg) string

// VerbatimArg renders an argument exactly as written.
func VerbatimArg(a AttributeArg) string {
	return a.Text
}

// TagValue returns the tag value with arguments joined by commas.
func (a Attribute) TagValue() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.Text
	}

	return strings.Join(parts, ",")
}

// Marker renders a marker attribute as "+name", "+name=value" or
// "+name:key=value,...".
func (a Attribute) Marker(format ArgFormatter) string {
	if len(a.Args) == 0 {
		return "+" + a.Name
	}

	if !a.Named {
		return "+" + a.Name + "=" + formatArg(a.Args[0], format)
	}

	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		v := formatArg(arg, format)
		if arg.Key != "" {
			v = arg.Key + "=" + v
		}

		parts[i] = v
	}

	return "+" + a.Name + ":" + strings.Join(parts, ",")
}

// Walk calls fn for every argument, descending into lists.
func (a Attribute) Walk(fn func(AttributeArg)) {
	var walk func(args []AttributeArg)
	walk = func(args []AttributeArg) {
		for _, arg := range args {
			if arg.Kind == ArgList {
				walk(arg.Elems)
				continue
			}

			fn(arg)
		}
	}

	walk(a.Args)
}

func formatArg(arg AttributeArg, format ArgFormatter) string {
	if arg.Kind != ArgList {
		return format(arg)
	}

	elems := make([]string, len(arg.Elems))
	for i, e := range arg.Elems {
		elems[i] = formatArg(e, format)
	}

	return "{" + strings.Join(elems, arg.Sep) + "}"
}

// RenderTag renders tag attributes back into struct tag syntax.
func RenderTag(attrs []Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.Source != SourceTag {
			continue
		}

		parts = append(parts, a.Name+":"+strconv.Quote(a.TagValue()))
	}

	return strings.Join(parts, " ")
}

var errMalformedTag = errors.New("malformed struct tag")

// ParseTag splits a struct tag into attributes in declaration order. It follows
// the conventional syntax accepted by reflect.StructTag.
func ParseTag(tag string) ([]Attribute, error) {
	var attrs []Attribute

	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}

		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}

		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return nil, errors.Wrapf(errMalformedTag, "at %q", tag)
		}

		name := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}

			i++
		}

		if i >= len(tag) {
			return nil, errors.Wrapf(errMalformedTag, "unterminated value for %q", name)
		}

		value, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "malformed struct tag %q", name), errMalformedTag)
		}

		tag = tag[i+1:]

		attr := Attribute{Source: SourceTag, Name: name}
		for _, part := range strings.Split(value, ",") {
			attr.Args = append(attr.Args, AttributeArg{Kind: ArgString, Text: part})
		}

		attrs = append(attrs, attr)
	}

	return attrs, nil
}

// TypeResolver resolves an identifier ("Name" or "pkg.Name") to a named type.
type TypeResolver func(ident string) (*types.TypeName, bool)

// ParseMarker parses the text of a marker comment (without the leading "//").
func ParseMarker(text string, resolve TypeResolver) Attribute {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "+"))

	eq := indexTop(text, '=')
	if eq < 0 {
		return Attribute{Source: SourceMarker, Name: text}
	}

	prefix, rest := text[:eq], text[eq+1:]

	if c := strings.LastIndex(prefix, ":"); c > 0 && startsLower(prefix[c+1:]) {
		attr := Attribute{Source: SourceMarker, Name: prefix[:c], Named: true}

		for _, part := range splitTop(prefix[c+1:]+"="+rest, ',') {
			key, value, ok := strings.Cut(part, "=")
			if !ok {
				attr.Args = append(attr.Args, AttributeArg{Kind: ArgUnsupported, Text: strings.TrimSpace(part)})
				continue
			}

			arg := classifyArg(value, resolve)
			arg.Key = strings.TrimSpace(key)
			attr.Args = append(attr.Args, arg)
		}

		return attr
	}

	return Attribute{
		Source: SourceMarker,
		Name:   prefix,
		Args:   []AttributeArg{classifyArg(rest, resolve)},
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func classifyArg(text string, resolve TypeResolver) AttributeArg {
	t := strings.TrimSpace(text)
	arg := AttributeArg{Text: t}

	switch {
	case !balanced(t):
		arg.Kind = ArgUnsupported

	case strings.HasPrefix(t, `"`) || strings.HasPrefix(t, "`"):
		if _, err := strconv.Unquote(t); err != nil {
			arg.Kind = ArgUnsupported
		} else {
			arg.Kind = ArgString
		}

	case t == "true" || t == "false":
		arg.Kind = ArgBool

	case isNumber(t):
		arg.Kind = ArgNumber

	case strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"):
		arg.Kind = ArgList

		inner := t[1 : len(t)-1]
		arg.Sep = ","

		if indexTop(inner, ';') >= 0 {
			arg.Sep = ";"
		}

		if strings.TrimSpace(inner) != "" {
			for _, e := range splitTop(inner, arg.Sep[0]) {
				arg.Elems = append(arg.Elems, classifyArg(e, resolve))
			}
		}

	case identRe.MatchString(t):
		if resolve != nil {
			if obj, ok := resolve(t); ok {
				arg.Kind = ArgTypeRef
				arg.Ref = obj

				return arg
			}
		}

		arg.Kind = ArgRaw
		if strings.Contains(t, ".") {
			arg.Kind = ArgUnsupported
		}

	default:
		arg.Kind = ArgRaw
	}

	return arg
}

func isNumber(s string) bool {
	if s == "" || !strings.ContainsRune("+-.0123456789", rune(s[0])) {
		return false
	}

	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}

	_, err := strconv.ParseFloat(s, 64)

	return err == nil
}

func startsLower(s string) bool {
	return s != "" && s[0] >= 'a' && s[0] <= 'z'
}

// indexTop returns the index of the first sep outside quotes and braces, or -1.
func indexTop(s string, sep byte) int {
	depth := 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == sep && depth == 0:
			return i
		}
	}

	return -1
}

// splitTop splits s on sep outside quotes and braces, trimming each part.
func splitTop(s string, sep byte) []string {
	var parts []string

	for {
		i := indexTop(s, sep)
		if i < 0 {
			return append(parts, strings.TrimSpace(s))
		}

		parts = append(parts, strings.TrimSpace(s[:i]))
		s = s[i+1:]
	}
}

// balanced reports whether quotes are closed and braces matched.
func balanced(s string) bool {
	depth := 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}

	return quote == 0 && depth == 0
}
