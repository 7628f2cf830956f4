package analyze

import (
	"fmt"
	"go/ast"
	"regexp"
	"strings"
)

// Control keys. They steer generation and are never copied onto generated fields.
const (
	DirectivePrefix = "//partialgen:"
	TagKey          = "partial"
	DefaultTagKey   = "partialdefault"
)

// typeDirective is the parsed //partialgen:generate annotation of a type.
type typeDirective struct {
	found    bool
	children []string
	err      string
}

// kind returns the declaration kind the directive asks for.
func (d typeDirective) kind() DeclKind {
	switch {
	case !d.found:
		return DeclKindNone
	case len(d.children) > 0:
		return DeclKindParent
	default:
		return DeclKindLeaf
	}
}

// parseTypeDirective scans the doc comments of a type for its annotation.
func parseTypeDirective(groups ...*ast.CommentGroup) typeDirective {
	var d typeDirective

	for _, line := range commentLines(groups...) {
		rest, ok := strings.CutPrefix(line, DirectivePrefix)
		if !ok {
			continue
		}

		verb, args, _ := strings.Cut(rest, " ")
		if verb != "generate" {
			d.found = true
			d.err = fmt.Sprintf("unknown type directive %q, expected %sgenerate", verb, DirectivePrefix)

			continue
		}

		if d.found {
			d.err = "duplicate " + DirectivePrefix + "generate directive"
			continue
		}

		d.found = true

		for _, opt := range strings.Fields(args) {
			key, value, _ := strings.Cut(opt, "=")
			if key != "children" {
				d.err = fmt.Sprintf("unknown option %q in %sgenerate", key, DirectivePrefix)
				continue
			}

			for _, name := range strings.Split(value, ",") {
				if name = strings.TrimSpace(name); name != "" {
					d.children = append(d.children, name)
				}
			}

			if len(d.children) == 0 {
				d.err = "children= must name at least one type"
			}
		}
	}

	return d
}

// fieldDirectives holds what the comments of a field or getter say.
type fieldDirectives struct {
	modifiers []Modifier
	unknown   []string
	markers   []string
}

// parseFieldDirectives reads //partialgen:required, //partialgen:skip and
// marker lines ("// +name...") from the given comment groups.
func parseFieldDirectives(groups ...*ast.CommentGroup) fieldDirectives {
	var d fieldDirectives

	for _, line := range commentLines(groups...) {
		if rest, ok := strings.CutPrefix(line, DirectivePrefix); ok {
			if m, ok := parseModifier(strings.TrimSpace(rest)); ok {
				d.modifiers = append(d.modifiers, m)
			} else {
				d.unknown = append(d.unknown, rest)
			}

			continue
		}

		text := strings.TrimSpace(strings.TrimPrefix(line, "//"))
		if isMarker(text) {
			d.markers = append(d.markers, text)
		}
	}

	return d
}

// markerRe matches "+name" and "+name=value" where name is an identifier
// optionally qualified with '.', ':' or '-'. Prose such as "+1 for this" or
// "+ see below" does not match.
var markerRe = regexp.MustCompile(`^\+[A-Za-z_][A-Za-z0-9_.:-]*(=.*)?$`)

func isMarker(text string) bool {
	return markerRe.MatchString(text)
}

// parseModifierTag reads the options of a `partial:"..."` tag.
func parseModifierTag(value string) (mods []Modifier, unknown []string) {
	for _, opt := range strings.Split(value, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}

		if m, ok := parseModifier(opt); ok {
			mods = append(mods, m)
		} else {
			unknown = append(unknown, opt)
		}
	}

	return mods, unknown
}

func parseModifier(s string) (Modifier, bool) {
	switch s {
	case "required":
		return ModifierRequired, true
	case "skip":
		return ModifierSkip, true
	default:
		return ModifierNone, false
	}
}

// commentLines returns the raw "//" lines of the groups, skipping block comments.
func commentLines(groups ...*ast.CommentGroup) []string {
	var lines []string

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			if strings.HasPrefix(c.Text, "//") {
				lines = append(lines, c.Text)
			}
		}
	}

	return lines
}

// IsGenerated reports whether src was written by partialgen.
func IsGenerated(src []byte) bool {
	head := src
	if len(head) > 512 {
		head = head[:512]
	}

	return strings.Contains(string(head), GeneratedHeader)
}

// GeneratedHeader is the first line of every generated file.
const GeneratedHeader = "// Code generated by partialgen. DO NOT EDIT."
