package scenario

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/san-kum/orbitsim/internal/units"
)

type shape int

const (
	shapeIgnored shape = iota
	shapeDt
	shapeName
	shapeHeader
	shapeProperty
)

func (s shape) String() string {
	switch s {
	case shapeDt:
		return "dt"
	case shapeName:
		return "name"
	case shapeHeader:
		return "header"
	case shapeProperty:
		return "property"
	}
	return "ignored"
}

// line is one classified input line. For a header key is the body name; for
// dt, name and property lines key and value hold the split pair.
type line struct {
	shape shape
	key   string
	value string
}

// classifiers are tried in order and the first match decides the shape.
var classifiers = []func(string) (line, bool){
	classifyDt,
	classifyName,
	classifyHeader,
	classifyProperty,
}

func classify(raw string) line {
	text := strings.TrimRightFunc(raw, unicode.IsSpace)
	for _, c := range classifiers {
		if l, ok := c(text); ok {
			return l
		}
	}
	return line{shape: shapeIgnored}
}

// classifyDt matches `dt: <digits> <unit>` with no indentation.
func classifyDt(text string) (line, bool) {
	rest, ok := strings.CutPrefix(text, "dt: ")
	if !ok {
		return line{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) != 2 || !isDigits(fields[0]) {
		return line{}, false
	}
	if _, ok := units.TimeStep(fields[1]); !ok {
		return line{}, false
	}
	return line{shape: shapeDt, key: fields[0], value: fields[1]}, true
}

// classifyName matches `name: <text>` with non-empty text.
func classifyName(text string) (line, bool) {
	rest, ok := strings.CutPrefix(text, "name:")
	if !ok {
		return line{}, false
	}
	value := strings.TrimSpace(rest)
	if value == "" || !startsWithSpace(rest) {
		return line{}, false
	}
	return line{shape: shapeName, value: value}, true
}

// classifyHeader matches an unindented `<identifier>:` with nothing after it.
func classifyHeader(text string) (line, bool) {
	ident, ok := strings.CutSuffix(text, ":")
	if !ok || !isIdentifier(ident) {
		return line{}, false
	}
	return line{shape: shapeHeader, key: ident}, true
}

// classifyProperty matches an indented `<identifier>: <value>`.
func classifyProperty(text string) (line, bool) {
	if !startsWithSpace(text) {
		return line{}, false
	}
	key, value, ok := strings.Cut(strings.TrimLeftFunc(text, unicode.IsSpace), ":")
	value = strings.TrimSpace(value)
	if !ok || !isIdentifier(key) || value == "" {
		return line{}, false
	}
	return line{shape: shapeProperty, key: key, value: value}, true
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
