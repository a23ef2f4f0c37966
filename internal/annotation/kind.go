package annotation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when an annotation variant has no implementation.
var ErrUnknownKind = errors.New("unknown annotation kind")

// Kind identifies the variant of an annotation.
type Kind int

const (
	Highlight Kind = iota + 1
	Obfuscate
	Rectangle
	Ellipse
	Line
	Arrow
	Text
	ImageOverlay
)

var kindNames = map[Kind]string{
	Highlight:    "highlight",
	Obfuscate:    "obfuscate",
	Rectangle:    "rectangle",
	Ellipse:      "ellipse",
	Line:         "line",
	Arrow:        "arrow",
	Text:         "text",
	ImageOverlay: "image",
}

// Kinds returns every supported variant in declaration order.
func Kinds() []Kind {
	return []Kind{Highlight, Obfuscate, Rectangle, Ellipse, Line, Arrow, Text, ImageOverlay}
}

// Valid reports whether k names an implemented variant.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Segmented reports whether the variant is defined by its two end points
// rather than by the rectangle they span.
func (k Kind) Segmented() bool {
	return k == Line || k == Arrow
}

// ParseKind resolves a variant from its name. "rect" and "overlay" are accepted
// as aliases.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "rect":
		return Rectangle, nil
	case "overlay":
		return ImageOverlay, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
