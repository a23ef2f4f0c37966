package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/shinemark/internal/annotation"
)

// ErrUnknownMode is returned for a mode value with no matching tool.
var ErrUnknownMode = errors.New("unknown canvas mode")

// Mode is the armed tool. Every mode except ModeCursor creates the annotation
// variant of the same name on pointer-down.
type Mode int

const (
	ModeCursor Mode = iota
	ModeHighlight
	ModeObfuscate
	ModeRectangle
	ModeEllipse
	ModeLine
	ModeArrow
	ModeText
	ModeImageOverlay
)

// Modes lists every valid mode in toolbar order.
func Modes() []Mode {
	out := []Mode{ModeCursor}
	for _, k := range annotation.Kinds() {
		out = append(out, ModeFor(k))
	}
	return out
}

// ModeFor returns the creation mode for an annotation variant.
func ModeFor(k annotation.Kind) Mode { return Mode(k) }

// Kind returns the variant created by m. It is zero for ModeCursor.
func (m Mode) Kind() annotation.Kind {
	if m == ModeCursor {
		return 0
	}
	return annotation.Kind(m)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCursor || m.Kind().Valid()
}

// Creates reports whether pointer-down in m starts a new annotation.
func (m Mode) Creates() bool {
	return m != ModeCursor && m.Valid()
}

func (m Mode) String() string {
	if m == ModeCursor {
		return "cursor"
	}
	if m.Valid() {
		return m.Kind().String()
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode resolves a mode name. "none" and "select" are accepted for the
// cursor.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cursor", "none", "select":
		return ModeCursor, nil
	}
	k, err := annotation.ParseKind(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return ModeFor(k), nil
}
