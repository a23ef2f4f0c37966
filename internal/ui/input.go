package ui

import (
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shinemark/internal/canvas"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type shortcut struct {
	label  string
	action string
	keys   []KeyShortcut
}

const (
	actionExport = "export"
	actionCopy   = "copy"
	actionPaste  = "paste"
	actionQuit   = "quit"
)

var shortcuts = []shortcut{
	{"^S:export", actionExport, []KeyShortcut{{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl}}},
	{"^C:copy", actionCopy, []KeyShortcut{{Rune: 'c', Code: key.CodeC, Modifiers: key.ModControl}}},
	{"^V:paste", actionPaste, []KeyShortcut{{Rune: 'v', Code: key.CodeV, Modifiers: key.ModControl}}},
	{"^Q:quit", actionQuit, []KeyShortcut{{Rune: 'q', Code: key.CodeQ, Modifiers: key.ModControl}}},
}

// shortcutAction returns the action bound to e, if any.
func shortcutAction(e key.Event) (string, bool) {
	ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers &^ key.ModShift}
	for _, sc := range shortcuts {
		for _, k := range sc.keys {
			if k.Code == ks.Code && k.Modifiers == ks.Modifiers {
				return sc.action, true
			}
		}
	}
	return "", false
}

// modeKeys maps unmodified letters to creation modes.
var modeKeys = map[rune]canvas.Mode{
	'v': canvas.ModeCursor,
	'h': canvas.ModeHighlight,
	'o': canvas.ModeObfuscate,
	'r': canvas.ModeRectangle,
	'e': canvas.ModeEllipse,
	'l': canvas.ModeLine,
	'a': canvas.ModeArrow,
	't': canvas.ModeText,
	'i': canvas.ModeImageOverlay,
}

func modeForKey(e key.Event) (canvas.Mode, bool) {
	if e.Modifiers&(key.ModControl|key.ModAlt|key.ModMeta) != 0 {
		return 0, false
	}
	m, ok := modeKeys[unicode.ToLower(e.Rune)]
	return m, ok
}

func translateButton(b mouse.Button) (canvas.Button, bool) {
	switch b {
	case mouse.ButtonLeft:
		return canvas.ButtonLeft, true
	case mouse.ButtonRight:
		return canvas.ButtonRight, true
	case mouse.ButtonMiddle:
		return canvas.ButtonMiddle, true
	}
	return 0, false
}

func translateModifiers(m key.Modifiers) canvas.Modifiers {
	var out canvas.Modifiers
	if m&key.ModShift != 0 {
		out |= canvas.ModShift
	}
	if m&key.ModControl != 0 {
		out |= canvas.ModControl
	}
	if m&key.ModAlt != 0 {
		out |= canvas.ModAlt
	}
	return out
}

// translateKey maps a key press onto the controller's key set.
func translateKey(e key.Event) (canvas.Key, rune) {
	switch e.Code {
	case key.CodeDeleteForward:
		return canvas.KeyDelete, 0
	case key.CodeDeleteBackspace:
		return canvas.KeyBackspace, 0
	case key.CodeEscape:
		return canvas.KeyEscape, 0
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return canvas.KeyEnter, 0
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		return canvas.KeyRune, e.Rune
	}
	return canvas.KeyNone, 0
}
