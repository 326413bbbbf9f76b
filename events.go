package loom

// Normalized input events. Decoding raw escape sequences into these shapes
// is the input collaborator's job; the dispatcher only sees this form.

// Key identifies a non-character key.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune     // printable character, see KeyEvent.Rune
	KeyTab
	KeyBacktab // Shift-Tab
	KeyEnter
	KeyEscape
	KeySpace
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Modifiers is a bitmask of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// KeyEvent is a normalized keyboard event.
type KeyEvent struct {
	Key  Key
	Rune rune // set when Key == KeyRune
	Mod  Modifiers
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
)

// MouseEventKind identifies the phase of a mouse event.
type MouseEventKind uint8

const (
	MousePress MouseEventKind = iota
	MouseDrag
	MouseRelease
	MouseMove
	MouseWheel
)

// MouseEvent is a normalized mouse event. Coordinates are 0-based cell
// offsets from the terminal's top-left. WheelX/WheelY carry scroll deltas
// for MouseWheel events; positive WheelY scrolls content down.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Kind   MouseEventKind
	Mod    Modifiers
	WheelX int
	WheelY int
}
