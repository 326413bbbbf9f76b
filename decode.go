package loom

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// EventReader decodes raw terminal bytes into normalized key and mouse
// events. It understands SGR mouse reports, the common CSI and SS3 key
// sequences, and UTF-8 text; anything unrecognized is dropped.
type EventReader struct {
	r *bufio.Reader

	// Keys delivers decoded keyboard events, Mice decoded mouse events.
	Keys chan KeyEvent
	Mice chan MouseEvent
}

// NewEventReader creates a reader over the terminal input stream.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{
		r:    bufio.NewReader(r),
		Keys: make(chan KeyEvent, 16),
		Mice: make(chan MouseEvent, 16),
	}
}

// Run decodes until the stream ends, then closes both channels. Meant to
// run on its own goroutine.
func (er *EventReader) Run() {
	defer close(er.Keys)
	defer close(er.Mice)
	for {
		b, err := er.r.ReadByte()
		if err != nil {
			return
		}
		switch {
		case b == 0x1b:
			er.escape()
		case b == '\t':
			er.Keys <- KeyEvent{Key: KeyTab}
		case b == '\r', b == '\n':
			er.Keys <- KeyEvent{Key: KeyEnter}
		case b == ' ':
			er.Keys <- KeyEvent{Key: KeySpace}
		case b == 0x7f, b == 0x08:
			er.Keys <- KeyEvent{Key: KeyBackspace}
		case b < 0x20:
			// Ctrl-letter.
			er.Keys <- KeyEvent{Key: KeyRune, Rune: rune(b + 'a' - 1), Mod: ModCtrl}
		default:
			er.r.UnreadByte()
			r, _, err := er.r.ReadRune()
			if err != nil {
				return
			}
			if r != utf8.RuneError {
				er.Keys <- KeyEvent{Key: KeyRune, Rune: r}
			}
		}
	}
}

// escape decodes the bytes following ESC: CSI sequences, SS3 keys, or a
// lone escape press.
func (er *EventReader) escape() {
	b, err := er.r.ReadByte()
	if err != nil {
		er.Keys <- KeyEvent{Key: KeyEscape}
		return
	}
	switch b {
	case '[':
		er.csi()
	case 'O':
		if n, err := er.r.ReadByte(); err == nil {
			er.ss3(n)
		}
	default:
		// Alt-modified key.
		er.r.UnreadByte()
		er.Keys <- KeyEvent{Key: KeyEscape}
	}
}

func (er *EventReader) ss3(b byte) {
	switch b {
	case 'A':
		er.Keys <- KeyEvent{Key: KeyUp}
	case 'B':
		er.Keys <- KeyEvent{Key: KeyDown}
	case 'C':
		er.Keys <- KeyEvent{Key: KeyRight}
	case 'D':
		er.Keys <- KeyEvent{Key: KeyLeft}
	case 'H':
		er.Keys <- KeyEvent{Key: KeyHome}
	case 'F':
		er.Keys <- KeyEvent{Key: KeyEnd}
	}
}

// csi decodes a CSI sequence: parameters, then a final byte.
func (er *EventReader) csi() {
	var params []int
	cur := 0
	hasCur := false
	private := byte(0)

	for {
		b, err := er.r.ReadByte()
		if err != nil {
			return
		}
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			hasCur = true
		case b == ';':
			params = append(params, cur)
			cur = 0
			hasCur = false
		case b == '<' || b == '?':
			private = b
		case b >= 0x40 && b <= 0x7e:
			if hasCur {
				params = append(params, cur)
			}
			er.csiFinal(b, params, private)
			return
		default:
			return
		}
	}
}

func (er *EventReader) csiFinal(final byte, params []int, private byte) {
	get := func(i, def int) int {
		if i < len(params) {
			return params[i]
		}
		return def
	}

	if private == '<' && (final == 'M' || final == 'm') {
		er.sgrMouse(get(0, 0), get(1, 1), get(2, 1), final == 'M')
		return
	}

	mod := Modifiers(0)
	if m := get(1, 1); m > 1 {
		// xterm modifier encoding: 1 + bitmask(shift=1, alt=2, ctrl=4).
		bits := m - 1
		if bits&1 != 0 {
			mod |= ModShift
		}
		if bits&2 != 0 {
			mod |= ModAlt
		}
		if bits&4 != 0 {
			mod |= ModCtrl
		}
	}

	switch final {
	case 'A':
		er.Keys <- KeyEvent{Key: KeyUp, Mod: mod}
	case 'B':
		er.Keys <- KeyEvent{Key: KeyDown, Mod: mod}
	case 'C':
		er.Keys <- KeyEvent{Key: KeyRight, Mod: mod}
	case 'D':
		er.Keys <- KeyEvent{Key: KeyLeft, Mod: mod}
	case 'H':
		er.Keys <- KeyEvent{Key: KeyHome, Mod: mod}
	case 'F':
		er.Keys <- KeyEvent{Key: KeyEnd, Mod: mod}
	case 'Z':
		er.Keys <- KeyEvent{Key: KeyBacktab, Mod: ModShift}
	case '~':
		switch get(0, 0) {
		case 3:
			er.Keys <- KeyEvent{Key: KeyDelete, Mod: mod}
		case 5:
			er.Keys <- KeyEvent{Key: KeyPageUp, Mod: mod}
		case 6:
			er.Keys <- KeyEvent{Key: KeyPageDown, Mod: mod}
		case 1, 7:
			er.Keys <- KeyEvent{Key: KeyHome, Mod: mod}
		case 4, 8:
			er.Keys <- KeyEvent{Key: KeyEnd, Mod: mod}
		}
	}
}

// sgrMouse decodes an SGR mouse report. Coordinates arrive 1-based.
func (er *EventReader) sgrMouse(btn, x, y int, press bool) {
	ev := MouseEvent{X: x - 1, Y: y - 1}
	if btn&4 != 0 {
		ev.Mod |= ModShift
	}
	if btn&8 != 0 {
		ev.Mod |= ModAlt
	}
	if btn&16 != 0 {
		ev.Mod |= ModCtrl
	}

	motion := btn&32 != 0
	code := btn &^ (4 | 8 | 16 | 32)

	switch {
	case code >= 64:
		ev.Kind = MouseWheel
		switch code {
		case 64:
			ev.WheelY = -1
		case 65:
			ev.WheelY = 1
		case 66:
			ev.WheelX = -1
		case 67:
			ev.WheelX = 1
		}
	case code == 3:
		if motion {
			ev.Kind = MouseMove
		} else {
			ev.Kind = MouseRelease
		}
	default:
		switch code {
		case 0:
			ev.Button = MouseLeft
		case 1:
			ev.Button = MouseMiddle
		case 2:
			ev.Button = MouseRight
		}
		switch {
		case motion:
			ev.Kind = MouseDrag
		case press:
			ev.Kind = MousePress
		default:
			ev.Kind = MouseRelease
		}
	}
	er.Mice <- ev
}
