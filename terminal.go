//go:build unix

package loom

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Screen owns the real terminal: raw mode, the alternate screen, mouse
// reporting, resize notification, and a diff-based flush that only rewrites
// rows a frame actually changed.
type Screen struct {
	in  *os.File
	out *os.File

	prev     *Buffer // what the terminal currently shows
	oldState *term.State
	width    int
	height   int

	// Resize receives a signal after the terminal size changes. Buffered so
	// the signal handler never blocks; coalescing is the receiver's problem.
	Resize chan struct{}

	sigc       chan os.Signal
	debugFlush bool
	flushes    int
}

// NewScreen creates a screen over stdin/stdout. Init must be called before
// the first flush.
func NewScreen() *Screen {
	return &Screen{
		in:         os.Stdin,
		out:        os.Stdout,
		Resize:     make(chan struct{}, 1),
		debugFlush: os.Getenv("LOOM_DEBUG_FLUSH") != "",
	}
}

// Init switches the terminal into raw mode, enters the alternate screen,
// hides the cursor, enables mouse reporting, and starts resize watching.
func (s *Screen) Init() error {
	state, err := term.MakeRaw(int(s.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	s.oldState = state

	s.width, s.height = s.querySize()
	s.prev = NewBuffer(s.width, s.height)

	// Alt screen, hidden cursor, SGR mouse with motion tracking.
	fmt.Fprint(s.out, "\x1b[?1049h\x1b[?25l\x1b[2J")
	fmt.Fprint(s.out, "\x1b[?1000h\x1b[?1002h\x1b[?1003h\x1b[?1006h")

	s.sigc = make(chan os.Signal, 1)
	signal.Notify(s.sigc, unix.SIGWINCH)
	go s.watchResize()
	return nil
}

// Fini restores the terminal. Safe to call after a failed Init.
func (s *Screen) Fini() {
	if s.sigc != nil {
		signal.Stop(s.sigc)
		close(s.sigc)
		s.sigc = nil
	}
	fmt.Fprint(s.out, "\x1b[?1003l\x1b[?1002l\x1b[?1000l\x1b[?1006l")
	fmt.Fprint(s.out, "\x1b[?25h\x1b[?1049l\x1b[0m")
	if s.oldState != nil {
		term.Restore(int(s.in.Fd()), s.oldState)
		s.oldState = nil
	}
}

func (s *Screen) watchResize() {
	for range s.sigc {
		w, h := s.querySize()
		if w == s.width && h == s.height {
			continue
		}
		s.width, s.height = w, h
		select {
		case s.Resize <- struct{}{}:
		default:
		}
	}
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

// querySize asks the terminal for its size: TIOCGWINSZ first, then the
// portable term fallback, then COLUMNS/LINES, then 80x24.
func (s *Screen) querySize() (int, int) {
	if ws, err := unix.IoctlGetWinsize(int(s.out.Fd()), unix.TIOCGWINSZ); err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Col), int(ws.Row)
	}
	if w, h, err := term.GetSize(int(s.out.Fd())); err == nil && w > 0 && h > 0 {
		return w, h
	}
	w, werr := strconv.Atoi(os.Getenv("COLUMNS"))
	h, herr := strconv.Atoi(os.Getenv("LINES"))
	if werr == nil && herr == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}

// Flush writes the buffer to the terminal, emitting only the rows that
// differ from what is already displayed. A resize invalidates the whole
// screen.
func (s *Screen) Flush(buf *Buffer) error {
	if s.prev == nil || s.prev.Width() != buf.Width() || s.prev.Height() != buf.Height() {
		s.prev = NewBuffer(buf.Width(), buf.Height())
		s.prev.Fill(Cell{}) // force every cell to differ
		fmt.Fprint(s.out, "\x1b[2J")
	}

	w := bufio.NewWriterSize(s.out, 32*1024)
	rows := 0
	cells := 0
	lastStyle := Style{Attr: 0xFF} // sentinel: first cell always emits SGR

	for y := 0; y < buf.Height(); y++ {
		if !rowDiffers(buf, s.prev, y) {
			continue
		}
		rows++
		pending := -1 // x of the next cell needing a cursor move
		for x := 0; x < buf.Width(); x++ {
			c := buf.Get(x, y)
			if c == s.prev.Get(x, y) {
				pending = -1
				continue
			}
			if c.Rune == 0 {
				continue // wide-rune tail, drawn by its head
			}
			if pending != x {
				fmt.Fprintf(w, "\x1b[%d;%dH", y+1, x+1)
			}
			if c.Style != lastStyle {
				w.WriteString(sgr(c.Style))
				lastStyle = c.Style
			}
			w.WriteRune(c.Rune)
			cells++
			pending = x + 1
			if isWide(buf, x, y) {
				pending = x + 2
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush terminal: %w", err)
	}
	s.prev.Blit(buf, 0, 0, 0, 0, buf.Width(), buf.Height())
	buf.ClearDirtyFlags()

	s.flushes++
	if s.debugFlush {
		Logf("flush %d: %d rows, %d cells", s.flushes, rows, cells)
	}
	return nil
}

func isWide(buf *Buffer, x, y int) bool {
	return buf.Get(x+1, y).Rune == 0 && x+1 < buf.Width()
}

func rowDiffers(a, b *Buffer, y int) bool {
	if a.RowDirty(y) {
		for x := 0; x < a.Width(); x++ {
			if a.Get(x, y) != b.Get(x, y) {
				return true
			}
		}
	}
	return false
}

// sgr builds the SGR escape sequence selecting the style, starting from a
// reset so no attribute leaks between cells.
func sgr(s Style) string {
	var b strings.Builder
	b.WriteString("\x1b[0")
	if s.Attr.Has(AttrBold) {
		b.WriteString(";1")
	}
	if s.Attr.Has(AttrDim) {
		b.WriteString(";2")
	}
	if s.Attr.Has(AttrItalic) {
		b.WriteString(";3")
	}
	if s.Attr.Has(AttrUnderline) {
		b.WriteString(";4")
	}
	if s.Attr.Has(AttrBlink) {
		b.WriteString(";5")
	}
	if s.Attr.Has(AttrInverse) {
		b.WriteString(";7")
	}
	if s.Attr.Has(AttrStrikethrough) {
		b.WriteString(";9")
	}
	writeColor(&b, s.FG, false)
	writeColor(&b, s.BG, true)
	b.WriteByte('m')
	return b.String()
}

func writeColor(b *strings.Builder, c Color, background bool) {
	switch c.Mode {
	case Color16:
		n := 30 + int(c.Index&7)
		if c.Index >= 8 {
			n += 60
		}
		if background {
			n += 10
		}
		fmt.Fprintf(b, ";%d", n)
	case Color256:
		if background {
			fmt.Fprintf(b, ";48;5;%d", c.Index)
		} else {
			fmt.Fprintf(b, ";38;5;%d", c.Index)
		}
	case ColorRGB:
		if background {
			fmt.Fprintf(b, ";48;2;%d;%d;%d", c.R, c.G, c.B)
		} else {
			fmt.Fprintf(b, ";38;2;%d;%d;%d", c.R, c.G, c.B)
		}
	}
}
