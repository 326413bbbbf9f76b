//go:build unix

package loom

import (
	"fmt"
	"time"
)

// App wires the pipeline into a single-threaded event loop: input events,
// posted callbacks, timers and resizes all run on the loop goroutine, so
// node state never needs locking. Invalidate may be called from any
// goroutine; requests coalesce into at most one pending frame, and an
// invalidation raised while a frame is being built simply schedules the
// next one rather than interleaving.
type App struct {
	Tree   *Tree
	Screen *Screen
	Bounds *BoundsRegistry
	Focus  *FocusNavigator
	Input  *Dispatcher

	renderer *Renderer
	buf      *Buffer

	invalidate chan struct{}
	posted     chan func()
	quit       chan struct{}
}

// NewApp assembles a tree, screen, renderer, bounds registry, focus
// navigator and input dispatcher into a runnable app.
func NewApp() *App {
	tree := NewTree()
	bounds := NewBoundsRegistry()
	focus := NewFocusNavigator(tree)
	app := &App{
		Tree:       tree,
		Screen:     NewScreen(),
		Bounds:     bounds,
		Focus:      focus,
		Input:      NewDispatcher(tree, bounds, focus),
		renderer:   NewRenderer(tree, bounds),
		invalidate: make(chan struct{}, 1),
		posted:     make(chan func(), 64),
		quit:       make(chan struct{}),
	}
	app.Input.Invalidate = app.Invalidate
	return app
}

// Invalidate requests a re-render. Multiple requests before the next frame
// collapse into one. Never blocks.
func (a *App) Invalidate() {
	select {
	case a.invalidate <- struct{}{}:
	default:
	}
}

// Post runs fn on the loop goroutine. Blocks if the queue is full.
func (a *App) Post(fn func()) {
	select {
	case a.posted <- fn:
	case <-a.quit:
	}
}

// After runs fn on the loop goroutine after the delay. Fire and forget;
// there is no cancellation handle.
func (a *App) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { a.Post(fn) })
}

// Quit stops a running app. Safe to call from any goroutine, once.
func (a *App) Quit() {
	close(a.quit)
}

// Run initializes the terminal and drives the loop until Quit. The terminal
// is always restored, including on error.
func (a *App) Run() error {
	if err := a.Screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.Screen.Fini()

	w, h := a.Screen.Size()
	a.buf = NewBuffer(w, h)

	reader := NewEventReader(a.Screen.in)
	go reader.Run()

	a.renderFrame()
	for {
		select {
		case <-a.quit:
			return nil

		case <-a.invalidate:
			a.renderFrame()

		case <-a.Screen.Resize:
			w, h := a.Screen.Size()
			a.buf.Resize(w, h)
			a.renderFrame()

		case fn := <-a.posted:
			fn()

		case ev, ok := <-reader.Keys:
			if !ok {
				return nil
			}
			if ev.Key == KeyRune && ev.Rune == 'c' && ev.Mod == ModCtrl {
				return nil
			}
			a.Input.HandleKey(ev)

		case ev, ok := <-reader.Mice:
			if !ok {
				return nil
			}
			a.Input.HandleMouse(ev)
		}
	}
}

// renderFrame runs one full pipeline pass and flushes it.
func (a *App) renderFrame() {
	a.renderer.RenderFrame(a.buf)
	if err := a.Screen.Flush(a.buf); err != nil {
		Logf("flush failed: %v", err)
	}
}
