// Package term runs the machine in a terminal using termbox. Each machine
// pixel is drawn as two block characters inside a box border, and the
// hexadecimal digit keys feed the keypad.
package term

import (
	"fmt"
	"sync"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/nsf/termbox-go"
)

const (
	width     = cpu.DisplayWidth
	height    = cpu.DisplayHeight
	cellWidth = 2
	offsetX   = 1
	offsetY   = 1
)

// Terminal is an output drawing into the terminal and the owner of the
// goroutine reading terminal key events. Cells outside the canonical
// resolution are ignored.
type Terminal struct {
	keys *keypad.Buffer

	mu    sync.Mutex // guards cells and all drawing calls
	cells [width * height]uint8

	quit      chan struct{}
	quitOnce  sync.Once
	done      chan struct{}
	stopped   chan struct{} // closed when listen returns
	closeOnce sync.Once
	wg        sync.WaitGroup

	errMu sync.Mutex
	err   error
}

// New takes over the terminal and starts reading key events. Key presses
// stay fresh for timeout.
func New(timeout time.Duration) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	t := &Terminal{
		keys: keypad.NewBuffer(timeout, keypad.DefaultCapacity),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	t.Refresh()

	t.wg.Add(1)
	go t.listen()
	return t, nil
}

// Keys returns the buffer the terminal key presses go to.
func (t *Terminal) Keys() *keypad.Buffer {
	return t.keys
}

// Quit returns a channel closed once the user asked to quit with q, Esc or
// Ctrl-C.
func (t *Terminal) Quit() <-chan struct{} {
	return t.quit
}

// Set stores the state of a cell and draws it.
func (t *Terminal) Set(x, y int, bit uint8) {
	if !inside(x, y) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := y*width + x
	if t.cells[i] == bit&1 {
		return
	}
	t.cells[i] = bit & 1
	drawCell(x, y, t.cells[i])
}

// Get returns the state of a cell.
func (t *Terminal) Get(x, y int) uint8 {
	if !inside(x, y) {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cells[y*width+x]
}

// Clear resets all cells.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cells = [width * height]uint8{}
	t.redraw()
}

// Refresh redraws the border and all cells and flushes the terminal.
// A failed flush ends the session, see Err.
func (t *Terminal) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.redraw()
	if err := termbox.Flush(); err != nil {
		t.fail(fmt.Errorf("flushing terminal: %w", err))
	}
}

// Err returns the first error the terminal failed with, if any.
func (t *Terminal) Err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return t.err
}

// Close stops the key reader, waits for it to exit and restores the
// terminal. The key buffer is closed so that a pending key wait returns.
// It is safe to call more than once.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		t.stop()
		termbox.Close()
	})
}

// stop ends the key reader. PollEvent is only interrupted while the reader
// is still running, nothing receives the interrupt once it has returned.
func (t *Terminal) stop() {
	close(t.done)
	select {
	case <-t.stopped:
	default:
		interrupt()
	}
	t.wg.Wait()
	t.keys.Close()
}

// fail records err and asks the session to end.
func (t *Terminal) fail(err error) {
	t.errMu.Lock()
	if t.err == nil {
		t.err = err
	}
	t.errMu.Unlock()
	t.requestQuit()
}

func (t *Terminal) requestQuit() {
	t.quitOnce.Do(func() {
		close(t.quit)
		t.keys.Close()
	})
}

// redraw must be called with mu held.
func (t *Terminal) redraw() {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	drawBorder()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			drawCell(x, y, t.cells[y*width+x])
		}
	}
}

func drawCell(x, y int, bit uint8) {
	ch := ' '
	if bit != 0 {
		ch = '█'
	}
	for i := 0; i < cellWidth; i++ {
		termbox.SetCell(offsetX+cellWidth*x+i, offsetY+y, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
}

func drawBorder() {
	right := offsetX + cellWidth*width
	bottom := offsetY + height

	set := func(x, y int, ch rune) {
		termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
	for x := 1; x < right; x++ {
		set(x, 0, '━')
		set(x, bottom, '━')
	}
	for y := 1; y < bottom; y++ {
		set(0, y, '┃')
		set(right, y, '┃')
	}
	set(0, 0, '┏')
	set(right, 0, '┓')
	set(0, bottom, '┗')
	set(right, bottom, '┛')
}

func inside(x, y int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}
