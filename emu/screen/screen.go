// Package screen draws the machine output into a pixelgl window and reads
// the keypad from the window keyboard.
package screen

import (
	"fmt"
	"sync"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"
)

// Window resolution in machine pixels.
const (
	Width  = cpu.DisplayWidth
	Height = cpu.DisplayHeight
)

const (
	defaultScale = 10
	pollInterval = time.Second / 120
)

// Config holds the window settings.
type Config struct {
	Title string
	Scale float64 // size in screen pixels of one machine pixel
	// KeyMap maps keypad keys to window buttons, DefaultKeyMap when nil.
	KeyMap map[uint8]pixelgl.Button
}

// Window is an output drawing the grid into a pixelgl window. It also
// captures the keyboard of the window into a key buffer.
// Cells outside Width x Height are ignored.
type Window struct {
	*pixelgl.Window
	keyMap map[uint8]pixelgl.Button

	keys  *keypad.Buffer
	imd   *imdraw.IMDraw
	scale float64

	mu    sync.Mutex
	cells [Width * Height]uint8

	winMu sync.Mutex // serializes calls into the pixelgl window

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWindow opens a window and starts capturing its key presses into keys.
// It must be called inside pixelgl.Run.
func NewWindow(cfg Config, keys *keypad.Buffer) (*Window, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = defaultScale
	}
	if cfg.KeyMap == nil {
		cfg.KeyMap = DefaultKeyMap()
	}
	if cfg.Title == "" {
		cfg.Title = "Chyp8"
	}

	win, err := pixelgl.NewWindow(pixelgl.WindowConfig{
		Title:     cfg.Title,
		Bounds:    pixel.R(0, 0, Width*cfg.Scale, Height*cfg.Scale),
		Resizable: false,
		VSync:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w := &Window{
		Window: win,
		keyMap: cfg.KeyMap,
		keys:   keys,
		imd:    imdraw.New(nil),
		scale:  cfg.Scale,
		done:   make(chan struct{}),
	}

	w.wg.Add(1)
	go w.listen()
	return w, nil
}

// Keys returns the buffer the window key presses go to.
func (w *Window) Keys() *keypad.Buffer {
	return w.keys
}

// Set stores the state of a cell.
func (w *Window) Set(x, y int, bit uint8) {
	if !inside(x, y) {
		return
	}
	w.mu.Lock()
	w.cells[y*Width+x] = bit & 1
	w.mu.Unlock()
}

// Get returns the state of a cell.
func (w *Window) Get(x, y int) uint8 {
	if !inside(x, y) {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cells[y*Width+x]
}

// Clear resets all cells. The window is redrawn on the next Refresh.
func (w *Window) Clear() {
	w.mu.Lock()
	w.cells = [Width * Height]uint8{}
	w.mu.Unlock()
}

// Refresh draws all cells and swaps the window buffers.
func (w *Window) Refresh() {
	w.mu.Lock()
	cells := w.cells
	w.mu.Unlock()

	w.imd.Clear()
	w.imd.Color = colornames.White
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if cells[y*Width+x] == 0 {
				continue
			}
			// pixel coordinates grow upwards
			x0 := float64(x) * w.scale
			y0 := float64(Height-1-y) * w.scale
			w.imd.Push(pixel.V(x0, y0), pixel.V(x0+w.scale, y0+w.scale))
			w.imd.Rectangle(0)
		}
	}

	w.winMu.Lock()
	defer w.winMu.Unlock()
	w.Window.Clear(colornames.Black)
	w.imd.Draw(w.Window)
	w.Window.Update()
}

// Close stops the key capture, waits for it to finish and destroys the
// window. The key buffer is closed as well.
func (w *Window) Close() {
	close(w.done)
	w.wg.Wait()
	w.keys.Close()

	w.winMu.Lock()
	defer w.winMu.Unlock()
	w.Window.Destroy()
}

func inside(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
