package screen

import (
	"time"

	"github.com/faiface/pixel/pixelgl"
)

// DefaultKeyMap maps the keypad to the left block of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
func DefaultKeyMap() map[uint8]pixelgl.Button {
	return map[uint8]pixelgl.Button{
		0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
		0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
		0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
		0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
	}
}

// keyScanner turns button states into key presses on their rising edge.
type keyScanner struct {
	keyMap map[uint8]pixelgl.Button
	down   [16]bool
}

// scan pushes every key whose button went down since the previous scan.
func (s *keyScanner) scan(pressed func(pixelgl.Button) bool, push func(uint8)) {
	for key, button := range s.keyMap {
		down := pressed(button)
		if down && !s.down[key&0xF] {
			push(key)
		}
		s.down[key&0xF] = down
	}
}

// listen polls the window input and pushes every newly pressed key. It runs
// until Close, or until the window is closed by the user. The input state of
// the window is shared with Refresh, every access holds winMu.
func (w *Window) listen() {
	defer w.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	scanner := keyScanner{keyMap: w.keyMap}
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
		}

		if !w.pollInput(&scanner) {
			w.keys.Close()
			return
		}
	}
}

// pollInput updates the window input and scans the keypad. It returns false
// once the window was closed or Esc was pressed.
func (w *Window) pollInput(scanner *keyScanner) bool {
	w.winMu.Lock()
	defer w.winMu.Unlock()

	w.UpdateInput()
	if w.Closed() || w.Pressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
		return false
	}
	scanner.scan(w.Pressed, w.keys.Push)
	return true
}
