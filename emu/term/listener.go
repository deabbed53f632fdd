package term

import (
	"fmt"

	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/nsf/termbox-go"
)

var (
	pollEvent = termbox.PollEvent
	interrupt = termbox.Interrupt
)

// listen reads terminal events until Close. PollEvent blocks, Close wakes it
// up with termbox.Interrupt.
func (t *Terminal) listen() {
	defer t.wg.Done()
	defer close(t.stopped)

	for {
		ev := pollEvent()

		select {
		case <-t.done:
			return
		default:
		}

		switch ev.Type {
		case termbox.EventKey:
			t.handleKey(ev)
		case termbox.EventResize:
			t.Refresh()
		case termbox.EventError:
			t.fail(fmt.Errorf("reading terminal events: %w", ev.Err))
			return
		}
	}
}

func (t *Terminal) handleKey(ev termbox.Event) {
	if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
		t.requestQuit()
		return
	}
	if key, ok := keypad.FromRune(ev.Ch); ok {
		t.keys.Push(key)
	}
}
