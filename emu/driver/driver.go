// Package driver steps a machine at a fixed pace until it halts, the user
// quits or the context is cancelled.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/retroenv/retrogolib/log"
)

const (
	// StepInterval paces interactive sessions at 120 steps per second.
	StepInterval = time.Second / 120
	// StepsPerFrame is the number of steps between two output refreshes.
	StepsPerFrame = 2
)

// Session runs a machine. Keys is the buffer the machine reads its input
// from, closing it ends the session. It is nil for sessions without input.
type Session struct {
	EMU    *cpu.EMU
	Keys   *keypad.Buffer
	Logger *log.Logger // required

	// Steps limits the number of steps, 0 runs until the machine halts.
	Steps int
	// Interval between two steps, 0 runs unpaced.
	Interval time.Duration
}

// Run steps the machine and refreshes its output once per frame.
// It returns nil when the step limit is reached or the key buffer is
// closed, the context error when cancelled and the machine error when a
// step fails.
func (s *Session) Run(ctx context.Context) error {
	var done <-chan struct{}
	if s.Keys != nil {
		// unblocks a machine waiting for a key
		stop := context.AfterFunc(ctx, s.Keys.Close)
		defer stop()
		done = s.Keys.Done()
	}

	var tick <-chan time.Time
	if s.Interval > 0 {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	output := s.EMU.Output()
	defer output.Refresh()

	for n := 0; s.Steps == 0 || n < s.Steps; n++ {
		if stopped, err := wait(ctx, done, tick); stopped {
			return err
		}

		if err := s.EMU.Step(); err != nil {
			if errors.Is(err, keypad.ErrClosed) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			return err
		}

		if n%StepsPerFrame == StepsPerFrame-1 {
			output.Refresh()
		}
	}

	s.Logger.Debug("Step limit reached", log.Int("steps", s.Steps))
	return nil
}

// wait blocks until the next tick, or returns immediately without a ticker.
// stopped reports whether the session has to end.
func wait(ctx context.Context, done <-chan struct{}, tick <-chan time.Time) (stopped bool, err error) {
	if tick == nil {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case <-done:
			return true, nil
		default:
			return false, nil
		}
	}

	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-done:
		return true, nil
	case <-tick:
		return false, nil
	}
}

// LogState logs the registers, timers and stack depth of the machine.
func LogState(logger *log.Logger, emu *cpu.EMU) {
	regs := emu.Registers()
	logger.Info("Machine state",
		log.Hex("pc", emu.PC()),
		log.Hex("i", emu.I),
		log.Int("sp", emu.SP()),
		log.Uint8("dt", emu.DelayTimer()),
		log.Uint8("st", emu.SoundTimer()),
		log.String("v", fmt.Sprintf("% X", regs[:])))
}
