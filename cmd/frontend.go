package cmd

import (
	"context"
	"fmt"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/driver"
	"github.com/beanboi7/chyp8/emu/headless"
	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/beanboi7/chyp8/emu/screen"
	"github.com/beanboi7/chyp8/emu/term"
	"github.com/faiface/pixel/pixelgl"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

func runTerminal(ctx context.Context, logger *log.Logger, opts options) error {
	t, err := term.New(opts.keyTimeout)
	if err != nil {
		return err
	}
	defer t.Close()

	emu, err := newEMU(logger, opts, t.Keys(), t)
	if err != nil {
		return err
	}
	if err := interactiveSession(logger, emu, t.Keys()).Run(ctx); err != nil {
		return err
	}
	return t.Err()
}

// runWindow runs the session on the pixelgl main thread loop. It blocks the
// calling goroutine, which has to be the main one.
func runWindow(ctx context.Context, logger *log.Logger, opts options) error {
	var err error
	pixelgl.Run(func() {
		err = windowSession(ctx, logger, opts)
	})
	return err
}

func windowSession(ctx context.Context, logger *log.Logger, opts options) error {
	keys := keypad.NewBuffer(opts.keyTimeout, keypad.DefaultCapacity)
	win, err := screen.NewWindow(screen.Config{
		Title: "Chyp8 - " + opts.rom,
		Scale: opts.scale,
	}, keys)
	if err != nil {
		return err
	}
	defer win.Close()

	emu, err := newEMU(logger, opts, win.Keys(), win)
	if err != nil {
		return err
	}
	return interactiveSession(logger, emu, win.Keys()).Run(ctx)
}

// runHeadless runs the ROM without input, then logs the machine state and
// prints the screen.
func runHeadless(ctx context.Context, cmd *cobra.Command, logger *log.Logger, opts options) error {
	out := headless.NewScreen()
	emu, err := newEMU(logger, opts, keypad.Dummy{}, out)
	if err != nil {
		return err
	}

	session := &driver.Session{
		EMU:    emu,
		Logger: logger,
		Steps:  opts.steps,
	}
	runErr := session.Run(ctx)

	driver.LogState(logger, emu)
	fmt.Fprint(cmd.OutOrStdout(), out.Render(cpu.DisplayWidth, cpu.DisplayHeight))
	return runErr
}
