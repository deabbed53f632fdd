package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/driver"
	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Frontends selectable with --frontend.
const (
	frontendTerminal = "terminal"
	frontendWindow   = "window"
	frontendHeadless = "headless"
)

// errHalted is returned once an emulation failure has been logged.
var errHalted = errors.New("emulation halted")

var startCmd = &cobra.Command{
	Use:   "start path/ROM",
	Short: "load and start the Emulator",
	Long: `Load a ROM and run it.

The terminal frontend maps the keys 0-9 and a-f to the keypad and quits on q.
The window frontend uses the 1234/QWER/ASDF/ZXCV block and quits on Esc.
The headless frontend runs without input or output and logs the final state.`,
	Args: cobra.ExactArgs(1),
	RunE: start,
}

// options are the settings of one run.
type options struct {
	rom        string
	frontend   string
	keyTimeout time.Duration
	steps      int
	scale      float64
}

func init() {
	flags := startCmd.Flags()
	flags.StringP("frontend", "f", frontendTerminal, "frontend to run in: terminal, window or headless")
	flags.Duration("key-timeout", keypad.DefaultTimeout, "time a key press stays pressed")
	flags.Int("steps", 0, "stop the headless frontend after this many steps, 0 runs until the program halts")
	flags.Float64("scale", 10, "size of a pixel in the window frontend")
	cobra.CheckErr(viper.BindPFlags(flags))
}

// chyp8 start path/to/ROM -f window
func start(cmd *cobra.Command, args []string) error {
	logger := createLogger(viper.GetBool("debug"), viper.GetBool("quiet"))
	opts := options{
		rom:        args[0],
		frontend:   viper.GetString("frontend"),
		keyTimeout: viper.GetDuration("key-timeout"),
		steps:      viper.GetInt("steps"),
		scale:      viper.GetFloat64("scale"),
	}

	ctx := app.Context()

	var err error
	switch opts.frontend {
	case frontendTerminal:
		err = runTerminal(ctx, logger, opts)
	case frontendWindow:
		err = runWindow(ctx, logger, opts)
	case frontendHeadless:
		err = runHeadless(ctx, cmd, logger, opts)
	default:
		return fmt.Errorf("unknown frontend %q", opts.frontend)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		logger.Info("Emulation cancelled")
		return nil
	case errors.Is(err, errHalted):
		return err
	}

	logger.Error("Emulation failed", log.String("rom", opts.rom), log.Err(err))
	return errHalted
}

// newEMU creates a machine for the frontend devices and loads the ROM.
func newEMU(logger *log.Logger, opts options, input cpu.Input, output cpu.Output) (*cpu.EMU, error) {
	emu := cpu.NewEMU(input, output, cpu.WithLogger(logger))
	if err := emu.LoadROM(opts.rom); err != nil {
		return nil, err
	}
	logger.Debug("ROM loaded", log.String("rom", opts.rom), log.String("frontend", opts.frontend))
	return emu, nil
}

func interactiveSession(logger *log.Logger, emu *cpu.EMU, keys *keypad.Buffer) *driver.Session {
	return &driver.Session{
		EMU:      emu,
		Keys:     keys,
		Logger:   logger,
		Interval: driver.StepInterval,
	}
}
