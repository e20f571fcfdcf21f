package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/clock"
	"github.com/hexaflex/c8/devices"
	"github.com/hexaflex/c8/devices/beeper"
	"github.com/hexaflex/c8/devices/terminal"
	"github.com/hexaflex/c8/devices/wavrec"
)

// ttyPath is the terminal the terminal frontend draws on.
const ttyPath = "/dev/tty"

// runTerminal runs the program on the controlling terminal until the
// user presses ESC, the process is interrupted or the machine fails.
// Breakpoints are not supported here.
func runTerminal(logger *log.Logger, config *Config) error {
	trace := func(pc uint16, instr arch.Instruction) {
		if config.PrintTrace {
			printTrace(pc, instr)
		}
	}

	ctrl, err := NewController(logger, config, trace)
	if err != nil {
		return err
	}

	if err = ctrl.Load(); err != nil {
		return err
	}

	tty := terminal.New(logger, ttyPath)

	var dm devices.Map
	dm.Connect(tty)

	if !config.Mute {
		dm.Connect(beeper.New())
	}

	if config.WavFile != "" {
		dm.Connect(wavrec.New(config.WavFile))
	}

	if err = dm.Startup(logger, ctrl.SetKey); err != nil {
		_ = dm.Shutdown(logger)
		return err
	}

	startStatsView(logger, config.StatsView)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		select {
		case <-tty.Quit():
			cancel()
		case <-ctx.Done():
		}
	}()

	err = ctrl.Run(ctx, func(clock.Report) {
		state := ctrl.State()
		dm.Update(&state)
	})

	if serr := dm.Shutdown(logger); serr != nil {
		logger.Error("Device shutdown failed", log.Err(serr))
	}

	if merr := writeMemViz(config.MemViz, ctrl.Machine()); merr != nil {
		logger.Error("Writing memory graph failed", log.Err(merr))
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
