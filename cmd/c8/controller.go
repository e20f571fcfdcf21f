package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/clock"
	"github.com/hexaflex/c8/devices"
	"github.com/hexaflex/c8/rom"
	"github.com/hexaflex/c8/vm"
)

// errBreakpoint stops a scheduler step when execution reaches a breakpoint.
var errBreakpoint = errors.New("breakpoint")

// breakMachine stops the scheduler before an instruction with a breakpoint.
type breakMachine struct {
	*vm.Machine
	image   *rom.Image
	enabled func() bool
	resume  bool // Skip the check once, to continue from a breakpoint.
}

func (b *breakMachine) Step() (arch.Instruction, error) {
	if !b.resume && b.image != nil && b.enabled() && !b.Waiting() && !b.Halted() &&
		b.image.HasBreakpoint(b.PC()) {
		return arch.Instruction{}, errBreakpoint
	}

	b.resume = false
	return b.Machine.Step()
}

// Controller controls the execution of a machine.
type Controller struct {
	logger  *log.Logger
	config  *Config
	machine *breakMachine
	sched   *clock.Scheduler
	start   time.Time
	base    uint64 // Scheduler cycle count when the run started.
	running bool
}

// NewController creates a new controller. The trace function, if set,
// is called for every executed instruction.
func NewController(logger *log.Logger, config *Config, trace vm.TraceFunc) (*Controller, error) {
	m := vm.New(vm.Config{
		Quirks: config.Quirks,
		Seed:   config.Seed,
		Logger: logger,
	})
	m.SetTrace(trace)

	c := &Controller{
		logger: logger,
		config: config,
	}

	c.machine = &breakMachine{
		Machine: m,
		enabled: func() bool { return c.config.Debug && !c.config.Terminal },
	}

	var err error
	if c.sched, err = clock.New(c.machine, config.Clock); err != nil {
		return nil, err
	}

	return c, nil
}

// Load (re)loads the image from disk and resets the machine.
func (c *Controller) Load() error {
	c.logger.Info("Loading image", log.String("path", c.config.Image))

	img, err := rom.LoadFile(c.config.Image)
	if err != nil {
		return err
	}

	for _, addr := range c.config.Breakpoints {
		img.SetBreakpoint(addr)
	}

	c.sched.Do(func() {
		err = c.machine.Load(img.Data)
		if err == nil {
			c.machine.image = img
			c.machine.resume = false
		}
	})
	if err != nil {
		return err
	}

	c.sched.Reset()
	c.base = 0
	c.start = time.Now()
	return nil
}

// Machine returns the machine being controlled. Use it only while the
// controller is stopped or from inside Do.
func (c *Controller) Machine() *vm.Machine {
	return c.machine.Machine
}

// Do calls f with exclusive access to the machine.
func (c *Controller) Do(f func(m *vm.Machine)) {
	c.sched.Do(func() { f(c.machine.Machine) })
}

// Running returns true if the machine is currently running.
func (c *Controller) Running() bool {
	return c.running
}

// Frequency returns the effective instruction rate in herz.
func (c *Controller) Frequency() float64 {
	if !c.running {
		return 0
	}
	return float64(c.sched.Cycles()-c.base) / time.Since(c.start).Seconds()
}

// ToggleRun starts or stops program execution.
func (c *Controller) ToggleRun() {
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *Controller) Start() {
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *Controller) Stop() {
	c.setRunning(false)
}

// Advance runs the machine for the given amount of real time. It does
// nothing while the controller is stopped. Reaching a breakpoint stops
// the controller.
func (c *Controller) Advance(elapsed time.Duration) (clock.Report, error) {
	if !c.running {
		return clock.Report{}, nil
	}

	r, err := c.sched.Step(elapsed)
	switch {
	case err == nil:
		return r, nil

	case errors.Is(err, errBreakpoint):
		c.Stop()
		c.logger.Info("Breakpoint reached", log.Hex("pc", c.pc()))
		return r, nil

	default:
		c.Stop()
		return r, err
	}
}

// Step performs a single instruction while the controller is stopped.
// Breakpoints at the current address are ignored.
func (c *Controller) Step() error {
	var err error

	c.sched.Do(func() {
		c.machine.resume = true
		_, err = c.machine.Step()
	})

	return err
}

// Run runs the machine in real time until the context is done or the
// machine fails. The frame callback is called once per tick period.
func (c *Controller) Run(ctx context.Context, frame func(clock.Report)) error {
	c.Start()
	defer c.Stop()
	return c.sched.Run(ctx, frame)
}

// SetKey sets the state of a keypad key.
func (c *Controller) SetKey(key int, pressed bool) {
	c.sched.SetKey(key, pressed)
}

// State returns the machine output for the devices.
func (c *Controller) State() devices.State {
	var s devices.State

	c.sched.Do(func() {
		s.Display = c.machine.Display()
		s.Sound = c.machine.SoundTimer()
	})

	s.Running = c.running
	return s
}

func (c *Controller) pc() uint16 {
	var pc uint16
	c.sched.Do(func() { pc = c.machine.PC() })
	return pc
}

// setRunning determines if the machine is running or is paused.
func (c *Controller) setRunning(v bool) {
	if v && !c.running {
		// Resuming from a breakpoint executes the instruction under it.
		c.sched.Do(func() { c.machine.resume = true })
	}

	c.running = v
	c.start = time.Now()
	c.base = c.sched.Cycles()
}
