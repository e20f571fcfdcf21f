// Package clock paces a machine in real time. It interleaves CPU cycles at
// a configurable rate with the fixed 60 Hz timer and display tick, so timer
// behaviour does not depend on the CPU rate.
package clock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8/arch"
)

// Known CPU rate limits.
const (
	DefaultCPUHz = 700
	MaxCPUHz     = 100000
)

// TickPeriod is the interval between timer and display ticks.
const TickPeriod = time.Second / arch.TimerHz

// MaxElapsed caps the time Run feeds into a single step, so a stalled
// host does not make the machine race to catch up.
const MaxElapsed = 250 * time.Millisecond

// Timing selects how long a CPU cycle takes.
type Timing int

// Known timing modes.
const (
	FixedRate Timing = iota // Every instruction takes 1/CPUHz seconds.
	VIPTiming               // Instructions take as long as on the COSMAC VIP.
)

// ParseTiming returns the named timing mode.
func ParseTiming(name string) (Timing, error) {
	switch strings.ToLower(name) {
	case "", "fixed":
		return FixedRate, nil
	case "vip":
		return VIPTiming, nil
	}
	return 0, errors.Errorf("unknown timing mode %q", name)
}

func (t Timing) String() string {
	switch t {
	case FixedRate:
		return "fixed"
	case VIPTiming:
		return "vip"
	}
	return "unknown"
}

// Config defines scheduler settings.
type Config struct {
	CPUHz  int    // Instructions per second in FixedRate mode. 0 selects DefaultCPUHz.
	Timing Timing // Cycle timing mode.
}

// Validate returns an error if the configuration can not be used.
func (c Config) Validate() error {
	if c.CPUHz < 0 || c.CPUHz > MaxCPUHz {
		return errors.Errorf("cpu rate %d Hz is out of range [1, %d]", c.CPUHz, MaxCPUHz)
	}

	switch c.Timing {
	case FixedRate, VIPTiming:
	default:
		return errors.Errorf("unknown timing mode %d", c.Timing)
	}

	return nil
}

// Machine defines the machine operations driven by the scheduler.
type Machine interface {
	// Step executes a single instruction. It returns a zero instruction
	// while the CPU waits for a key press.
	Step() (arch.Instruction, error)

	// Tick advances the delay and sound timers.
	Tick()

	// SetKey sets the state of a keypad key.
	SetKey(key int, pressed bool)
}

// Report describes the work done by a single scheduler step.
type Report struct {
	Cycles  int  // Instructions executed.
	Ticks   int  // Timer ticks performed.
	Refresh bool // The display should be redrawn.
}

// Scheduler drives a machine from elapsed wall clock time. All access
// to the machine goes through the scheduler's lock, which makes it safe
// to use from multiple goroutines.
type Scheduler struct {
	mu      sync.Mutex
	m       Machine
	timing  Timing
	period  time.Duration // Duration of one cycle in FixedRate mode.
	cpuAcc  time.Duration // Time owed to the CPU.
	tickAcc time.Duration // Time owed to the timers.
	cycles  uint64
	ticks   uint64
}

// New creates a new scheduler for the given machine.
func New(m Machine, cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hz := cfg.CPUHz
	if hz == 0 {
		hz = DefaultCPUHz
	}

	return &Scheduler{
		m:      m,
		timing: cfg.Timing,
		period: time.Second / time.Duration(hz),
	}, nil
}

// Step advances the machine by the given amount of real time. CPU cycles
// and timer ticks are executed in the order in which they fall due.
//
// The first machine error stops the step and is returned along with the
// work done up to that point.
func (s *Scheduler) Step(elapsed time.Duration) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r Report
	if elapsed > 0 {
		s.cpuAcc += elapsed
		s.tickAcc += elapsed
	}

	for {
		cpuDue, cpuSurplus := s.cpuDue()
		tickSurplus := s.tickAcc - TickPeriod
		tickDue := tickSurplus >= 0

		switch {
		case tickDue && (!cpuDue || tickSurplus > cpuSurplus):
			s.m.Tick()
			s.tickAcc -= TickPeriod
			s.ticks++
			r.Ticks++

		case cpuDue:
			instr, err := s.m.Step()
			if err != nil {
				r.Refresh = r.Ticks > 0
				return r, err
			}

			s.cpuAcc -= s.cost(instr)
			if instr.Valid() {
				s.cycles++
				r.Cycles++
			}

		default:
			r.Refresh = r.Ticks > 0
			return r, nil
		}
	}
}

// cpuDue returns true if the CPU has a cycle to run, along with the
// time by which that cycle is overdue.
func (s *Scheduler) cpuDue() (bool, time.Duration) {
	if s.timing == VIPTiming {
		return s.cpuAcc > 0, s.cpuAcc
	}
	surplus := s.cpuAcc - s.period
	return surplus >= 0, surplus
}

// cost returns the time taken by the given instruction.
func (s *Scheduler) cost(instr arch.Instruction) time.Duration {
	if s.timing != VIPTiming {
		return s.period
	}
	if !instr.Valid() {
		// The VIP polls the keypad while it waits.
		return arch.Cost(arch.LDVK)
	}
	return arch.Cost(instr.Op)
}

// Run steps the machine once per tick period until the context is done or
// the machine fails. The frame callback, if set, is called after every step
// with the scheduler unlocked.
func (s *Scheduler) Run(ctx context.Context, frame func(Report)) error {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			if elapsed > MaxElapsed {
				elapsed = MaxElapsed
			}

			r, err := s.Step(elapsed)
			if frame != nil {
				frame(r)
			}
			if err != nil {
				return err
			}
		}
	}
}

// Do calls f while holding the scheduler lock. Use it to inspect or
// modify the machine from another goroutine.
func (s *Scheduler) Do(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f()
}

// SetKey sets the state of a keypad key.
func (s *Scheduler) SetKey(key int, pressed bool) {
	s.mu.Lock()
	s.m.SetKey(key, pressed)
	s.mu.Unlock()
}

// Reset discards any time owed to the machine and clears the counters.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.cpuAcc = 0
	s.tickAcc = 0
	s.cycles = 0
	s.ticks = 0
	s.mu.Unlock()
}

// Cycles returns the number of instructions executed.
func (s *Scheduler) Cycles() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

// Ticks returns the number of timer ticks performed.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
