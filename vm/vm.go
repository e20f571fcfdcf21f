// Package vm implements the CHIP-8 interpreter core: memory, register
// file, display buffer, keypad, timers and the instruction executor.
package vm

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
)

// TraceFunc represents a callback handler for debug trace output.
// It is called for every instruction before it executes.
type TraceFunc func(pc uint16, instr arch.Instruction)

// Config defines machine settings.
type Config struct {
	Quirks Quirks      // Interpreter behaviour variants.
	Seed   int64       // Random number seed. 0 means seeded from the current time.
	Logger *log.Logger // Optional logger. Nil logs errors only.
}

// Machine holds the entire interpreter state. It is not safe for
// concurrent use; the clock package serializes access to it.
type Machine struct {
	memory  Memory
	regs    Registers
	stack   Stack
	display Display
	keypad  Keypad
	timers  Timers

	quirks  Quirks
	rng     *rand.Rand
	logger  *log.Logger
	trace   TraceFunc
	program []byte // Currently loaded program, reloaded on Reset.
	fault   *Fault // Non-nil while halted.
	cycles  uint64 // Instructions executed since the last reset.
}

// New creates a new machine with an empty program.
func New(cfg Config) *Machine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := cfg.Logger
	if logger == nil {
		lc := log.DefaultConfig()
		lc.Level = log.ErrorLevel
		logger = log.NewWithConfig(lc)
	}

	m := &Machine{
		quirks: cfg.Quirks,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}

	m.Reset()
	return m
}

// Load copies the given program into memory at the program start address
// and resets the machine. The machine is left untouched if the program
// does not fit.
func (m *Machine) Load(program []byte) error {
	if len(program) > arch.MaxProgramSize {
		return errors.Wrapf(ErrLoad, "%d bytes exceeds %d", len(program), arch.MaxProgramSize)
	}

	m.program = append(m.program[:0], program...)
	m.Reset()

	m.logger.Debug("Program loaded", log.Int("size", len(program)))
	return nil
}

// Reset restores the power-on state and reloads the current program.
// It clears a pending fault.
func (m *Machine) Reset() {
	m.memory = Memory{}
	copy(m.memory[arch.FontStart:], arch.Font[:])
	copy(m.memory[arch.ProgramStart:], m.program)

	m.regs = Registers{PC: arch.ProgramStart}
	m.stack.Reset()
	m.display.Clear()
	m.keypad = Keypad{}
	m.timers = Timers{}
	m.fault = nil
	m.cycles = 0
}

// SetTrace sets the debug trace handler. Pass nil to disable tracing.
func (m *Machine) SetTrace(fn TraceFunc) {
	m.trace = fn
}

// SetQuirks changes the interpreter behaviour.
func (m *Machine) SetQuirks(q Quirks) {
	m.quirks = q
}

// Quirks returns the active interpreter behaviour.
func (m *Machine) Quirks() Quirks {
	return m.quirks
}

// SetKey sets the state of keypad key 0-F. Indices outside that range are
// ignored. A press while the CPU waits for a key stores the key and resumes
// execution.
func (m *Machine) SetKey(key int, pressed bool) {
	if key < 0 || key >= arch.KeyCount {
		m.logger.Debug("Ignoring invalid key", log.Int("key", key))
		return
	}

	if !m.keypad.set(key, pressed) || !m.keypad.waiting {
		return
	}

	m.regs.V[m.keypad.target] = byte(key)
	m.regs.PC += arch.InstructionSize
	m.keypad.waiting = false
}

// Key returns true if the given key is held down.
func (m *Machine) Key(key int) bool {
	return m.keypad.Pressed(byte(key))
}

// Tick advances the delay and sound timers by one 60 Hz period.
func (m *Machine) Tick() {
	m.timers.Tick()
}

// Waiting returns true while the CPU is suspended waiting for a key press.
func (m *Machine) Waiting() bool {
	return m.keypad.Waiting()
}

// Halted returns true if the machine stopped on a fault.
func (m *Machine) Halted() bool {
	return m.fault != nil
}

// Fault returns the fault that halted the machine, or nil.
func (m *Machine) Fault() *Fault {
	return m.fault
}

// Cycles returns the number of instructions executed since the last reset.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// V returns the value of register Vx.
func (m *Machine) V(x int) byte {
	return m.regs.V[x&0xf]
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.regs.I
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.regs.PC
}

// Registers returns a copy of the register file.
func (m *Machine) Registers() Registers {
	return m.regs
}

// Stack returns the return addresses on the call stack, bottom first.
func (m *Machine) Stack() []uint16 {
	return m.stack.Frames()
}

// StackDepth returns the number of addresses on the call stack.
func (m *Machine) StackDepth() int {
	return m.stack.Depth()
}

// Peek reads len(p) bytes from memory at the given address into p.
func (m *Machine) Peek(addr uint16, p []byte) error {
	return m.memory.Read(addr, p)
}

// Display returns a copy of the display buffer.
func (m *Machine) Display() Frame {
	return m.display.Frame()
}

// Pixel returns the state of the given display pixel.
func (m *Machine) Pixel(x, y int) bool {
	return m.display.Pixel(x, y)
}

// DelayTimer returns the delay timer value.
func (m *Machine) DelayTimer() byte {
	return m.timers.Delay
}

// SoundTimer returns the sound timer value.
func (m *Machine) SoundTimer() byte {
	return m.timers.Sound
}

// Tone returns true while the host should play the tone.
func (m *Machine) Tone() bool {
	return m.timers.Tone()
}
