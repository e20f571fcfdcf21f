package vm

import (
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
)

// Step fetches, decodes and executes a single instruction. It returns
// the executed instruction.
//
// While the CPU waits for a key press nothing is executed and Step returns
// a zero instruction. Once the machine has faulted, every call returns the
// same *Fault until Reset or Load is called.
func (m *Machine) Step() (arch.Instruction, error) {
	if m.fault != nil {
		return m.fault.Instruction, m.fault
	}

	if m.keypad.waiting {
		return arch.Instruction{}, nil
	}

	pc := m.regs.PC
	word, err := m.memory.U16(pc)
	if err != nil {
		return arch.Instruction{}, m.halt(pc, arch.Instruction{}, err)
	}

	instr := arch.Decode(word)

	if m.trace != nil {
		m.trace(pc, instr)
	}

	if err := m.exec(pc, instr); err != nil {
		return instr, m.halt(pc, instr, err)
	}

	m.cycles++
	return instr, nil
}

// exec executes the instruction at pc. Every failure is detected before
// any state is modified, so a faulting instruction leaves the machine as
// it was before the instruction.
func (m *Machine) exec(pc uint16, in arch.Instruction) error {
	r := &m.regs
	q := &m.quirks
	next := pc + arch.InstructionSize

	// Operands are read up front so that VF, when written as a flag,
	// is always written last.
	vx := r.V[in.X]
	vy := r.V[in.Y]

	switch in.Op {
	case arch.SYS:
		// Machine code routines are not supported.

	case arch.CLS:
		m.display.Clear()

	case arch.RET:
		addr, err := m.stack.Pop()
		if err != nil {
			return err
		}
		next = addr

	case arch.JP:
		next = in.NNN

	case arch.CALL:
		if err := m.stack.Push(next); err != nil {
			return err
		}
		next = in.NNN

	case arch.SE:
		if vx == in.NN {
			next += arch.InstructionSize
		}

	case arch.SNE:
		if vx != in.NN {
			next += arch.InstructionSize
		}

	case arch.SEV:
		if vx == vy {
			next += arch.InstructionSize
		}

	case arch.SNEV:
		if vx != vy {
			next += arch.InstructionSize
		}

	case arch.LD:
		r.V[in.X] = in.NN

	case arch.ADD:
		r.V[in.X] = vx + in.NN

	case arch.LDV:
		r.V[in.X] = vy

	case arch.OR:
		r.V[in.X] = vx | vy
		m.resetFlag()

	case arch.AND:
		r.V[in.X] = vx & vy
		m.resetFlag()

	case arch.XOR:
		r.V[in.X] = vx ^ vy
		m.resetFlag()

	case arch.ADDV:
		sum := int(vx) + int(vy)
		r.V[in.X] = byte(sum)
		r.V[arch.FlagRegister] = flag(sum > 0xff)

	case arch.SUB:
		r.V[in.X] = vx - vy
		r.V[arch.FlagRegister] = flag(vx >= vy)

	case arch.SUBN:
		r.V[in.X] = vy - vx
		r.V[arch.FlagRegister] = flag(vy >= vx)

	case arch.SHR:
		src := vx
		if q.ShiftUsesVY {
			src = vy
		}
		r.V[in.X] = src >> 1
		r.V[arch.FlagRegister] = src & 1

	case arch.SHL:
		src := vx
		if q.ShiftUsesVY {
			src = vy
		}
		r.V[in.X] = src << 1
		r.V[arch.FlagRegister] = src >> 7

	case arch.LDI:
		r.I = in.NNN

	case arch.JPV0:
		next = (in.NNN + uint16(r.V[0])) & arch.MaxAddress

	case arch.RND:
		r.V[in.X] = byte(m.rng.Intn(256)) & in.NN

	case arch.DRW:
		var buf [15]byte
		sprite := buf[:in.N]
		if err := m.memory.Read(r.I, sprite); err != nil {
			return err
		}
		collision := m.display.Draw(vx, vy, sprite, q.ClipSprites)
		r.V[arch.FlagRegister] = flag(collision)

	case arch.SKP:
		if m.keypad.Pressed(vx) {
			next += arch.InstructionSize
		}

	case arch.SKNP:
		if !m.keypad.Pressed(vx) {
			next += arch.InstructionSize
		}

	case arch.LDVDT:
		r.V[in.X] = m.timers.Delay

	case arch.LDVK:
		// PC stays on this instruction until SetKey resumes the CPU.
		m.keypad.wait(in.X)
		next = pc

	case arch.LDDTV:
		m.timers.Delay = vx

	case arch.LDSTV:
		m.timers.Sound = vx

	case arch.ADDI:
		sum := r.I + uint16(vx)
		r.I = sum & arch.MaxAddress
		if q.IndexOverflowFlag {
			r.V[arch.FlagRegister] = flag(sum > arch.MaxAddress)
		}

	case arch.LDF:
		r.I = arch.GlyphAddress(vx)

	case arch.LDB:
		bcd := [3]byte{vx / 100, vx / 10 % 10, vx % 10}
		if err := m.memory.Write(r.I, bcd[:]); err != nil {
			return err
		}

	case arch.LDIV:
		if err := m.memory.Write(r.I, r.V[:in.X+1]); err != nil {
			return err
		}
		m.advanceIndex(in.X)

	case arch.LDVI:
		if err := m.memory.Read(r.I, r.V[:in.X+1]); err != nil {
			return err
		}
		m.advanceIndex(in.X)

	default:
		return ErrUnknownOpcode
	}

	r.PC = next
	return nil
}

// resetFlag clears VF after a logic instruction if the quirk asks for it.
func (m *Machine) resetFlag() {
	if m.quirks.VFReset {
		m.regs.V[arch.FlagRegister] = 0
	}
}

// advanceIndex moves I past the registers stored or loaded by FX55 and
// FX65 if the quirk asks for it.
func (m *Machine) advanceIndex(x int) {
	if m.quirks.LoadStoreIncrementsI {
		m.regs.I = (m.regs.I + uint16(x) + 1) & arch.MaxAddress
	}
}

// halt stops the machine with a fault for the given instruction.
func (m *Machine) halt(pc uint16, instr arch.Instruction, err error) error {
	m.fault = NewFault(pc, instr, err)

	m.logger.Error("Machine halted",
		log.Hex("pc", pc),
		log.String("instruction", instr.String()),
		log.Err(err))

	return m.fault
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
