package arch

import "fmt"

// Instruction defines a decoded instruction word.
type Instruction struct {
	Op   Op     // Decoded operation, Unknown if no pattern matched.
	Word uint16 // Raw instruction word.
	X    int    // Register index from bits 8-11.
	Y    int    // Register index from bits 4-7.
	N    byte   // 4-bit immediate.
	NN   byte   // 8-bit immediate.
	NNN  uint16 // 12-bit address.
}

// Decode maps an instruction word to its operation and operand fields.
// It never fails; words that match no pattern yield Op Unknown.
func Decode(word uint16) Instruction {
	instr := Instruction{
		Op:   Unknown,
		Word: word,
		X:    int(word>>8) & 0xf,
		Y:    int(word>>4) & 0xf,
		N:    byte(word & 0xf),
		NN:   byte(word),
		NNN:  word & 0xfff,
	}

	for _, op := range byNibble[word>>12] {
		if word&opTable[op].mask == opTable[op].value {
			instr.Op = op
			break
		}
	}

	return instr
}

// Valid returns true if the instruction decoded to a known operation.
func (i Instruction) Valid() bool {
	return i.Op != Unknown
}

// String returns the instruction in assembler syntax.
func (i Instruction) String() string {
	name, ok := Name(i.Op)
	if !ok {
		return fmt.Sprintf("DW $%04X", i.Word)
	}

	switch i.Op {
	case CLS, RET:
		return name
	case SYS, JP, CALL:
		return fmt.Sprintf("%s $%03X", name, i.NNN)
	case SE, SNE, LD, ADD, RND:
		return fmt.Sprintf("%s V%X, $%02X", name, i.X, i.NN)
	case SEV, SNEV, LDV, OR, AND, XOR, ADDV, SUB, SHR, SUBN, SHL:
		return fmt.Sprintf("%s V%X, V%X", name, i.X, i.Y)
	case LDI:
		return fmt.Sprintf("%s I, $%03X", name, i.NNN)
	case JPV0:
		return fmt.Sprintf("%s V0, $%03X", name, i.NNN)
	case DRW:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, i.X, i.Y, i.N)
	case SKP, SKNP:
		return fmt.Sprintf("%s V%X", name, i.X)
	case LDVDT:
		return fmt.Sprintf("%s V%X, DT", name, i.X)
	case LDVK:
		return fmt.Sprintf("%s V%X, K", name, i.X)
	case LDDTV:
		return fmt.Sprintf("%s DT, V%X", name, i.X)
	case LDSTV:
		return fmt.Sprintf("%s ST, V%X", name, i.X)
	case ADDI:
		return fmt.Sprintf("%s I, V%X", name, i.X)
	case LDF:
		return fmt.Sprintf("%s F, V%X", name, i.X)
	case LDB:
		return fmt.Sprintf("%s B, V%X", name, i.X)
	case LDIV:
		return fmt.Sprintf("%s [I], V%X", name, i.X)
	case LDVI:
		return fmt.Sprintf("%s V%X, [I]", name, i.X)
	}

	return name
}

// Jumps returns true if the instruction sets the program counter itself
// instead of advancing to the next instruction.
func (i Instruction) Jumps() bool {
	switch i.Op {
	case JP, CALL, RET, JPV0:
		return true
	}
	return false
}

// Skips returns true if the instruction conditionally skips the next one.
func (i Instruction) Skips() bool {
	switch i.Op {
	case SE, SNE, SEV, SNEV, SKP, SKNP:
		return true
	}
	return false
}
