package arch

import "strings"

// Op identifies one of the decoded operations.
type Op int

// Known operations. The comment holds the instruction word pattern.
const (
	Unknown Op = iota // No pattern matched.
	SYS               // 0NNN
	CLS               // 00E0
	RET               // 00EE
	JP                // 1NNN
	CALL              // 2NNN
	SE                // 3XNN
	SNE               // 4XNN
	SEV               // 5XY0
	LD                // 6XNN
	ADD               // 7XNN
	LDV               // 8XY0
	OR                // 8XY1
	AND               // 8XY2
	XOR               // 8XY3
	ADDV              // 8XY4
	SUB               // 8XY5
	SHR               // 8XY6
	SUBN              // 8XY7
	SHL               // 8XYE
	SNEV              // 9XY0
	LDI               // ANNN
	JPV0              // BNNN
	RND               // CXNN
	DRW               // DXYN
	SKP               // EX9E
	SKNP              // EXA1
	LDVDT             // FX07
	LDVK              // FX0A
	LDDTV             // FX15
	LDSTV             // FX18
	ADDI              // FX1E
	LDF               // FX29
	LDB               // FX33
	LDIV              // FX55
	LDVI              // FX65

	opCount
)

// opInfo describes how an operation is matched and printed.
type opInfo struct {
	name    string // Assembler mnemonic.
	pattern string // Instruction word pattern.
	mask    uint16 // Bits that identify the operation.
	value   uint16 // Expected value of the masked bits.
}

var opTable = [opCount]opInfo{
	Unknown: {"???", "????", 0x0000, 0xFFFF},
	SYS:     {"SYS", "0NNN", 0xF000, 0x0000},
	CLS:     {"CLS", "00E0", 0xFFFF, 0x00E0},
	RET:     {"RET", "00EE", 0xFFFF, 0x00EE},
	JP:      {"JP", "1NNN", 0xF000, 0x1000},
	CALL:    {"CALL", "2NNN", 0xF000, 0x2000},
	SE:      {"SE", "3XNN", 0xF000, 0x3000},
	SNE:     {"SNE", "4XNN", 0xF000, 0x4000},
	SEV:     {"SE", "5XY0", 0xF00F, 0x5000},
	LD:      {"LD", "6XNN", 0xF000, 0x6000},
	ADD:     {"ADD", "7XNN", 0xF000, 0x7000},
	LDV:     {"LD", "8XY0", 0xF00F, 0x8000},
	OR:      {"OR", "8XY1", 0xF00F, 0x8001},
	AND:     {"AND", "8XY2", 0xF00F, 0x8002},
	XOR:     {"XOR", "8XY3", 0xF00F, 0x8003},
	ADDV:    {"ADD", "8XY4", 0xF00F, 0x8004},
	SUB:     {"SUB", "8XY5", 0xF00F, 0x8005},
	SHR:     {"SHR", "8XY6", 0xF00F, 0x8006},
	SUBN:    {"SUBN", "8XY7", 0xF00F, 0x8007},
	SHL:     {"SHL", "8XYE", 0xF00F, 0x800E},
	SNEV:    {"SNE", "9XY0", 0xF00F, 0x9000},
	LDI:     {"LD", "ANNN", 0xF000, 0xA000},
	JPV0:    {"JP", "BNNN", 0xF000, 0xB000},
	RND:     {"RND", "CXNN", 0xF000, 0xC000},
	DRW:     {"DRW", "DXYN", 0xF000, 0xD000},
	SKP:     {"SKP", "EX9E", 0xF0FF, 0xE09E},
	SKNP:    {"SKNP", "EXA1", 0xF0FF, 0xE0A1},
	LDVDT:   {"LD", "FX07", 0xF0FF, 0xF007},
	LDVK:    {"LD", "FX0A", 0xF0FF, 0xF00A},
	LDDTV:   {"LD", "FX15", 0xF0FF, 0xF015},
	LDSTV:   {"LD", "FX18", 0xF0FF, 0xF018},
	ADDI:    {"ADD", "FX1E", 0xF0FF, 0xF01E},
	LDF:     {"LD", "FX29", 0xF0FF, 0xF029},
	LDB:     {"LD", "FX33", 0xF0FF, 0xF033},
	LDIV:    {"LD", "FX55", 0xF0FF, 0xF055},
	LDVI:    {"LD", "FX65", 0xF0FF, 0xF065},
}

// byNibble groups the operations by the high nibble of their
// instruction word. Within a group, exact matches come before the
// catch-all SYS so that CLS and RET take precedence.
var byNibble [16][]Op

func init() {
	for op := SYS; op < opCount; op++ {
		n := opTable[op].value >> 12
		byNibble[n] = append(byNibble[n], op)
	}

	group := byNibble[0]
	for i, op := range group {
		if op == SYS {
			byNibble[0] = append(append(group[:i:i], group[i+1:]...), SYS)
			break
		}
	}
}

// Name returns the assembler mnemonic for the given operation.
// Returns false if the operation is not recognized.
func Name(op Op) (string, bool) {
	if op <= Unknown || op >= opCount {
		return "", false
	}
	return opTable[op].name, true
}

// Pattern returns the instruction word pattern for the given operation,
// e.g. "8XY4". Returns "" if the operation is not recognized.
func Pattern(op Op) string {
	if op <= Unknown || op >= opCount {
		return ""
	}
	return opTable[op].pattern
}

// Lookup returns the operation with the given word pattern.
// Returns false if the pattern is not recognized.
func Lookup(pattern string) (Op, bool) {
	pattern = strings.ToUpper(pattern)
	for op := SYS; op < opCount; op++ {
		if opTable[op].pattern == pattern {
			return op, true
		}
	}
	return Unknown, false
}

// Ops returns all known operations in table order.
func Ops() []Op {
	ops := make([]Op, 0, opCount-1)
	for op := SYS; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

func (op Op) String() string {
	if name, ok := Name(op); ok {
		return name + " " + opTable[op].pattern
	}
	return "unknown"
}
