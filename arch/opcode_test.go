package arch

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		op   Op
		text string
	}{
		{0x00E0, CLS, "CLS"},
		{0x00EE, RET, "RET"},
		{0x0123, SYS, "SYS $123"},
		{0x1ABC, JP, "JP $ABC"},
		{0x2ABC, CALL, "CALL $ABC"},
		{0x3A12, SE, "SE VA, $12"},
		{0x4A12, SNE, "SNE VA, $12"},
		{0x5AB0, SEV, "SE VA, VB"},
		{0x6A12, LD, "LD VA, $12"},
		{0x7A12, ADD, "ADD VA, $12"},
		{0x8AB0, LDV, "LD VA, VB"},
		{0x8AB1, OR, "OR VA, VB"},
		{0x8AB2, AND, "AND VA, VB"},
		{0x8AB3, XOR, "XOR VA, VB"},
		{0x8AB4, ADDV, "ADD VA, VB"},
		{0x8AB5, SUB, "SUB VA, VB"},
		{0x8AB6, SHR, "SHR VA, VB"},
		{0x8AB7, SUBN, "SUBN VA, VB"},
		{0x8ABE, SHL, "SHL VA, VB"},
		{0x9AB0, SNEV, "SNE VA, VB"},
		{0xAABC, LDI, "LD I, $ABC"},
		{0xBABC, JPV0, "JP V0, $ABC"},
		{0xCA12, RND, "RND VA, $12"},
		{0xDAB5, DRW, "DRW VA, VB, $5"},
		{0xEA9E, SKP, "SKP VA"},
		{0xEAA1, SKNP, "SKNP VA"},
		{0xFA07, LDVDT, "LD VA, DT"},
		{0xFA0A, LDVK, "LD VA, K"},
		{0xFA15, LDDTV, "LD DT, VA"},
		{0xFA18, LDSTV, "LD ST, VA"},
		{0xFA1E, ADDI, "ADD I, VA"},
		{0xFA29, LDF, "LD F, VA"},
		{0xFA33, LDB, "LD B, VA"},
		{0xFA55, LDIV, "LD [I], VA"},
		{0xFA65, LDVI, "LD VA, [I]"},
		{0xFFFF, Unknown, "DW $FFFF"},
		{0x5AB1, Unknown, "DW $5AB1"},
		{0x8AB8, Unknown, "DW $8AB8"},
		{0x9AB1, Unknown, "DW $9AB1"},
		{0xEA00, Unknown, "DW $EA00"},
		{0xFA00, Unknown, "DW $FA00"},
	}

	for _, tt := range tests {
		instr := Decode(tt.word)
		assert.Equal(t, tt.op, instr.Op, tt.text)
		assert.Equal(t, tt.text, instr.String())
		assert.Equal(t, tt.word, instr.Word)
	}
}

func TestDecodeFields(t *testing.T) {
	instr := Decode(0xD12F)
	assert.Equal(t, DRW, instr.Op)
	assert.Equal(t, 1, instr.X)
	assert.Equal(t, 2, instr.Y)
	assert.Equal(t, byte(0xF), instr.N)
	assert.Equal(t, byte(0x2F), instr.NN)
	assert.Equal(t, uint16(0x12F), instr.NNN)
}

// TestDecodeTable checks every possible instruction word against the
// operation table.
func TestDecodeTable(t *testing.T) {
	var counts [opCount]int

	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)
		instr := Decode(word)
		counts[instr.Op]++

		if instr.Op == Unknown {
			for _, op := range Ops() {
				info := opTable[op]
				if word&info.mask == info.value {
					t.Fatalf("%04x: decoded as unknown but matches %v", word, op)
				}
			}
			continue
		}

		info := opTable[instr.Op]
		if word&info.mask != info.value {
			t.Fatalf("%04x: decoded as %v which does not match", word, instr.Op)
		}
	}

	assert.Equal(t, 1, counts[CLS])
	assert.Equal(t, 1, counts[RET])
	assert.Equal(t, 0x1000-2, counts[SYS])
	assert.Equal(t, 0x1000, counts[JP])
	assert.Equal(t, 0x100, counts[ADDV])
	assert.Equal(t, 0x10, counts[LDVK])

	for _, op := range Ops() {
		assert.True(t, counts[op] > 0, op.String())
	}
}

func TestOpNames(t *testing.T) {
	assert.Equal(t, 35, len(Ops()))

	for _, op := range Ops() {
		name, ok := Name(op)
		assert.True(t, ok)
		assert.True(t, name != "")

		found, ok := Lookup(Pattern(op))
		assert.True(t, ok)
		assert.Equal(t, op, found)
	}

	_, ok := Name(Unknown)
	assert.False(t, ok)
	_, ok = Lookup("ZZZZ")
	assert.False(t, ok)

	op, ok := Lookup("8xye")
	assert.True(t, ok)
	assert.Equal(t, SHL, op)
}

func TestControlFlow(t *testing.T) {
	assert.True(t, Decode(0x1200).Jumps())
	assert.True(t, Decode(0x00EE).Jumps())
	assert.False(t, Decode(0x6000).Jumps())
	assert.True(t, Decode(0xE09E).Skips())
	assert.False(t, Decode(0x00E0).Skips())
}

func TestCost(t *testing.T) {
	assert.Equal(t, 27*time.Microsecond, Cost(LD))
	assert.Equal(t, 22734*time.Microsecond, Cost(DRW))
	assert.Equal(t, time.Duration(0), Cost(Unknown))

	for _, op := range Ops() {
		assert.True(t, Cost(op) > 0, op.String())
	}
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(0), GlyphAddress(0))
	assert.Equal(t, uint16(0x4B), GlyphAddress(0xF))
	assert.Equal(t, uint16(5), GlyphAddress(0x31))
	assert.Equal(t, 80, len(Font))
}
