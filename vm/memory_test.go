package vm

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/c8/arch"
)

func TestMemoryBounds(t *testing.T) {
	var mem Memory

	assert.NoError(t, mem.SetU8(0xfff, 0x12))
	v, err := mem.U8(0xfff)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x12), v)

	_, err = mem.U8(0x1000)
	assert.True(t, errors.Is(err, ErrMemoryFault))
	assert.True(t, errors.Is(mem.SetU8(0x1000, 1), ErrMemoryFault))

	_, err = mem.U16(0xfff)
	assert.True(t, errors.Is(err, ErrMemoryFault))
}

func TestMemoryWord(t *testing.T) {
	var mem Memory
	assert.NoError(t, mem.Write(0x200, []byte{0xab, 0xcd}))

	w, err := mem.U16(0x200)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xabcd), w)
}

func TestMemoryRange(t *testing.T) {
	var mem Memory

	assert.NoError(t, mem.Write(0xffe, []byte{1, 2}))
	assert.True(t, errors.Is(mem.Write(0xffe, []byte{1, 2, 3}), ErrMemoryFault))
	assert.NoError(t, mem.Write(0x1000, nil))

	p := make([]byte, 2)
	assert.NoError(t, mem.Read(0xffe, p))
	assert.True(t, bytes.Equal([]byte{1, 2}, p))
}

func TestStack(t *testing.T) {
	var s Stack

	for i := 0; i < arch.StackDepth; i++ {
		assert.NoError(t, s.Push(uint16(0x200+i*2)))
	}
	assert.True(t, errors.Is(s.Push(0x300), ErrStackOverflow))
	assert.Equal(t, arch.StackDepth, s.Depth())

	addr, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x21e), addr)

	s.Reset()
	_, err = s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, 0, s.Depth())
}

func TestLoad(t *testing.T) {
	m := New(Config{})

	assert.NoError(t, m.Load(make([]byte, arch.MaxProgramSize)))
	assert.Equal(t, uint16(arch.ProgramStart), m.PC())

	err := m.Load(make([]byte, arch.MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrLoad))

	font := make([]byte, len(arch.Font))
	assert.NoError(t, m.Peek(arch.FontStart, font))
	assert.True(t, bytes.Equal(arch.Font[:], font))
}

func TestReset(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x6a42, 0xa123, 0xf015, 0x00e0, 0x7a01)
	m := runTest(t, ct, 3)

	// Self-modifying writes are undone by a reset.
	assert.NoError(t, m.memory.SetU8(arch.ProgramStart, 0))

	m.Reset()
	assert.Equal(t, byte(0), m.V(0xa))
	assert.Equal(t, uint16(0), m.I())
	assert.Equal(t, byte(0), m.DelayTimer())
	assert.Equal(t, uint16(arch.ProgramStart), m.PC())
	assert.Equal(t, uint64(0), m.Cycles())

	step(t, m, 1)
	assert.Equal(t, byte(0x42), m.V(0xa))
}

func TestQuirkPresets(t *testing.T) {
	q, err := ParseQuirks("VIP")
	assert.NoError(t, err)
	assert.True(t, q == VIPQuirks())

	q, err = ParseQuirks("")
	assert.NoError(t, err)
	assert.True(t, q == ModernQuirks())

	_, err = ParseQuirks("schip")
	assert.Error(t, err)
}
