package vm

import "github.com/hexaflex/c8/arch"

// Memory defines the machine's memory bank. All accessors are bounds
// checked against the 12-bit address space.
type Memory [arch.MemorySize]byte

// U8 returns the byte at the given address.
func (m *Memory) U8(addr uint16) (byte, error) {
	if addr > arch.MaxAddress {
		return 0, memoryFault(int(addr))
	}
	return m[addr], nil
}

// SetU8 sets the byte at the given address.
func (m *Memory) SetU8(addr uint16, value byte) error {
	if addr > arch.MaxAddress {
		return memoryFault(int(addr))
	}
	m[addr] = value
	return nil
}

// U16 returns the big-endian word at the given address.
func (m *Memory) U16(addr uint16) (uint16, error) {
	if int(addr)+1 > arch.MaxAddress {
		return 0, memoryFault(int(addr) + 1)
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

// Write writes len(p) bytes from p into memory, starting at the given address.
// Nothing is written if the range does not fit.
func (m *Memory) Write(addr uint16, p []byte) error {
	if err := m.check(addr, len(p)); err != nil {
		return err
	}
	copy(m[addr:], p)
	return nil
}

// Read reads len(p) bytes from memory into p, starting at the given address.
func (m *Memory) Read(addr uint16, p []byte) error {
	if err := m.check(addr, len(p)); err != nil {
		return err
	}
	copy(p, m[addr:])
	return nil
}

// check returns a memory fault for the first address of the range
// [addr, addr+size) that lies outside of memory.
func (m *Memory) check(addr uint16, size int) error {
	if size == 0 {
		return nil
	}
	if int(addr) > arch.MaxAddress {
		return memoryFault(int(addr))
	}
	if end := int(addr) + size - 1; end > arch.MaxAddress {
		return memoryFault(arch.MaxAddress + 1)
	}
	return nil
}
