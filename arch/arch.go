// Package arch defines the CHIP-8 instruction set and memory map along
// with some related helper functions.
package arch

// Memory map.
const (
	MemorySize     = 0x1000                    // Total addressable memory.
	MaxAddress     = MemorySize - 1            // Highest valid address.
	ProgramStart   = 0x200                     // Load and entry address for programs.
	MaxProgramSize = MemorySize - ProgramStart // Largest program that fits in memory.
	FontStart      = 0x000                     // Address of the first font glyph.
	GlyphSize      = 5                         // Bytes per font glyph.
)

// Machine dimensions.
const (
	RegisterCount   = 16 // General purpose registers V0-VF.
	FlagRegister    = 0xF
	StackDepth      = 16 // Maximum number of nested calls.
	KeyCount        = 16 // Keys on the hexadecimal keypad.
	DisplayWidth    = 64
	DisplayHeight   = 32
	TimerHz         = 60 // Delay/sound timer and display refresh rate.
	InstructionSize = 2
)

// Font holds the sprites for the hexadecimal digits 0-F. It is
// copied to FontStart when a machine is created.
var Font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// GlyphAddress returns the address of the font sprite for the low
// nibble of digit.
func GlyphAddress(digit byte) uint16 {
	return FontStart + uint16(digit&0xf)*GlyphSize
}
