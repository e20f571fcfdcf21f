package terminal

import (
	"strings"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/vm"
)

// Escape sequences.
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	resetAttrs  = "\x1b[0m"
)

// Half block characters, indexed by top<<1 | bottom.
var blocks = [4]string{" ", "▄", "▀", "█"}

// render draws the frame with one character cell for every two pixel rows.
// Lines end in CRLF since output post-processing is off in raw mode.
func render(f *vm.Frame) string {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + (arch.DisplayWidth*3+2)*arch.DisplayHeight/2)
	sb.WriteString(cursorHome)

	for y := 0; y < arch.DisplayHeight; y += 2 {
		for x := 0; x < arch.DisplayWidth; x++ {
			i := 0
			if f[y][x] {
				i |= 2
			}
			if f[y+1][x] {
				i |= 1
			}
			sb.WriteString(blocks[i])
		}
		sb.WriteString("\r\n")
	}

	return sb.String()
}
