package vm

import (
	"strings"

	"github.com/pkg/errors"
)

// Quirks selects between behaviours that differ across historical
// interpreters. The zero value is the modern behaviour most programs
// written after the 1990s expect.
type Quirks struct {
	VFReset              bool // 8XY1, 8XY2 and 8XY3 clear VF.
	ShiftUsesVY          bool // 8XY6 and 8XYE shift VY into VX instead of shifting VX.
	LoadStoreIncrementsI bool // FX55 and FX65 leave I pointing past the last register.
	IndexOverflowFlag    bool // FX1E sets VF when I+VX leaves the 12-bit range.
	ClipSprites          bool // Sprites are clipped at the display edges instead of wrapping.
}

// ModernQuirks returns the default quirk set.
func ModernQuirks() Quirks {
	return Quirks{}
}

// VIPQuirks returns the behaviour of the COSMAC VIP interpreter.
func VIPQuirks() Quirks {
	return Quirks{
		VFReset:              true,
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
		ClipSprites:          true,
	}
}

// ParseQuirks returns the named quirk preset.
func ParseQuirks(name string) (Quirks, error) {
	switch strings.ToLower(name) {
	case "", "modern":
		return ModernQuirks(), nil
	case "vip", "cosmac":
		return VIPQuirks(), nil
	}
	return Quirks{}, errors.Errorf("unknown quirk preset %q", name)
}
