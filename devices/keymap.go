package devices

import "unicode"

// KeyLayout holds the host keys for the keypad, one row per line of the
// usual 4x4 arrangement:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
const KeyLayout = "1234qwerasdfzxcv"

// keypadOrder lists the keypad key for each character in KeyLayout.
var keypadOrder = [len(KeyLayout)]int{
	0x1, 0x2, 0x3, 0xc,
	0x4, 0x5, 0x6, 0xd,
	0x7, 0x8, 0x9, 0xe,
	0xa, 0x0, 0xb, 0xf,
}

// KeyForRune returns the keypad key mapped to the given host key.
func KeyForRune(r rune) (int, bool) {
	r = unicode.ToLower(r)
	for i, v := range KeyLayout {
		if v == r {
			return keypadOrder[i], true
		}
	}
	return 0, false
}

// RuneForKey returns the host key mapped to the given keypad key.
func RuneForKey(key int) rune {
	for i, v := range keypadOrder {
		if v == key {
			return rune(KeyLayout[i])
		}
	}
	return 0
}
