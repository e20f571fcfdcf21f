package arch

import "time"

// costs holds the approximate execution time of each operation on the
// COSMAC VIP interpreter, in microseconds.
var costs = [opCount]int{
	SYS:   105,
	CLS:   109,
	RET:   105,
	JP:    105,
	CALL:  105,
	SE:    55,
	SNE:   55,
	SEV:   73,
	LD:    27,
	ADD:   45,
	LDV:   200,
	OR:    200,
	AND:   200,
	XOR:   200,
	ADDV:  200,
	SUB:   200,
	SHR:   200,
	SUBN:  200,
	SHL:   200,
	SNEV:  73,
	LDI:   55,
	JPV0:  105,
	RND:   164,
	DRW:   22734,
	SKP:   73,
	SKNP:  73,
	LDVDT: 45,
	LDVK:  100,
	LDDTV: 45,
	LDSTV: 45,
	ADDI:  86,
	LDF:   91,
	LDB:   927,
	LDIV:  605,
	LDVI:  605,
}

// Cost returns the time the given operation took on the original
// hardware. Unknown operations cost nothing.
func Cost(op Op) time.Duration {
	if op <= Unknown || op >= opCount {
		return 0
	}
	return time.Duration(costs[op]) * time.Microsecond
}
