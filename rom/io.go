package rom

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Packed fields are little-endian.
var endian = binary.LittleEndian

// decoder reads packed fields. The first error sticks and turns all
// later reads into no-ops.
type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) u16() uint16 {
	var p [2]byte
	if d.err == nil {
		_, d.err = io.ReadFull(d.r, p[:])
	}
	return endian.Uint16(p[:])
}

// bytes reads a length-prefixed byte slice of at most limit bytes.
func (d *decoder) bytes(limit int) []byte {
	n := int(d.u16())
	if d.err != nil {
		return nil
	}

	if n > limit {
		d.err = errors.Errorf("field of %d bytes exceeds %d", n, limit)
		return nil
	}

	p := make([]byte, n)
	_, d.err = io.ReadFull(d.r, p)
	return p
}

// encoder writes packed fields, with the same sticky error as decoder.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) u16(v uint16) {
	var p [2]byte
	endian.PutUint16(p[:], v)
	e.write(p[:])
}

func (e *encoder) bytes(p []byte) {
	e.u16(uint16(len(p)))
	e.write(p)
}

func (e *encoder) write(p []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(p)
	}
}
