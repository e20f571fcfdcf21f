// Package rom defines the program image type, as well as an encoder
// and decoder for its packed file format.
//
// Images are read either as raw program bytes, the common .ch8 format,
// or as a gzip compressed package holding the program and a list of
// breakpoint addresses.
package rom

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/vm"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Image defines a loadable program.
type Image struct {
	Name        string   // Display name, usually the file name.
	Data        []byte   // Program bytes, loaded at arch.ProgramStart.
	Breakpoints []uint16 // Addresses at which a debugger pauses execution.
}

// New creates a new image for the given program bytes.
func New(name string, data []byte) *Image {
	return &Image{
		Name: name,
		Data: data,
	}
}

// LoadFile reads an image from the given file.
func LoadFile(path string) (*Image, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	img, err := Load(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	img.Name = filepath.Base(path)
	return img, nil
}

// Load reads an image from the given stream. Compressed images are
// detected automatically. Returns an error wrapping vm.ErrLoad if the
// program does not fit in memory.
func Load(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	var img Image
	magic, _ := br.Peek(len(gzipMagic))

	if bytes.Equal(magic, gzipMagic) {
		if err := img.unpack(br); err != nil {
			return nil, err
		}
	} else {
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, errors.Wrapf(err, "rom")
		}
		img.Data = data
	}

	if len(img.Data) > arch.MaxProgramSize {
		return nil, errors.Wrapf(vm.ErrLoad, "rom: %d bytes exceeds %d", len(img.Data), arch.MaxProgramSize)
	}

	return &img, nil
}

func (img *Image) unpack(r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrapf(err, "rom: invalid image format")
	}

	defer gz.Close()

	d := decoder{r: gz}

	// Every breakpoint sits on an instruction inside the program area.
	n := int(d.u16())
	if d.err == nil && n > arch.MaxProgramSize/arch.InstructionSize {
		return errors.Errorf("rom: %d breakpoints exceed the program area", n)
	}

	img.Breakpoints = make([]uint16, n)
	for i := range img.Breakpoints {
		img.Breakpoints[i] = d.u16()
	}

	// Oversize programs still decode so Load can report them as vm.ErrLoad.
	img.Data = d.bytes(0xffff)

	if d.err != nil {
		return errors.Wrapf(d.err, "rom: truncated image")
	}
	return nil
}

// Save writes the image to the given stream in packed form.
func (img *Image) Save(w io.Writer) error {
	if len(img.Data) > arch.MaxProgramSize {
		return errors.Wrapf(vm.ErrLoad, "rom: %d bytes exceeds %d", len(img.Data), arch.MaxProgramSize)
	}

	gz := gzip.NewWriter(w)
	e := encoder{w: gz}

	e.u16(uint16(len(img.Breakpoints)))
	for _, addr := range img.Breakpoints {
		e.u16(addr)
	}
	e.bytes(img.Data)

	if err := gz.Close(); e.err == nil {
		e.err = err
	}

	return errors.Wrapf(e.err, "rom")
}

// SaveFile writes the image to the given file in packed form.
func (img *Image) SaveFile(path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = img.Save(fd); err != nil {
		fd.Close()
		return err
	}

	return fd.Close()
}

// SetBreakpoint adds a breakpoint at the given address.
func (img *Image) SetBreakpoint(addr uint16) {
	if img.HasBreakpoint(addr) {
		return
	}

	img.Breakpoints = append(img.Breakpoints, addr)
	sort.Slice(img.Breakpoints, func(i, j int) bool {
		return img.Breakpoints[i] < img.Breakpoints[j]
	})
}

// ParseAddress parses a hexadecimal program address, with or without a
// leading $ or 0x. The address must fall in the program area.
func ParseAddress(s string) (uint16, error) {
	v := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x"), "$")

	n, err := strconv.ParseUint(v, 16, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid address %q", s)
	}

	if n < arch.ProgramStart || n > arch.MaxAddress {
		return 0, errors.Errorf("address %q is outside the program area", s)
	}

	return uint16(n), nil
}

// HasBreakpoint returns true if there is a breakpoint at the given address.
func (img *Image) HasBreakpoint(addr uint16) bool {
	for _, v := range img.Breakpoints {
		if v == addr {
			return true
		}
	}
	return false
}

// Disassemble writes an assembler listing of the program to w. Each
// line holds the address, the instruction word and its mnemonic.
func (img *Image) Disassemble(w io.Writer) error {
	for i := 0; i < len(img.Data); i += arch.InstructionSize {
		addr := arch.ProgramStart + i

		var word uint16
		if i+1 < len(img.Data) {
			word = uint16(img.Data[i])<<8 | uint16(img.Data[i+1])
		} else {
			word = uint16(img.Data[i]) << 8
		}

		mark := ' '
		if img.HasBreakpoint(uint16(addr)) {
			mark = '*'
		}

		instr := arch.Decode(word)
		if _, err := fmt.Fprintf(w, "%03x%c %04x  %s\n", addr, mark, word, instr); err != nil {
			return err
		}
	}
	return nil
}

// String returns a human-readable dump of the image's contents.
func (img *Image) String() string {
	var sb strings.Builder

	if len(img.Name) > 0 {
		fmt.Fprintf(&sb, "Image: %s (%d bytes)\n", img.Name, len(img.Data))
	}

	if len(img.Breakpoints) > 0 {
		fmt.Fprintf(&sb, "Breakpoints (%d):\n", len(img.Breakpoints))
		for _, v := range img.Breakpoints {
			fmt.Fprintf(&sb, " %03x\n", v)
		}
	}

	if len(img.Data) > 0 {
		fmt.Fprintf(&sb, "Program:\n")
		fmt.Fprintf(&sb, "%s\n", hex.Dump(img.Data))
	}

	return sb.String()
}
