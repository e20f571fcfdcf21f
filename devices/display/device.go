// Package display implements an OpenGL display for the 64x32 frame buffer.
//
// The frame is uploaded as a single channel texture and drawn on a
// quad covering the whole viewport. An OpenGL 4.2 context must be current
// when the device starts up.
package display

import (
	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/devices"
)

// Color defines an RGB color.
type Color [3]float32

// RGB returns the color for the given 8-bit components.
func RGB(r, g, b byte) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

// Default display colors.
var (
	DefaultBackground = RGB(153, 102, 1)
	DefaultForeground = RGB(255, 204, 1)
)

// Device defines all internal doodads for the display.
type Device struct {
	Background  Color // Color of unlit pixels.
	Foreground  Color // Color of lit pixels.
	Fade        bool  // Let unlit pixels fade out like phosphor.
	pixels      phosphor
	shader      uint32
	vao         uint32
	vbo         uint32
	tex         uint32
	dirty       bool
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	return &Device{
		Background: DefaultBackground,
		Foreground: DefaultForeground,
		Fade:       true,
	}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Vendor, 0x0001)
}

// Startup initializes device resources.
func (d *Device) Startup(devices.KeyFunc) error {
	var err error

	d.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(d.shader)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	gl.Uniform3fv(gl.GetUniformLocation(d.shader, glStr("background")), 1, &d.Background[0])
	gl.Uniform3fv(gl.GetUniformLocation(d.shader, glStr("foreground")), 1, &d.Foreground[0])

	d.tex = newTexture(arch.DisplayWidth, arch.DisplayHeight)
	d.pixels = phosphor{}
	d.dirty = true
	d.initialized = true
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if !d.initialized {
		return nil
	}

	d.initialized = false
	gl.DeleteTextures(1, &d.tex)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.shader)
	return nil
}

// Update takes a new frame from the machine.
func (d *Device) Update(s *devices.State) {
	d.pixels.update(&s.Display, d.Fade)
	d.dirty = true
}

// Draw renders the display contents.
func (d *Device) Draw() {
	if !d.initialized {
		return
	}

	if d.dirty {
		uploadTexture(d.tex, arch.DisplayWidth, arch.DisplayHeight, d.pixels[:])
		d.dirty = false
	}

	gl.UseProgram(d.shader)
	gl.BindVertexArray(d.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.tex)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
