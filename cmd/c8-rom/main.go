// Command c8-rom inspects program images and packs them together with
// breakpoints for the debugger.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hexaflex/c8/rom"
)

func main() {
	config := parseArgs()

	img, err := rom.LoadFile(config.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, addr := range config.Breakpoints {
		img.SetBreakpoint(addr)
	}

	w, close := makeWriter(config)
	defer close()

	if err = run(w, config, img); err != nil {
		fmt.Fprintln(os.Stderr, err)
		close()
		os.Exit(1)
	}
}

// run writes the requested representation of img to w.
func run(w io.Writer, c *Config, img *rom.Image) error {
	switch {
	case c.Dump:
		_, err := fmt.Fprintln(w, img.String())
		return err
	case c.Disassemble:
		return img.Disassemble(w)
	default:
		return img.Save(w)
	}
}

// makeWriter creates an output writer and a cleanup function for it.
func makeWriter(c *Config) (io.Writer, func()) {
	if c.Output == "" {
		return os.Stdout, func() {}
	}

	dir, _ := filepath.Split(c.Output)
	if dir != "" {
		err := os.MkdirAll(dir, 0744)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fd, err := os.Create(c.Output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return fd, func() { fd.Close() }
}
