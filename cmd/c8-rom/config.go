package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hexaflex/c8/rom"
)

// Config defines program configuration.
type Config struct {
	Input       string   // Program image to read.
	Output      string   // Path to store output in. Empty means stdout.
	Breakpoints []uint16 // Breakpoints to add to the image.
	Disassemble bool     // Print an assembler listing instead of an image.
	Dump        bool     // Print a human-readable dump of the image.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config

	flag.Usage = func() {
		fmt.Printf("%s [options] <input image>\n", os.Args[0])
		flag.PrintDefaults()
	}

	breaks := flag.String("break", "", "Comma-separated list of breakpoint addresses to add.")
	flag.StringVar(&c.Output, "out", c.Output, "Output file.")
	flag.BoolVar(&c.Disassemble, "dis", c.Disassemble, "Print an assembler listing of the program.")
	flag.BoolVar(&c.Dump, "dump", c.Dump, "Print a human-readable version of the image.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	for _, s := range filteredSplit(*breaks, ",") {
		addr, err := rom.ParseAddress(s)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		c.Breakpoints = append(c.Breakpoints, addr)
	}

	c.Input = flag.Arg(0)
	return &c
}

// filteredSplit splits value by sep and returns the resulting list, minus empty entries.
func filteredSplit(value, sep string) []string {
	out := strings.Split(value, sep)
	for i := 0; i < len(out); i++ {
		out[i] = strings.TrimSpace(out[i])
		if len(out[i]) == 0 {
			copy(out[i:], out[i+1:])
			out = out[:len(out)-1]
			i--
		}
	}
	return out
}
