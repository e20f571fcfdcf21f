package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/clock"
	"github.com/hexaflex/c8/rom"
	"github.com/hexaflex/c8/vm"
)

// Config defines program configuration.
type Config struct {
	Image       string       // Path to the image file to load.
	Clock       clock.Config // CPU speed and timing model.
	Quirks      vm.Quirks    // Instruction behaviour variant.
	Seed        int64        // Random number seed. Zero picks one.
	Breakpoints []uint16     // Extra breakpoints on top of those in the image.
	ScaleFactor int          // Amount by which each pixel is scaled (virtual resolution)
	Fullscreen  bool         // Run in fullscreen?
	Terminal    bool         // Run in the terminal instead of a window?
	Mute        bool         // Disable audio output?
	WavFile     string       // Record audio to this file.
	Debug       bool         // Enable debug mode? This handles breakpoints if enabled.
	PrintTrace  bool         // Print instruction trace data?
	Quiet       bool         // Only log errors.
	StatsView   string       // Serve runtime statistics on this address.
	MemViz      string       // Write a graph of the machine state to this file on exit.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	c, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if c == nil {
		fmt.Println(Version())
		os.Exit(0)
	}

	return c
}

// parseFlags parses the given arguments. It returns a nil config if only
// version information was requested.
func parseFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	var c Config
	c.ScaleFactor = 10
	c.Clock.CPUHz = clock.DefaultCPUHz

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s [options] <image file>\n", fs.Name())
		fs.PrintDefaults()
	}

	timing := fs.String("timing", clock.FixedRate.String(), "Timing model: fixed or vip.")
	quirks := fs.String("quirks", "modern", "Instruction quirks: modern or vip.")
	breaks := fs.String("break", "", "Comma-separated list of breakpoint addresses.")
	fs.IntVar(&c.Clock.CPUHz, "hz", c.Clock.CPUHz, "CPU frequency in fixed timing mode.")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random number seed.")
	fs.IntVar(&c.ScaleFactor, "scale-factor", c.ScaleFactor, "Pixel scale factor for the display.")
	fs.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	fs.BoolVar(&c.Terminal, "term", c.Terminal, "Run in the terminal.")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "Disable audio output.")
	fs.StringVar(&c.WavFile, "wav", c.WavFile, "Record audio output to the given WAV file.")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Run in debug mode.")
	fs.BoolVar(&c.PrintTrace, "trace", c.PrintTrace, "Print instruction trace data.")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "Only log errors.")
	fs.StringVar(&c.StatsView, "statsview", c.StatsView, "Serve runtime statistics on the given address.")
	fs.StringVar(&c.MemViz, "memviz", c.MemViz, "Write a graph of the machine state to the given file on exit.")
	version := fs.Bool("version", false, "Display version information.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *version {
		return nil, nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	var err error
	if c.Clock.Timing, err = clock.ParseTiming(*timing); err != nil {
		return nil, err
	}

	if err = c.Clock.Validate(); err != nil {
		return nil, err
	}

	if c.Quirks, err = vm.ParseQuirks(*quirks); err != nil {
		return nil, err
	}

	for _, s := range filteredSplit(*breaks, ",") {
		addr, err := rom.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		c.Breakpoints = append(c.Breakpoints, addr)
	}

	c.Image = fs.Arg(0)
	return &c, nil
}

// createLogger creates a logger for the requested verbosity.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
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
