package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
)

// startStatsView serves runtime statistics on the given address in the
// background. It does nothing if addr is empty.
func startStatsView(logger *log.Logger, addr string) {
	if addr == "" {
		return
	}

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server started", log.String("url", "http://"+addr+"/debug/statsview"))
}

// writeMemViz writes a graphviz diagram of v to the given file. It does
// nothing if path is empty.
func writeMemViz(path string, v interface{}) error {
	if path == "" {
		return nil
	}

	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	memviz.Map(fd, v)
	return fd.Close()
}

// printTrace prints a single line of instruction trace data.
func printTrace(pc uint16, instr arch.Instruction) {
	fmt.Fprintf(os.Stderr, "%03x %04x  %s\n", pc, instr.Word, instr)
}
