package main

import (
	"fmt"
	"os"
	"runtime"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config := parseArgs()
	logger := createLogger(config.Debug, config.Quiet)

	var err error
	if config.Terminal {
		err = runTerminal(logger, config)
	} else {
		err = NewApp(logger, config).Run()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
