package main

import (
	"fmt"

	"github.com/retroenv/retrogolib/buildinfo"
)

const (
	AppVendor = "hexaflex"
	AppName   = "c8-rom"
)

var (
	version = "v0.2.0"
	commit  = ""
	date    = ""
)

// Version returns program version information.
func Version() string {
	return fmt.Sprintf("%s %s %s", AppVendor, AppName, buildinfo.Version(version, commit, date))
}
