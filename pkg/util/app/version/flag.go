package version

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

const (
	flagName      = "version"
	flagShortHand = "V"
)

// value is the state of --version: off, the short line, or the full table.
type value int

const (
	off value = iota
	short
	all

	strAllVersionInfo = "all"
)

var requested = off

func (v *value) Set(s string) error {
	if s == strAllVersionInfo {
		*v = all
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*v = off
	if b {
		*v = short
	}
	return nil
}

func (v *value) String() string {
	switch *v {
	case all:
		return strAllVersionInfo
	case short:
		return "true"
	}
	return "false"
}

// Type is the flag type shown in usage.
func (v *value) Type() string {
	return "version"
}

// AddFlags registers --version on fs. "--version" alone means
// "--version=true", "--version=all" prints every build field.
func AddFlags(fs *pflag.FlagSet) {
	fs.VarP(&requested, flagName, flagShortHand, "Print version information and quit (true or all).")
	fs.Lookup(flagName).NoOptDefVal = "true"
}

// PrintIfRequested writes the version to w if --version was given and
// reports whether it did.
func PrintIfRequested(w io.Writer, appName string) bool {
	switch requested {
	case all:
		fmt.Fprintf(w, "%s\n", Get())
	case short:
		fmt.Fprintf(w, "%s %s\n", appName, Get().GitVersion)
	default:
		return false
	}
	return true
}
