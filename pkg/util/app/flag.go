package app

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

var klogInitialized bool

// initFlag registers klog flags on the go flag set, which Run merges into the
// root command.
func initFlag() {
	if !klogInitialized {
		klog.InitFlags(nil)
		klogInitialized = true
	}
	pflag.CommandLine.SetNormalizeFunc(WordSepNormalizeFunc)
}

// WordSepNormalizeFunc changes all flags that contain "_" separators.
func WordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if strings.Contains(name, "_") {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	}
	return pflag.NormalizedName(name)
}

// FormatBaseName is formatted as an executable file name under different
// operating systems according to the given name.
func FormatBaseName(basename string) string {
	// Make case-insensitive and strip executable suffix if present
	if runtime.GOOS == "windows" {
		basename = strings.ToLower(basename)
		basename = strings.TrimSuffix(basename, ".exe")
	}
	return basename
}
