package app

import (
	"github.com/spf13/pflag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// AddFlags adds flags to the specified FlagSet object.
	AddFlags(fs *pflag.FlagSet)

	// Validate would be called after init flags and configration file
	Validate() []error
}

// ConfigurableOptions abstracts configuration options for reading parameters
// from a configuration file.
type ConfigurableOptions interface {
	// ApplyFlags parsing parameters from the command line or configuration file
	// to the options instance.
	ApplyFlags() []error
}

func applyAndValidate(opts CliOptions) []error {
	if c, ok := opts.(ConfigurableOptions); ok {
		if errs := c.ApplyFlags(); len(errs) > 0 {
			return errs
		}
	}
	return opts.Validate()
}
