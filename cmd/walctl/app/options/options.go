package options

import (
	"errors"

	"logwriter/cmd/walctl/app/config"
	"logwriter/pkg/wal/logfile"

	"github.com/spf13/pflag"
)

// LogOptions locates one log file.
type LogOptions struct {
	Dir    string
	Number uint64

	conf *config.Config
	fs   *pflag.FlagSet
}

func NewLogOptions(conf *config.Config) *LogOptions {
	return &LogOptions{
		Dir:    "./wal",
		Number: 1,
		conf:   conf,
	}
}

func (o *LogOptions) AddFlags(fs *pflag.FlagSet) {
	o.fs = fs
	fs.StringVar(&o.Dir, "dir", o.Dir, "Log directory")
	fs.Uint64Var(&o.Number, "number", o.Number, "Log number")
}

// ApplyFlags fills options not given on the command line from the
// configuration file.
func (o *LogOptions) ApplyFlags() []error {
	if o.conf == nil {
		return nil
	}
	if !o.changed("dir") && o.conf.Dir != "" {
		o.Dir = o.conf.Dir
	}
	if !o.changed("number") && o.conf.Number != 0 {
		o.Number = o.conf.Number
	}
	return nil
}

func (o *LogOptions) changed(name string) bool {
	return o.fs != nil && o.fs.Changed(name)
}

// Validate will check the requirements of options
func (o *LogOptions) Validate() []error {
	var errs []error
	if o.Dir == "" {
		errs = append(errs, errors.New("--dir must not be empty"))
	}
	if o.Number == 0 {
		errs = append(errs, errors.New("--number must be positive"))
	}
	return errs
}

type WriteOptions struct {
	*LogOptions
	Recycle     bool
	RecycleFrom uint64
	Sync        bool
}

func NewWriteOptions(conf *config.Config) *WriteOptions {
	return &WriteOptions{
		LogOptions: NewLogOptions(conf),
	}
}

func (o *WriteOptions) AddFlags(fs *pflag.FlagSet) {
	o.LogOptions.AddFlags(fs)
	fs.BoolVar(&o.Recycle, "recycle", o.Recycle,
		"Write the recyclable record format")
	fs.Uint64Var(&o.RecycleFrom, "recycle-from", o.RecycleFrom,
		"Reuse the file of this older log number instead of creating a new one")
	fs.BoolVar(&o.Sync, "sync", o.Sync,
		"Sync the file after every record")
}

func (o *WriteOptions) ApplyFlags() []error {
	errs := o.LogOptions.ApplyFlags()
	if o.conf == nil {
		return errs
	}
	if !o.changed("recycle") && o.conf.Recycle {
		o.Recycle = true
	}
	if !o.changed("recycle-from") && o.conf.RecycleFrom != 0 {
		o.RecycleFrom = o.conf.RecycleFrom
	}
	if !o.changed("sync") && o.conf.Sync {
		o.Sync = true
	}
	return errs
}

func (o *WriteOptions) Validate() []error {
	errs := o.LogOptions.Validate()
	if err := o.LogfileOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (o *WriteOptions) LogfileOptions() logfile.Options {
	return logfile.Options{
		Recycle:     o.Recycle,
		RecycleFrom: o.RecycleFrom,
		SyncWrites:  o.Sync,
	}
}
