package config

// Config is the layout of the --config file. Flags given on the command line
// win over it.
type Config struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Number      uint64 `yaml:"number" mapstructure:"number"`
	Recycle     bool   `yaml:"recycle" mapstructure:"recycle"`
	RecycleFrom uint64 `yaml:"recycleFrom" mapstructure:"recycleFrom"`
	Sync        bool   `yaml:"sync" mapstructure:"sync"`
}
