package app

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

var cfgFile string

// addConfigFlag registers --config. Configuration keys may also be set
// through BASENAME_KEY environment variables.
func addConfigFlag(basename string, fs *pflag.FlagSet) {
	viper.SetEnvPrefix(strings.Replace(strings.ToUpper(basename), "-", "_", -1))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	fs.StringVarP(&cfgFile, "config", "C", cfgFile,
		"Read configuration from specified `FILE`, support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// loadConfig reads the --config file, if one was given, and the environment
// into conf.
func loadConfig(conf interface{}) error {
	bindEnv(conf)
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file(%s): %w", cfgFile, err)
		}
		klog.V(2).Infof("Loaded configuration from %s", viper.ConfigFileUsed())
	}
	return viper.Unmarshal(conf)
}

// bindEnv binds every mapstructure key of a struct so that Unmarshal sees
// environment values even when the file does not name the key.
func bindEnv(conf interface{}) {
	t := reflect.TypeOf(conf)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "" && key != "-" {
			_ = viper.BindEnv(key)
		}
	}
}

func printConfig() {
	keys := viper.AllKeys()
	if len(keys) > 0 {
		fmt.Printf("%v Configuration items:\n", color.GreenString("==>"))
		table := uitable.New()
		table.Separator = " "
		table.MaxColWidth = 80
		table.RightAlign(0)
		for _, k := range keys {
			table.AddRow(fmt.Sprintf("%s:", k), viper.Get(k))
		}
		fmt.Println(table)
	}
}
