package app

import (
	"flag"
	"fmt"
	"os"

	"logwriter/pkg/util/app/version"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// usageTemplate is cobra's default without aliases, examples and help
// topics, with colored headings.
var usageTemplate = fmt.Sprintf(`%s{{if .Runnable}}
  %s{{end}}{{if .HasAvailableSubCommands}}
  %s{{end}}{{if .HasAvailableSubCommands}}

%s{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  %s {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

%s
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

%s
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`,
	color.CyanString("Usage:"),
	color.GreenString("{{.UseLine}}"),
	color.GreenString("{{.CommandPath}} [command]"),
	color.CyanString("Available Commands:"),
	color.GreenString("{{rpad .Name .NamePadding }}"),
	color.CyanString("Flags:"),
	color.CyanString("Global Flags:"),
)

// App is the root of a cli application made of sub commands.
// It is recommended that an app be created with the app.NewApp() function.
type App struct {
	name         string
	description  string
	commands     []*Command
	configurable interface{}
}

// Option defines optional parameters for initializing the application
// structure.
type Option func(*App)

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithConfiguration enables the --config flag. The configuration file is
// unmarshalled into conf before any command runs.
func WithConfiguration(conf interface{}) Option {
	return func(a *App) {
		a.configurable = conf
	}
}

// NewApp creates a new application instance based on the given application name,
// binary name, and other options.
func NewApp(name string, opts ...Option) *App {
	a := &App{
		name: name,
	}

	for _, o := range opts {
		o(a)
	}

	return a
}

// Run is used to launch the application. It exits the process on failure.
func (a *App) Run() {
	initFlag()

	err := a.Execute(os.Args[1:])
	klog.Flush()
	if err != nil {
		fmt.Printf("%v %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// Execute runs the command line args against the application.
func (a *App) Execute(args []string) error {
	cmd := a.cobraCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func (a *App) cobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           FormatBaseName(a.name),
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetUsageTemplate(usageTemplate)
	cmd.Flags().SortFlags = false
	for _, command := range a.commands {
		cmd.AddCommand(command.cobraCommand())
	}
	if len(a.commands) > 0 {
		cmd.SetHelpCommand(helpCommand(a.name))
	}
	cmd.Run = func(c *cobra.Command, args []string) {
		if version.PrintIfRequested(c.OutOrStdout(), a.name) {
			return
		}
		_ = c.Help()
	}

	if a.configurable != nil {
		addConfigFlag(a.name, cmd.PersistentFlags())
		cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
			err := loadConfig(a.configurable)
			if err == nil && klog.V(2).Enabled() {
				printConfig()
			}
			return err
		}
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	version.AddFlags(cmd.Flags())
	addHelpFlag(a.name, cmd.Flags())
	return cmd
}

// AddCommand adds sub command to the application.
func (a *App) AddCommand(cmd *Command) {
	a.commands = append(a.commands, cmd)
}

// AddCommands adds multiple sub commands to the application.
func (a *App) AddCommands(cmds ...*Command) {
	a.commands = append(a.commands, cmds...)
}
