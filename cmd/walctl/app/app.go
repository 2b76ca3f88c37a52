package app

import (
	"os"

	"logwriter/cmd/walctl/app/config"
	"logwriter/cmd/walctl/app/options"
	"logwriter/pkg/util/app"
)

const commandDesc = `walctl writes, dumps and verifies block-framed log files.

Records are framed into 32KiB blocks, either in the legacy format or in the
recyclable format that stamps every fragment with the log number.`

func New(basename string) *app.App {
	conf := &config.Config{}
	application := app.NewApp(
		basename,
		app.WithDescription(commandDesc),
		app.WithConfiguration(conf),
	)
	application.AddCommands(
		newWriteCommand(conf),
		newDumpCommand(conf),
		newVerifyCommand(conf),
	)
	return application
}

func newWriteCommand(conf *config.Config) *app.Command {
	opts := options.NewWriteOptions(conf)
	return app.NewCommand("write [record...]",
		"Append records to a log file, one per argument or per stdin line",
		app.WithCommandOptions(opts),
		app.WithCommandRunFunc(func(args []string) error {
			return runWrite(opts, args, os.Stdin, os.Stdout)
		}),
	)
}

func newDumpCommand(conf *config.Config) *app.Command {
	opts := options.NewLogOptions(conf)
	return app.NewCommand("dump",
		"Print the physical records of a log file",
		app.WithCommandOptions(opts),
		app.WithCommandRunFunc(func(args []string) error {
			return runDump(opts, os.Stdout)
		}),
	)
}

func newVerifyCommand(conf *config.Config) *app.Command {
	opts := options.NewLogOptions(conf)
	return app.NewCommand("verify",
		"Read back every record of a log file and check its checksum",
		app.WithCommandOptions(opts),
		app.WithCommandRunFunc(func(args []string) error {
			return runVerify(opts, os.Stdout)
		}),
	)
}
