package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/kxue43/envsetup/setup"
	"github.com/kxue43/envsetup/version"
)

func main() {
	exitCode := 0

	defer func() { os.Exit(exitCode) }()

	var cli struct {
		Globals globals  `embed:""`
		Setup   setupCmd `cmd:"" default:"withargs" help:"Check the Python version, choose a setup method and install the project's packages."`
		Check   checkCmd `cmd:"" help:"Report what setup would find. Runs only read-only probes such as conda --version."`
	}

	kctx := kong.Parse(
		&cli,
		kong.Name("envsetup"),
		kong.Description("Bootstrap the Python environment of the project in the current directory."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.FromBuildInfo()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnvironment(cli.Globals)
	if err != nil {
		env.logger.Error(err.Error())

		exitCode = 1

		return
	}

	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run(env)
	if err != nil {
		if !setup.Reported(err) {
			env.logger.Error(err.Error())
		}

		exitCode = 1
	}
}
