package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/talc/cmd/talc/commands"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("talc"),
		kong.Description("Build a static site from Markdown documents and HTML templates."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(&commands.Global{}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
