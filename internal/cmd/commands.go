package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/base"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/commands/generate"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/commands/probe"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/commands/version"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/commands/watch"
)

// Commands returns the subcommand factories.
func Commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := base.New(ui, log)

	return map[string]cli.CommandFactory{
		"generate": func() (cli.Command, error) {
			return &generate.Command{Command: b}, nil
		},
		"probe": func() (cli.Command, error) {
			return &probe.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
		"watch": func() (cli.Command, error) {
			return &watch.Command{Command: b}, nil
		},
	}
}
