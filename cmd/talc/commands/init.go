package commands

import (
	"fmt"

	"git.home.luguber.info/inful/talc/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" default:"." help:"Site directory"`
	Force bool   `help:"Overwrite existing configuration and starter templates"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	if err := config.Init(i.Dir, i.Force); err != nil {
		return err
	}
	fmt.Printf("Initialized talc site in %s\n", i.Dir)
	return nil
}
