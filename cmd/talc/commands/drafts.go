package commands

import (
	"fmt"
	"strings"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title []string `arg:"" help:"Title of the draft"`
}

func (n *NewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	svc, err := newDraftService(cfg)
	if err != nil {
		return err
	}
	path, err := svc.New(strings.Join(n.Title, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Created draft %s\n", path)
	return nil
}

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Name string `arg:"" help:"Draft filename, with or without the .md extension"`
}

func (p *PublishCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	svc, err := newDraftService(cfg)
	if err != nil {
		return err
	}
	path, err := svc.Publish(p.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Published %s\n", path)
	return nil
}

// UpdateCmd implements the 'update' command.
type UpdateCmd struct {
	Action string `arg:"" help:"start copies a published document to the updating directory; finish publishes it again"`
	Name   string `arg:"" optional:"" help:"Document filename, with or without the .md extension"`
}

func (u *UpdateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	svc, err := newDraftService(cfg)
	if err != nil {
		return err
	}
	path, err := svc.Update(u.Action, u.Name)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Printf("Updated %s\n", path)
	}
	return nil
}
