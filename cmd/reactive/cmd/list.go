package cmd

import (
	"fmt"

	"github.com/go-drift/reactive/pkg/components"
	"github.com/go-drift/reactive/pkg/core"
)

func init() {
	RegisterCommand(&Command{
		Name:  "list",
		Short: "List registered component tags",
		Long:  "Print every tag in the component registration table with its description.",
		Usage: "reactive list",
		Run:   runList,
	})
}

func runList(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("list takes no arguments (got %q)", args[0])
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	for _, tag := range reg.Tags() {
		r, _ := reg.Lookup(tag)
		fmt.Printf("  %-18s %s\n", tag, r.Description)
	}
	return nil
}

func newRegistry() (*core.Registry, error) {
	reg := core.NewRegistry()
	if err := components.Register(reg); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}
	return reg, nil
}
