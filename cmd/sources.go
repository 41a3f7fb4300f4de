package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"vidmux/pkg/config"
)

// SourcesCommand creates the sources command with subcommands
func SourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "Manage search sources",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured sources",
				Action: func(ctx context.Context, c *cli.Command) error {
					return listSources(c.String("config"))
				},
			},
			{
				Name:  "remove",
				Usage: "Remove a source",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Source name",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return removeSource(c.String("config"), c.String("name"))
				},
			},
		},
	}
}

// listSources lists all configured sources with their enabled state
func listSources(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sources := cfg.ListSources()
	if len(sources) == 0 {
		fmt.Println("No sources configured")
		return nil
	}

	fmt.Println("Configured sources:")
	for _, name := range sources {
		srcType, _, err := cfg.GetSourceConfig(name)
		if err != nil {
			fmt.Printf("  %s: error loading config: %v\n", name, err)
			continue
		}
		state := "enabled"
		if !cfg.Sources[name].IsEnabled() {
			state = "disabled"
		}
		fmt.Printf("  %s (%s) - %s\n", name, srcType, state)
	}

	return nil
}

// removeSource removes a source from the configuration
func removeSource(configPath, name string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.RemoveSource(name)

	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Removed source '%s'\n", name)
	return nil
}
