package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"vidmux/pkg/cache"
	"vidmux/pkg/config"
)

// CacheCommand creates the cache command with subcommands
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear cached search results",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the most recently cached results",
				Action: func(ctx context.Context, c *cli.Command) error {
					return showCache(c.String("config"))
				},
			},
			{
				Name:  "clear",
				Usage: "Remove all cached results",
				Action: func(ctx context.Context, c *cli.Command) error {
					return clearCache(c.String("config"))
				},
			},
		},
	}
}

func showCache(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close cache: %v\n", err)
		}
	}()

	bundle, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading cache: %w", err)
	}
	if bundle == nil {
		fmt.Println("Cache is empty")
		return nil
	}

	fmt.Printf("Query:   %s\n", bundle.Query)
	fmt.Printf("Saved:   %s\n", bundle.SavedAt.Local().Format(time.RFC1123))
	fmt.Printf("Sources: %s\n", strings.Join(bundle.AvailableSources, ", "))
	fmt.Printf("Results: %d\n", len(bundle.Results))
	for i, v := range bundle.Results {
		fmt.Printf("  %d. %s\n", i+1, v.Summary())
	}

	return nil
}

func clearCache(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := cache.NewSQLite(cfg.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close cache: %v\n", err)
		}
	}()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Println("Cache cleared")
	return nil
}
