package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"vidmux/cmd"
	"vidmux/pkg/config"
)

func main() {
	app := &cli.Command{
		Name:  "vidmux",
		Usage: "Search videos across multiple sources",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.SourcesCommand(),
			cmd.SearchCommand(),
			cmd.CacheCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
