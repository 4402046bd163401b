/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "newsdesk",
		Usage: "A small news aggregator for a fixed set of RSS feeds",
		Description: `Newsdesk fetches a configured list of RSS/Atom feeds, merges their
		items into one list ordered by publication time and serves it as JSON
		together with a single page that renders a lead story and a grid of
		the rest.

		Feeds are fetched on every request. Nothing is stored.

		Flags can generally be set via environment variables, e.g.:

		--config => NEWSDESK_CONFIG=config/feeds.toml
		--port => NEWSDESK_PORT=3000
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a feeds TOML file, the built-in feeds are used when empty",
				EnvVars: []string{"NEWSDESK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"NEWSDESK_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Log as JSON instead of text",
				EnvVars: []string{"NEWSDESK_LOG_JSON"},
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			serveCmd(),
			feedsCmd(),
			fetchCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return cli.ShowAppHelp(ctx)
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(ctx *cli.Context) error {
	level, err := log.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if ctx.Bool("log-json") {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}
