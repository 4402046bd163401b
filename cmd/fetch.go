/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"net/http"

	"newsdesk/news"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the news once and print it",
		Description: `Runs the same pipeline as the /news endpoint and prints the
response as JSON. Use a tool like jq to process the output.

Prints all log messages to stderr.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Only fetch the feed with this id",
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   news.DefaultFetchTimeout,
				Usage:   "Upper bound for fetching a single feed",
				EnvVars: []string{"NEWSDESK_FETCH_TIMEOUT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout for the JSON output
			prev := log.StandardLogger().Out
			log.SetOutput(ctx.App.ErrWriter)
			defer log.SetOutput(prev)

			registry, err := loadRegistry(ctx.String("config"))
			if err != nil {
				return err
			}

			agg := news.NewAggregator(registry, news.NewRSSFetcher(&http.Client{}, ctx.Duration("fetch-timeout")))
			resp, err := agg.GetNews(ctx.Context, ctx.String("source"))
			if err != nil {
				return err
			}

			return json.NewEncoder(ctx.App.Writer).Encode(resp)
		},
	}
}
