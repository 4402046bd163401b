/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/news"
	"newsdesk/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the news page and JSON API",
		Description: `Starts the HTTP server on the specified or default port.

Serves /feeds and /news (also under /api) plus the news page. Every news
request fetches the selected feeds again.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "hostname",
				Aliases: []string{"n"},
				Usage:   "The hostname or interface to listen on",
				EnvVars: []string{"NEWSDESK_HOSTNAME"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"NEWSDESK_PORT"},
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   news.DefaultFetchTimeout,
				Usage:   "Upper bound for fetching a single feed",
				EnvVars: []string{"NEWSDESK_FETCH_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "allow-origins",
				Value:   "*",
				Usage:   "Comma separated list of CORS origins",
				EnvVars: []string{"NEWSDESK_ALLOW_ORIGINS"},
			},
		},
		Action: func(ctx *cli.Context) error {
			registry, err := loadRegistry(ctx.String("config"))
			if err != nil {
				return err
			}

			fetcher := news.NewRSSFetcher(&http.Client{}, ctx.Duration("fetch-timeout"))
			app := server.Server(&server.ServerConfig{
				Registry:     registry,
				News:         news.NewAggregator(registry, fetcher),
				AllowOrigins: ctx.String("allow-origins"),
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(c)

			errc := make(chan error, 1)
			addr := fmt.Sprintf("%s:%d", ctx.String("hostname"), ctx.Int("port"))

			go func() {
				log.WithFields(log.Fields{
					"addr":  addr,
					"feeds": registry.Len(),
				}).Info("Starting server")
				errc <- app.Listen(addr)
			}()

			select {
			case err := <-errc:
				return err
			case <-c:
				log.Info("Gracefully shutting down...")
				return app.ShutdownWithTimeout(30 * time.Second)
			}
		},
	}
}
