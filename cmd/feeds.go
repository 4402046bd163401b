/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"

	"github.com/urfave/cli/v2"
)

func feedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "List the configured feed sources",
		Description: `Prints each feed source as a JSON object on a single line, in the
order they appear in the navigation bar.`,
		Action: func(ctx *cli.Context) error {
			registry, err := loadRegistry(ctx.String("config"))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(ctx.App.Writer)
			for _, src := range registry.List() {
				if err := enc.Encode(src); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
