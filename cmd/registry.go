/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"newsdesk/config"
	"newsdesk/feeds"

	log "github.com/sirupsen/logrus"
)

// loadRegistry builds the one registry shared by every consumer in the process
func loadRegistry(path string) (*feeds.Registry, error) {
	if path == "" {
		return feeds.New(feeds.Default())
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	registry, err := feeds.New(cfg.Sources())
	if err != nil {
		return nil, fmt.Errorf("invalid feeds in %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"config": path,
		"feeds":  registry.Len(),
	}).Info("Loaded feed registry")

	return registry, nil
}
