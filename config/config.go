package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"newsdesk/models"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

// TomlFeed represents a single feed source entry from TOML
type TomlFeed struct {
	Id   string `toml:"id"`
	Name string `toml:"name"`
	Url  string `toml:"url"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Feeds []TomlFeed `toml:"feeds"`
}

var ErrNoFeeds = errors.New("no feeds defined")

//go:embed feeds.toml
var bundledFeeds []byte

// Default returns the feeds bundled with the binary
func Default() *TomlConfig {
	config, err := ParseConfig(bundledFeeds)
	if err != nil {
		panic(fmt.Errorf("bundled feeds.toml: %w", err))
	}
	return config
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a TOML document. Unknown keys are rejected so that a
// misspelled field does not silently produce an empty feed entry.
func ParseConfig(data []byte) (*TomlConfig, error) {
	var config TomlConfig
	md, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, fmt.Errorf("error parsing config file: unknown keys %s", strings.Join(keys, ", "))
	}

	if len(config.Feeds) == 0 {
		return nil, ErrNoFeeds
	}

	return &config, nil
}

// Sources converts the TOML feed entries into feed sources, keeping file order
func (c *TomlConfig) Sources() []models.FeedSource {
	return lo.Map(c.Feeds, func(f TomlFeed, _ int) models.FeedSource {
		return models.FeedSource{
			Id:   strings.TrimSpace(f.Id),
			Name: strings.TrimSpace(f.Name),
			Url:  strings.TrimSpace(f.Url),
		}
	})
}
