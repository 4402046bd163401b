// Package feeds holds the feed registry shared by the HTTP endpoints, the news
// pipeline and the command line tools
package feeds

import (
	"errors"

	"newsdesk/config"
	"newsdesk/models"
)

// AllSources is the selector the page sends when no single source is active
const AllSources = "all"

var (
	ErrEmptyRegistry = errors.New("registry has no feeds")
	ErrInvalidFeed   = errors.New("invalid feed")
)

// Registry is an ordered, read-only list of feed sources. It is safe for
// concurrent use since nothing mutates it after New returns.
type Registry struct {
	sources []models.FeedSource
	byId    map[string]int
}

// Default returns the built-in feed list used when no config file is given
func Default() []models.FeedSource {
	return config.Default().Sources()
}
