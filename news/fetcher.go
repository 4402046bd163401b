// Package news fetches the registered feeds and merges their items into a
// single list ordered by publication time.
package news

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	userAgent           = "newsdesk/1.0"
)

// Fetcher retrieves and parses one feed document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// RSSFetcher fetches RSS, Atom and JSON feeds with gofeed. Each call is
// bounded by the configured timeout; there is no retry.
type RSSFetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewRSSFetcher(client *http.Client, timeout time.Duration) *RSSFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &RSSFetcher{
		client:  client,
		timeout: timeout,
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	return fp.ParseURLWithContext(url, ctx)
}
