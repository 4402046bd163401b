package news

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"newsdesk/feeds"
	"newsdesk/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrLoadNews = errors.New("failed to load news")

// SourceError records which source broke an aggregation
type SourceError struct {
	SourceId string
	Err      error
}

func (e *SourceError) Error() string {
	return e.SourceId + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Aggregator runs the fetch, normalize, merge and sort pipeline over a registry
type Aggregator struct {
	registry *feeds.Registry
	fetcher  Fetcher
	now      func() time.Time
}

type Option func(*Aggregator)

// WithClock overrides the clock used for LastUpdated
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

func NewAggregator(registry *feeds.Registry, fetcher Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry: registry,
		fetcher:  fetcher,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetNews fetches every source selected by sourceId concurrently and returns
// their articles newest first. Any failing source fails the whole call.
func (a *Aggregator) GetNews(ctx context.Context, sourceId string) (*models.NewsResponse, error) {
	active := a.registry.Select(sourceId)

	// Indexed by source position so completion order can not leak into output
	results := make([][]models.Article, len(active))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range active {
		eg.Go(func() error {
			articles, err := a.fetchSource(egCtx, src)
			if err != nil {
				return &SourceError{SourceId: src.Id, Err: err}
			}
			results[i] = articles
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadNews, err)
	}

	articles := lo.Flatten(results)
	SortArticles(articles)

	return &models.NewsResponse{
		Articles:    articles,
		LastUpdated: a.now().UnixMilli(),
	}, nil
}

func (a *Aggregator) fetchSource(ctx context.Context, src models.FeedSource) ([]models.Article, error) {
	start := time.Now()
	feed, err := a.fetcher.Fetch(ctx, src.Url)
	latency := time.Since(start)
	feedFetchDuration.WithLabelValues(src.Id).Observe(latency.Seconds())

	if err != nil {
		feedFetches.WithLabelValues(src.Id, "error").Inc()
		log.WithFields(log.Fields{
			"source":  src.Id,
			"url":     src.Url,
			"latency": latency,
			"error":   err,
		}).Error("Error fetching feed")
		return nil, err
	}
	feedFetches.WithLabelValues(src.Id, "ok").Inc()

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, Normalize(src, item))
	}
	feedItems.WithLabelValues(src.Id).Add(float64(len(articles)))

	log.WithFields(log.Fields{
		"source":  src.Id,
		"items":   len(articles),
		"latency": latency,
	}).Debug("Fetched feed")

	return articles, nil
}

var epoch = time.Unix(0, 0).UTC()

func sortKey(a models.Article) time.Time {
	if a.PublishedAt == nil {
		return epoch
	}
	return *a.PublishedAt
}

// SortArticles orders articles newest first. Missing dates count as the Unix
// epoch and ties keep their input order.
func SortArticles(articles []models.Article) {
	slices.SortStableFunc(articles, func(a, b models.Article) int {
		return sortKey(b).Compare(sortKey(a))
	})
}
