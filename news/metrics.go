package news

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_feed_fetches_total",
		Help: "Upstream feed fetches by source and outcome",
	}, []string{"source", "status"})

	feedFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdesk_feed_fetch_duration_seconds",
		Help:    "Time spent fetching and parsing one upstream feed",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms up to ~25s
	}, []string{"source"})

	feedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_feed_items_total",
		Help: "Items normalized from upstream feeds",
	}, []string{"source"})
)
