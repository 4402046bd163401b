package news_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"newsdesk/feeds"
	"newsdesk/models"
	"newsdesk/news"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu     sync.Mutex
	feeds  map[string]*gofeed.Feed
	errs   map[string]error
	delays map[string]time.Duration
	calls  []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	delay := s.delays[url]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	if feed, ok := s.feeds[url]; ok {
		return feed, nil
	}
	return &gofeed.Feed{}, nil
}

func testRegistry(t *testing.T) *feeds.Registry {
	t.Helper()
	r, err := feeds.New([]models.FeedSource{
		{Id: "bbc", Name: "BBC World", Url: "https://bbc.test/rss"},
		{Id: "reuters", Name: "Reuters Top News", Url: "https://reuters.test/rss"},
		{Id: "ap", Name: "AP Top News", Url: "https://ap.test/rss"},
	})
	require.NoError(t, err)
	return r
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func titles(articles []models.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Title)
	}
	return out
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
}

func TestGetNewsMergesAndSorts(t *testing.T) {
	fetcher := &stubFetcher{
		feeds: map[string]*gofeed.Feed{
			"https://bbc.test/rss": {Items: []*gofeed.Item{
				{Title: "bbc-undated"},
				{Title: "bbc-dated", PublishedParsed: at("2024-06-01T09:00:00Z")},
			}},
			"https://reuters.test/rss": {Items: []*gofeed.Item{
				{Title: "reuters-item", PublishedParsed: at("2024-06-01T08:00:00Z")},
			}},
		},
		// Make the newest source finish last
		delays: map[string]time.Duration{"https://bbc.test/rss": 20 * time.Millisecond},
	}
	agg := news.NewAggregator(testRegistry(t), fetcher, news.WithClock(fixedClock))

	resp, err := agg.GetNews(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"bbc-dated", "reuters-item", "bbc-undated"}, titles(resp.Articles))
	assert.Equal(t, fixedClock().UnixMilli(), resp.LastUpdated)
	assert.Len(t, fetcher.calls, 3)
}

func TestGetNewsFiltersBySource(t *testing.T) {
	fetcher := &stubFetcher{
		feeds: map[string]*gofeed.Feed{
			"https://bbc.test/rss":     {Items: []*gofeed.Item{{Title: "b1"}, {Title: "b2"}}},
			"https://reuters.test/rss": {Items: []*gofeed.Item{{Title: "r1"}}},
		},
	}
	agg := news.NewAggregator(testRegistry(t), fetcher)

	resp, err := agg.GetNews(context.Background(), "bbc")
	require.NoError(t, err)

	require.Len(t, resp.Articles, 2)
	for _, a := range resp.Articles {
		assert.Equal(t, "bbc", a.SourceId)
		assert.Equal(t, "BBC World", a.Source)
	}
	assert.Equal(t, []string{"https://bbc.test/rss"}, fetcher.calls)
}

func TestGetNewsUnknownSource(t *testing.T) {
	fetcher := &stubFetcher{}
	agg := news.NewAggregator(testRegistry(t), fetcher, news.WithClock(fixedClock))

	resp, err := agg.GetNews(context.Background(), "doesnotexist")
	require.NoError(t, err)

	assert.NotNil(t, resp.Articles)
	assert.Empty(t, resp.Articles)
	assert.Equal(t, fixedClock().UnixMilli(), resp.LastUpdated)
	assert.Empty(t, fetcher.calls)
}

func TestGetNewsFailsWhenAnySourceFails(t *testing.T) {
	upstream := errors.New("http error: 503 Service Unavailable")
	fetcher := &stubFetcher{
		feeds: map[string]*gofeed.Feed{
			"https://bbc.test/rss": {Items: []*gofeed.Item{{Title: "b1"}}},
		},
		errs: map[string]error{"https://reuters.test/rss": upstream},
	}
	agg := news.NewAggregator(testRegistry(t), fetcher)

	resp, err := agg.GetNews(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, news.ErrLoadNews)
	assert.ErrorIs(t, err, upstream)

	var srcErr *news.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "reuters", srcErr.SourceId)
	assert.Equal(t, "failed to load news: reuters: http error: 503 Service Unavailable", err.Error())
}

func TestGetNewsAllSourcesFailing(t *testing.T) {
	fetcher := &stubFetcher{
		errs: map[string]error{
			"https://bbc.test/rss":     errors.New("boom"),
			"https://reuters.test/rss": errors.New("boom"),
			"https://ap.test/rss":      errors.New("boom"),
		},
	}
	agg := news.NewAggregator(testRegistry(t), fetcher)

	resp, err := agg.GetNews(context.Background(), "")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, news.ErrLoadNews)
}

func TestGetNewsCancelsSlowSourcesOnFailure(t *testing.T) {
	fetcher := &stubFetcher{
		errs:   map[string]error{"https://bbc.test/rss": errors.New("boom")},
		delays: map[string]time.Duration{"https://reuters.test/rss": time.Minute},
	}
	agg := news.NewAggregator(testRegistry(t), fetcher)

	start := time.Now()
	_, err := agg.GetNews(context.Background(), "")
	require.ErrorIs(t, err, news.ErrLoadNews)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestSortArticles(t *testing.T) {
	articles := []models.Article{
		{Title: "none-1"},
		{Title: "old", PublishedAt: at("2020-01-01T00:00:00Z")},
		{Title: "none-2"},
		{Title: "new", PublishedAt: at("2024-01-01T00:00:00Z")},
		{Title: "new-tie", PublishedAt: at("2024-01-01T00:00:00Z")},
	}

	news.SortArticles(articles)

	assert.Equal(t, []string{"new", "new-tie", "old", "none-1", "none-2"}, titles(articles))
}

func TestSortedOutputInvariant(t *testing.T) {
	fetcher := &stubFetcher{
		feeds: map[string]*gofeed.Feed{
			"https://bbc.test/rss": {Items: []*gofeed.Item{
				{Title: "a", PublishedParsed: at("2024-03-01T00:00:00Z")},
				{Title: "b"},
				{Title: "c", UpdatedParsed: at("2024-05-01T00:00:00Z")},
			}},
			"https://reuters.test/rss": {Items: []*gofeed.Item{
				{Title: "d", PublishedParsed: at("2024-04-01T00:00:00Z")},
			}},
			"https://ap.test/rss": {Items: []*gofeed.Item{
				{Title: "e"},
				{Title: "f", PublishedParsed: at("2023-12-31T00:00:00Z")},
			}},
		},
	}
	agg := news.NewAggregator(testRegistry(t), fetcher)

	resp, err := agg.GetNews(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, resp.Articles, 6)

	seenUndated := false
	for i := 1; i < len(resp.Articles); i++ {
		prev, cur := resp.Articles[i-1], resp.Articles[i]
		if cur.PublishedAt == nil {
			seenUndated = true
			continue
		}
		assert.False(t, seenUndated, "dated article %q after an undated one", cur.Title)
		require.NotNil(t, prev.PublishedAt)
		assert.False(t, cur.PublishedAt.After(*prev.PublishedAt))
	}
}
