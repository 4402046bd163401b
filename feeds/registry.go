package feeds

import (
	"fmt"
	"net/url"

	"newsdesk/models"

	"github.com/samber/lo"
)

// New validates the given sources and builds a registry preserving their order
func New(sources []models.FeedSource) (*Registry, error) {
	if len(sources) == 0 {
		return nil, ErrEmptyRegistry
	}

	byId := make(map[string]int, len(sources))
	for i, src := range sources {
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("feed %d: %w", i, err)
		}
		if _, ok := byId[src.Id]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidFeed, src.Id)
		}
		byId[src.Id] = i
	}

	return &Registry{
		sources: append([]models.FeedSource(nil), sources...),
		byId:    byId,
	}, nil
}

// MustDefault returns a registry over the built-in feeds
func MustDefault() *Registry {
	r, err := New(Default())
	if err != nil {
		panic(err)
	}
	return r
}

func validate(src models.FeedSource) error {
	if src.Id == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidFeed)
	}
	if src.Id == AllSources {
		return fmt.Errorf("%w: id %q is reserved", ErrInvalidFeed, AllSources)
	}
	if src.Name == "" {
		return fmt.Errorf("%w: missing name for %q", ErrInvalidFeed, src.Id)
	}

	u, err := url.Parse(src.Url)
	if err != nil {
		return fmt.Errorf("%w: bad url for %q: %v", ErrInvalidFeed, src.Id, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url for %q must be absolute http(s)", ErrInvalidFeed, src.Id)
	}
	return nil
}

// List returns a copy of every source in registry order
func (r *Registry) List() []models.FeedSource {
	return append([]models.FeedSource(nil), r.sources...)
}

// Lookup finds a source by id
func (r *Registry) Lookup(id string) (models.FeedSource, bool) {
	i, ok := r.byId[id]
	if !ok {
		return models.FeedSource{}, false
	}
	return r.sources[i], true
}

// Select returns the sources matching sourceId. An empty id or AllSources
// selects everything, an unknown id selects nothing.
func (r *Registry) Select(sourceId string) []models.FeedSource {
	if sourceId == "" || sourceId == AllSources {
		return r.List()
	}
	return lo.Filter(r.sources, func(src models.FeedSource, _ int) bool {
		return src.Id == sourceId
	})
}

func (r *Registry) Len() int {
	return len(r.sources)
}
