package content

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"politicswithalex/api_site/pkg/kv"
	"politicswithalex/api_site/pkg/logging"
	"politicswithalex/api_site/pkg/models"
)

// Cache keys and TTL for the two upstream feeds.
const (
	videosCacheKey  = "youtube_videos"
	postsCacheKey   = "medium_posts"
	DefaultCacheTTL = time.Hour
)

// Source produces a normalized content listing from an external system.
type Source interface {
	FetchLatest(ctx context.Context) ([]models.ContentItem, error)
}

// Service serves the two content listings through a read-through cache.
// Upstream failures degrade to an empty list; callers never see an error.
// Concurrent misses for the same key collapse into one upstream fetch.
type Service struct {
	store   kv.Store
	videos  Source
	posts   Source
	logger  logging.Logger
	metrics *Metrics
	ttl     time.Duration
	sf      singleflight.Group

	// storeTimeout bounds the detached cache write.
	storeTimeout time.Duration
}

func NewService(store kv.Store, videos, posts Source, logger logging.Logger, metrics *Metrics, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		store:        store,
		videos:       videos,
		posts:        posts,
		logger:       logger,
		metrics:      metrics,
		ttl:          ttl,
		storeTimeout: 10 * time.Second,
	}
}

// Videos returns the cached or freshly fetched video listing.
func (s *Service) Videos(ctx context.Context) []models.ContentItem {
	return s.list(ctx, videosCacheKey, s.videos)
}

// Posts returns the cached or freshly fetched post listing.
func (s *Service) Posts(ctx context.Context) []models.ContentItem {
	return s.list(ctx, postsCacheKey, s.posts)
}

func (s *Service) list(ctx context.Context, key string, source Source) []models.ContentItem {
	if items, ok := s.cached(ctx, key); ok {
		s.metrics.IncCache(key, "hit")
		return items
	}
	s.metrics.IncCache(key, "miss")

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		items, err := source.FetchLatest(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []models.ContentItem{}
		}
		s.storeAsync(key, items)
		return items, nil
	})
	if err != nil {
		s.metrics.IncUpstreamError(key)
		s.logger.WithFields(logging.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Upstream content fetch failed")
		return []models.ContentItem{}
	}

	return result.([]models.ContentItem)
}

func (s *Service) cached(ctx context.Context, key string) ([]models.ContentItem, bool) {
	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WithFields(logging.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Content cache lookup failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var items []models.ContentItem
	if err := json.Unmarshal(value, &items); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the
		// next successful fetch.
		return nil, false
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, true
}

// storeAsync writes the listing to the cache without blocking the response.
// Write failures are logged and swallowed; the next miss simply refetches.
func (s *Service) storeAsync(key string, items []models.ContentItem) {
	value, err := json.Marshal(items)
	if err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
		defer cancel()

		if err := s.store.Put(ctx, key, value, s.ttl); err != nil {
			s.logger.WithFields(logging.Fields{
				"key":   key,
				"error": err.Error(),
			}).Warn("Content cache write failed")
		}
	}()
}
