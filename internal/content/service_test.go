package content

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"politicswithalex/api_site/pkg/kv"
	"politicswithalex/api_site/pkg/models"
)

type stubSource struct {
	items []models.ContentItem
	err   error
	calls int64
}

func (s *stubSource) FetchLatest(ctx context.Context) ([]models.ContentItem, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.items, s.err
}

func (s *stubSource) callCount() int64 {
	return atomic.LoadInt64(&s.calls)
}

func newTestService(store kv.Store, videos, posts Source) *Service {
	logger, _ := test.NewNullLogger()
	return NewService(store, videos, posts, logger, nil, time.Hour)
}

func waitForKey(t *testing.T, store kv.Store, key string) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		value, found, err := store.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("store lookup failed: %v", err)
		}
		if found {
			return value
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("cache entry %q never appeared", key)
	return nil
}

func TestServiceMissFetchesAndCaches(t *testing.T) {
	store := kv.NewMemoryStore()
	videos := &stubSource{items: []models.ContentItem{{Kind: models.KindVideo, ID: "vid1", Title: "V"}}}
	svc := newTestService(store, videos, &stubSource{})

	items := svc.Videos(context.Background())
	if len(items) != 1 || items[0].ID != "vid1" {
		t.Fatalf("unexpected items %+v", items)
	}
	if videos.callCount() != 1 {
		t.Fatalf("expected one upstream call, got %d", videos.callCount())
	}

	value := waitForKey(t, store, "youtube_videos")
	var cached []models.ContentItem
	if err := json.Unmarshal(value, &cached); err != nil {
		t.Fatalf("cache entry is not valid JSON: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != "vid1" {
		t.Fatalf("unexpected cache contents %+v", cached)
	}
}

func TestServiceHitSkipsUpstream(t *testing.T) {
	store := kv.NewMemoryStore()
	seed, _ := json.Marshal([]models.ContentItem{{Kind: models.KindPost, ID: "post-0", Title: "P"}})
	if err := store.Put(context.Background(), "medium_posts", seed, time.Hour); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	posts := &stubSource{items: []models.ContentItem{{ID: "fresh"}}}
	svc := newTestService(store, &stubSource{}, posts)

	items := svc.Posts(context.Background())
	if len(items) != 1 || items[0].ID != "post-0" {
		t.Fatalf("expected cached listing, got %+v", items)
	}
	if posts.callCount() != 0 {
		t.Fatalf("expected no upstream call on a hit, got %d", posts.callCount())
	}
}

func TestServiceUpstreamFailureDegradesToEmpty(t *testing.T) {
	store := kv.NewMemoryStore()
	videos := &stubSource{err: errors.New("quota exceeded")}
	svc := newTestService(store, videos, &stubSource{})

	items := svc.Videos(context.Background())
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil listing, got %+v", items)
	}
	if store.Len() != 0 {
		t.Fatal("failed fetch must not populate the cache")
	}
}

func TestServiceCorruptCacheEntryTreatedAsMiss(t *testing.T) {
	store := kv.NewMemoryStore()
	if err := store.Put(context.Background(), "youtube_videos", []byte("{not json"), time.Hour); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	videos := &stubSource{items: []models.ContentItem{{ID: "vid1"}}}
	svc := newTestService(store, videos, &stubSource{})

	items := svc.Videos(context.Background())
	if len(items) != 1 || items[0].ID != "vid1" {
		t.Fatalf("expected refetched listing, got %+v", items)
	}
	if videos.callCount() != 1 {
		t.Fatalf("expected an upstream call past the corrupt entry, got %d", videos.callCount())
	}
}

func TestServiceStoreFailureIsNonFatal(t *testing.T) {
	videos := &stubSource{items: []models.ContentItem{{ID: "vid1"}}}
	svc := newTestService(failingKV{}, videos, &stubSource{})

	items := svc.Videos(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected listing despite store failure, got %+v", items)
	}
}

type ttlCapturingStore struct {
	*kv.MemoryStore
	mu   sync.Mutex
	ttls []time.Duration
}

func (s *ttlCapturingStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.ttls = append(s.ttls, ttl)
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, key, value, ttl)
}

func (s *ttlCapturingStore) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.ttls...)
}

func TestServiceCacheWriteCarriesConfiguredTTL(t *testing.T) {
	store := &ttlCapturingStore{MemoryStore: kv.NewMemoryStore()}
	videos := &stubSource{items: []models.ContentItem{{ID: "vid1"}}}
	svc := newTestService(store, videos, &stubSource{})

	svc.Videos(context.Background())
	waitForKey(t, store, "youtube_videos")

	ttls := store.recorded()
	if len(ttls) != 1 {
		t.Fatalf("expected one cache write, got %d", len(ttls))
	}
	if ttls[0] != time.Hour {
		t.Fatalf("cache write carried ttl %v, want the configured hour", ttls[0])
	}
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingKV) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("store down")
}
