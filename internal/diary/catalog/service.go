package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/liftingdiary/internal/diary/schema"
	"github.com/2beens/liftingdiary/internal/telemetry/metrics"
	"github.com/2beens/liftingdiary/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=catalog_test

const (
	cacheKeyAll = "catalog::all"
	// freecache never goes below 512KB
	cacheSize = 512 * 1024
)

type catalogRepo interface {
	List(ctx context.Context) ([]schema.ExerciseCatalogEntry, error)
}

// Service serves the exercise catalog. Catalog entries are reference data
// that never change at runtime, so the whole list is cached for ttl.
type Service struct {
	repo           catalogRepo
	cache          *freecache.Cache
	ttl            time.Duration
	metricsManager *metrics.Manager
}

// NewService creates the catalog service; a non-positive ttl disables caching.
func NewService(repo catalogRepo, ttl time.Duration, metricsManager *metrics.Manager) *Service {
	s := &Service{
		repo:           repo,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
	if ttl > 0 {
		s.cache = freecache.NewCache(cacheSize)
	}
	return s
}

func (s *Service) List(ctx context.Context) (_ []schema.ExerciseCatalogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.catalog.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if entries, ok := s.fromCache(); ok {
		return entries, nil
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercise catalog: %w", err)
	}

	s.toCache(entries)
	return entries, nil
}

// Invalidate drops the cached list, used after seeding.
func (s *Service) Invalidate() {
	if s.cache == nil {
		return
	}
	s.cache.Del([]byte(cacheKeyAll))
}

func (s *Service) fromCache() ([]schema.ExerciseCatalogEntry, bool) {
	if s.cache == nil {
		return nil, false
	}

	entriesBytes, err := s.cache.Get([]byte(cacheKeyAll))
	if err != nil {
		s.countCache("miss")
		return nil, false
	}

	var entries []schema.ExerciseCatalogEntry
	if err := json.Unmarshal(entriesBytes, &entries); err != nil {
		log.Errorf("failed to unmarshal exercise catalog from cache: %s", err)
		s.countCache("miss")
		return nil, false
	}

	s.countCache("hit")
	return entries, true
}

func (s *Service) toCache(entries []schema.ExerciseCatalogEntry) {
	if s.cache == nil {
		return
	}

	entriesBytes, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("failed to marshal exercise catalog for cache: %s", err)
		return
	}
	expireSeconds := int(s.ttl.Seconds())
	if expireSeconds < 1 {
		expireSeconds = 1
	}
	if err := s.cache.Set([]byte(cacheKeyAll), entriesBytes, expireSeconds); err != nil {
		log.Errorf("failed to write exercise catalog cache: %s", err)
		return
	}
	log.Debugf("exercise catalog cache set, %d entries", len(entries))
}

func (s *Service) countCache(result string) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterCatalogCache.WithLabelValues(result).Inc()
}
