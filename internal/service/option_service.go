package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

type optionStore interface {
	ListLabels(ctx context.Context, ownerID string) ([]string, error)
	SeedDefaults(ctx context.Context, ownerID string, labels []string) (int64, error)
	Count(ctx context.Context, ownerID string) (int, error)
}

type optionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OptionService manages the per-owner classification label catalog, seeding
// the defaults on first use.
type OptionService struct {
	repo     optionStore
	cache    optionCache
	logger   *zap.Logger
	cacheTTL time.Duration
	defaults []string
}

// NewOptionService constructs the service. cache may be nil when Redis is
// not configured.
func NewOptionService(repo optionStore, cache optionCache, logger *zap.Logger, cacheTTL time.Duration, defaults []string) *OptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &OptionService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
		defaults: defaults,
	}
}

// EnsureSeeded inserts the default labels for the owner if it has none.
// Safe to call repeatedly and from concurrent requests: the insert skips
// labels that already exist, so the catalog is seeded at most once.
func (s *OptionService) EnsureSeeded(ctx context.Context, ownerID string) error {
	count, err := s.repo.Count(ctx, ownerID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	inserted, err := s.repo.SeedDefaults(ctx, ownerID, s.defaults)
	if err != nil {
		return err
	}
	if inserted > 0 {
		s.invalidate(ctx, ownerID)
		s.logger.Info("seeded default classification options",
			zap.String("owner_id", ownerID), zap.Int64("inserted", inserted))
	}
	return nil
}

// List returns the owner's labels in insertion order.
func (s *OptionService) List(ctx context.Context, ownerID string) ([]string, error) {
	key := optionsCacheKey(ownerID)
	if s.cache != nil {
		var cached []string
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("options cache read failed", zap.Error(err), zap.String("owner_id", ownerID))
		}
	}

	labels, err := s.repo.ListLabels(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, labels, s.cacheTTL); err != nil {
			s.logger.Warn("options cache write failed", zap.Error(err), zap.String("owner_id", ownerID))
		}
	}
	return labels, nil
}

// Options seeds if needed and returns the catalog, backing the listing
// endpoint.
func (s *OptionService) Options(ctx context.Context, ownerID string) ([]string, error) {
	if err := s.EnsureSeeded(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.List(ctx, ownerID)
}

func (s *OptionService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, optionsCacheKey(ownerID)); err != nil {
		s.logger.Warn("options cache invalidation failed", zap.Error(err), zap.String("owner_id", ownerID))
	}
}

func optionsCacheKey(ownerID string) string {
	return fmt.Sprintf("options:%s", ownerID)
}
