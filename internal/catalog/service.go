package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	"github.com/adewalecodes/buildbazaar-backend/pkg/redis"
)

// categories change through seeds only, a short TTL keeps ops simple
const categoryCacheTTL = 10 * time.Minute

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service serves the public catalog sections with a read-through cache.
type Service interface {
	ListCategories(ctx context.Context, categoryType *enums.CategoryType) ([]models.Category, error)
}

type service struct {
	repo  Repository
	cache cacheStore
	logg  *logger.Logger
}

// NewService builds the catalog service. The cache is optional.
func NewService(repo Repository, cache cacheStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

func (s *service) ListCategories(ctx context.Context, categoryType *enums.CategoryType) ([]models.Category, error) {
	key := categoryCacheKey(categoryType)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var rows []models.Category
			if unmarshalErr := json.Unmarshal([]byte(cached), &rows); unmarshalErr == nil {
				return rows, nil
			}
			// a corrupt entry falls through to the database
		} else if !redis.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "category cache read failed")
		}
	}

	rows, err := s.repo.ListCategories(ctx, categoryType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		encoded, err := json.Marshal(rows)
		if err == nil {
			if setErr := s.cache.Set(ctx, key, string(encoded), categoryCacheTTL); setErr != nil && s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", setErr.Error()), "category cache write failed")
			}
		}
	}
	return rows, nil
}

func categoryCacheKey(categoryType *enums.CategoryType) string {
	if categoryType == nil {
		return "bb:cache:categories:all"
	}
	return fmt.Sprintf("bb:cache:categories:%s", *categoryType)
}
