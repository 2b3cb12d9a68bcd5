package usecase

import (
	"context"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/service/cache"
	applogger "StockTerm/pkg/logger"
)

const (
	maxNewsItems = 10
	newsCacheKey = "news:latest"
)

type NewsResult struct {
	News      []models.NewsItem `json:"news"`
	Count     int               `json:"count"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewsUseCase serves market headlines. A successful fetch is cached for ttl;
// a failed one yields an empty list and is not cached.
type NewsUseCase struct {
	provider drepo.NewsProvider
	cache    *cache.TTLCache
	ttl      time.Duration
	log      *applogger.Logger
	now      func() time.Time
}

func NewNewsUseCase(provider drepo.NewsProvider, c *cache.TTLCache, ttl time.Duration, log *applogger.Logger) *NewsUseCase {
	if c == nil {
		c = cache.NewTTLCache()
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &NewsUseCase{provider: provider, cache: c, ttl: ttl, log: log, now: time.Now}
}

// Latest returns at most ten headlines, newest first as the provider sent them.
func (uc *NewsUseCase) Latest(ctx context.Context) NewsResult {
	if v, ok := uc.cache.Get(newsCacheKey); ok {
		items := v.([]models.NewsItem)
		return NewsResult{News: items, Count: len(items), Timestamp: uc.now()}
	}

	items := []models.NewsItem{}
	if uc.provider != nil {
		got, err := uc.provider.GetNews(ctx)
		if err != nil {
			uc.log.Warn("news fetch failed", applogger.Error(err))
		} else {
			if len(got) > maxNewsItems {
				got = got[:maxNewsItems]
			}
			items = append(items, got...)
			uc.cache.Set(newsCacheKey, items, uc.ttl)
		}
	}
	return NewsResult{News: items, Count: len(items), Timestamp: uc.now()}
}
