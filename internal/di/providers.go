package di

import (
	"context"
	"fmt"
	"time"

	"StockTerm/internal/domain/repository"
	"StockTerm/internal/domain/service"
	"StockTerm/internal/handler/api"
	"StockTerm/internal/handler/ws"
	mid "StockTerm/internal/middleware"
	internalrepo "StockTerm/internal/repository"
	"StockTerm/internal/service/cache"
	svcmetrics "StockTerm/internal/service/metrics"
	"StockTerm/internal/service/quotes"
	"StockTerm/internal/service/ratelimit"
	"StockTerm/internal/services/analytics"
	"StockTerm/internal/services/search"
	"StockTerm/internal/usecase"
	pkgch "StockTerm/pkg/clickhouse"
	"StockTerm/pkg/config"
	xhttp "StockTerm/pkg/http"
	pkgkafka "StockTerm/pkg/kafka"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/metrics"
	"StockTerm/pkg/scheduler"
	"StockTerm/pkg/server"
	"StockTerm/pkg/store"
	"StockTerm/pkg/util"
)

const (
	memoryHistoryPerSymbol = 2880 // two days at the default refresh interval
	predictRequestsPerMin  = 10
	newsRequestsPerMin     = 20
	limiterPruneInterval   = 5 * time.Minute
)

// APILimiter throttles every /api route per client IP.
type APILimiter struct{ *ratelimit.Limiter }

// PredictLimiter throttles POST /api/predict on top of APILimiter.
type PredictLimiter struct{ *ratelimit.Limiter }

// NewsLimiter throttles GET /api/news on top of APILimiter.
type NewsLimiter struct{ *ratelimit.Limiter }

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder and registers the
// upstream call collectors next to it.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideStore picks the persistent store named by store.type.
func ProvideStore(cfg *config.Config) (store.Store, error) {
	if cfg.Store.Type != "redis" {
		return store.NewMemoryStore(), nil
	}
	s, err := store.NewRedisStore(
		store.WithRedisAddr(cfg.Store.Redis.Addr),
		store.WithRedisPassword(cfg.Store.Redis.Password),
		store.WithRedisDB(cfg.Store.Redis.DB),
		store.WithRedisPrefix(cfg.Store.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	return s, nil
}

func ProvideHoldingsRepository(s store.Store) repository.HoldingsRepository {
	return internalrepo.NewStoreHoldingsRepository(s)
}

func ProvideShortcutsRepository(s store.Store) repository.ShortcutsRepository {
	return internalrepo.NewStoreShortcutsRepository(s)
}

// ProvideClickHouseClient connects and creates the history table. It returns
// nil when history is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	c := cfg.History.ClickHouse

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(c.Host, c.Port),
		pkgch.WithDatabase(c.Database),
		pkgch.WithCredentials(c.User, c.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(c.UseHTTP),
		pkgch.WithTimeouts(c.DialTimeout, c.ReadTimeout),
		pkgch.WithAsyncInsert(c.AsyncInsert),
		pkgch.WithMaxExecutionTime(c.MaxExecTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS " + c.Database}, internalrepo.SchemaStatements(c.Database+"."+c.Table)...)
	if err := client.InitSchema(ctx, stmts...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideQuoteHistory uses ClickHouse when connected and an in-process ring otherwise.
func ProvideQuoteHistory(client *pkgch.Client, cfg *config.Config, log *applogger.Logger) repository.QuoteHistory {
	if client == nil {
		return internalrepo.NewMemoryQuoteHistory(memoryHistoryPerSymbol)
	}
	c := cfg.History.ClickHouse
	return internalrepo.NewClickHouseQuoteHistory(client, c.Database+"."+c.Table, log)
}

// ProvideKafkaProducer returns nil when events are disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithTopic(cfg.Events.Topic),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Events.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPipeline puts the retry pipeline in front of Kafka, or in front
// of a no-op publisher when events are disabled. The App starts its retry loop.
func ProvideEventPipeline(producer *pkgkafka.Producer, cfg *config.Config, m repository.Metrics, log *applogger.Logger) *mid.EventPipeline {
	var next repository.EventPublisher = internalrepo.NoopEventPublisher{}
	if producer != nil {
		next = internalrepo.NewKafkaEventPublisher(producer, cfg.Events.Topic)
	}
	return mid.NewEventPipeline(next, m, mid.WithPipelineLogger(log))
}

func ProvideQuotesClient(cfg *config.Config) *quotes.Client {
	return quotes.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.Timeout)
}

func ProvideSymbolLookup(client *quotes.Client, cfg *config.Config) repository.SymbolLookup {
	return quotes.NewLookup(client, cfg.Quotes.Suffix)
}

func ProvideMatcher(cfg *config.Config) (*search.Matcher, error) {
	catalog, err := search.LoadCatalog(cfg.Search.CatalogPath)
	if err != nil {
		return nil, err
	}
	return search.NewMatcher(catalog, search.WithMaxResults(cfg.Search.MaxResults))
}

func ProvideQuoteBook(cfg *config.Config) *usecase.QuoteBook {
	return usecase.NewQuoteBook(cache.NewTTLCache(), cfg.QuoteStaleAfter())
}

func ProvideQuotesUseCase(book *usecase.QuoteBook, client *quotes.Client) *usecase.QuotesUseCase {
	return usecase.NewQuotesUseCase(book, client)
}

func ProvidePortfolioUseCase(
	repo repository.HoldingsRepository,
	book *usecase.QuoteBook,
	events *mid.EventPipeline,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.PortfolioUseCase {
	return usecase.NewPortfolioUseCase(repo, book, events, m, log)
}

func ProvideSearchUseCase(
	matcher *search.Matcher,
	lookup repository.SymbolLookup,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.SearchUseCase {
	return usecase.NewSearchUseCase(matcher, lookup, m, log, cfg.Search.Debounce)
}

// ProvideHistoryUseCase serves bars from the quote service and falls back to recorded history.
func ProvideHistoryUseCase(h repository.QuoteHistory, client *quotes.Client, log *applogger.Logger) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(h,
		usecase.WithCandleProvider(client),
		usecase.WithHistoryLogger(log),
	)
}

func ProvideNewsUseCase(client *quotes.Client, cfg *config.Config, log *applogger.Logger) *usecase.NewsUseCase {
	return usecase.NewNewsUseCase(client, cache.NewTTLCache(), cfg.News.CacheTTL, log)
}

// ProvidePredictor returns a nil interface, not a typed nil, when no service is configured.
func ProvidePredictor(cfg *config.Config) service.Predictor {
	if cfg.Predict.ServiceURL == "" {
		return nil
	}
	return analytics.NewHTTPPredictor(cfg.Predict.ServiceURL, cfg.Predict.Timeout)
}

func ProvidePredictUseCase(p service.Predictor, q *usecase.QuotesUseCase) *usecase.PredictUseCase {
	return usecase.NewPredictUseCase(p, q)
}

func ProvideHub(log *applogger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideQuoteRefresher wires the refresher to the websocket hub.
func ProvideQuoteRefresher(
	client *quotes.Client,
	book *usecase.QuoteBook,
	holdings repository.HoldingsRepository,
	history repository.QuoteHistory,
	m repository.Metrics,
	log *applogger.Logger,
	hub *ws.Hub,
	cfg *config.Config,
) *usecase.QuoteRefresher {
	symbols := make([]string, 0, len(cfg.Quotes.Symbols))
	for _, s := range cfg.Quotes.Symbols {
		if s = util.NormalizeSymbol(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	symbols = util.UniqueStrings(symbols)
	if len(symbols) > 0 {
		log.Info("quote refresher tracking symbols", applogger.Strings("symbols", symbols))
	}
	r := usecase.NewQuoteRefresher(client, book, holdings, history, m, log, symbols)
	r.SetBroadcaster(hub)
	return r
}

// ProvideAPILimiter returns an empty wrapper when rate limiting is off.
func ProvideAPILimiter(cfg *config.Config) APILimiter {
	if !cfg.Server.RateLimit.Enabled {
		return APILimiter{}
	}
	return APILimiter{ratelimit.New(cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)}
}

func ProvidePredictLimiter() PredictLimiter {
	return PredictLimiter{ratelimit.New(predictRequestsPerMin, time.Minute)}
}

func ProvideNewsLimiter() NewsLimiter {
	return NewsLimiter{ratelimit.New(newsRequestsPerMin, time.Minute)}
}

// ProvideHandlers lists every route group in registration order.
func ProvideHandlers(
	log *applogger.Logger,
	book *usecase.QuoteBook,
	quotesUC *usecase.QuotesUseCase,
	historyUC *usecase.HistoryUseCase,
	portfolioUC *usecase.PortfolioUseCase,
	searchUC *usecase.SearchUseCase,
	predictUC *usecase.PredictUseCase,
	newsUC *usecase.NewsUseCase,
	shortcuts repository.ShortcutsRepository,
	hub *ws.Hub,
	predictLimiter PredictLimiter,
	newsLimiter NewsLimiter,
) xhttp.Handlers {
	return xhttp.Handlers{
		api.NewHealthHandler(book),
		api.NewQuotesHandler(log, quotesUC, historyUC),
		api.NewPortfolioHandler(log, portfolioUC),
		api.NewSearchHandler(log, searchUC),
		api.NewShortcutsHandler(log, shortcuts),
		api.NewPredictHandler(log, predictUC, predictLimiter.Limiter),
		api.NewNewsHandler(newsUC, newsLimiter.Limiter),
		hub,
		ws.NewSearchHandler(searchUC, log),
	}
}

func ProvideHTTPServer(cfg *config.Config, log *applogger.Logger, handlers xhttp.Handlers, limiter APILimiter) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithAllowOrigins(cfg.Server.AllowOrigins),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	} else {
		opts = append(opts, xhttp.WithMetricsPath(""))
	}
	if limiter.Limiter != nil {
		opts = append(opts, xhttp.WithRateLimit(limiter.Limiter, "/api"))
	}
	return xhttp.NewServer(log, handlers, opts...)
}

// ProvideApp schedules the background jobs and hands every closable resource to the App.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	srv *xhttp.Server,
	refresher *usecase.QuoteRefresher,
	apiLimiter APILimiter,
	predictLimiter PredictLimiter,
	newsLimiter NewsLimiter,
	s store.Store,
	chClient *pkgch.Client,
	events *mid.EventPipeline,
) *server.App {
	limiters := []*ratelimit.Limiter{predictLimiter.Limiter, newsLimiter.Limiter}
	if apiLimiter.Limiter != nil {
		limiters = append(limiters, apiLimiter.Limiter)
	}
	prune := scheduler.FuncJob{JobName: "ratelimit_prune", Fn: func(context.Context) error {
		n := 0
		for _, l := range limiters {
			n += l.Prune()
		}
		if n > 0 {
			log.Debug("rate limit buckets pruned", applogger.Int("count", n))
		}
		return nil
	}}

	app := server.New(log, srv,
		server.ScheduledJob{Spec: scheduler.Every(cfg.Quotes.RefreshInterval), Job: refresher, RunAtStart: true},
		server.ScheduledJob{Spec: scheduler.Every(limiterPruneInterval), Job: prune},
	)
	app.AddWorker("event_pipeline", events)
	app.OnClose("store", s)
	if chClient != nil {
		app.OnClose("clickhouse", chClient)
	}
	app.OnClose("events", events)
	return app
}
