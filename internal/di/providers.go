package di

import (
	"fmt"
	"net"
	"strconv"

	domrepo "PulseCast/internal/domain/repository"
	"PulseCast/internal/handler/api"
	internalrepo "PulseCast/internal/repository"
	"PulseCast/internal/service/marketdata"
	"PulseCast/internal/service/okx"
	"PulseCast/internal/service/ratelimit"
	"PulseCast/internal/usecase"
	"PulseCast/pkg/cache"
	pkgch "PulseCast/pkg/clickhouse"
	"PulseCast/pkg/config"
	xhttp "PulseCast/pkg/http"
	pkgkafka "PulseCast/pkg/kafka"
	applogger "PulseCast/pkg/logger"
	"PulseCast/pkg/metrics"
	"PulseCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideStream creates the OKX live trade stream, nil when disabled.
func ProvideStream(cfg *config.Config, l *applogger.Logger) *okx.Stream {
	if !cfg.Venues.OKX.Enabled {
		return nil
	}
	instruments := make([]string, 0, len(cfg.Venues.OKX.Symbols))
	for _, s := range cfg.Venues.OKX.Symbols {
		instruments = append(instruments, marketdata.OKXInstrument(s))
	}
	return okx.New(
		cfg.Venues.OKX.WebSocketURL,
		instruments,
		cfg.Venues.OKX.ReconnectDelay,
		cfg.Venues.OKX.PingInterval,
		l,
	)
}

// ProvideMarketData assembles the snapshot builder with the enabled venues.
func ProvideMarketData(cfg *config.Config, stream *okx.Stream, l *applogger.Logger) domrepo.MarketData {
	kraken := marketdata.NewKraken(cfg.Venues.Kraken.BaseURL, cfg.Venues.Kraken.Timeout)

	opts := []marketdata.BuilderOption{
		marketdata.WithTapeWindow(cfg.Venues.OKX.TapeWindow),
	}
	if cfg.Venues.BinanceFutures.Enabled {
		opts = append(opts, marketdata.WithDerivatives(
			marketdata.NewBinanceFutures(cfg.Venues.BinanceFutures.BaseURL, cfg.Venues.BinanceFutures.Timeout),
		))
	}
	if cfg.Venues.OKX.Enabled {
		opts = append(opts, marketdata.WithReference(
			marketdata.NewOKXRest(cfg.Venues.OKX.BaseURL, 0),
		))
	}
	if cfg.Venues.FearGreed.Enabled {
		opts = append(opts, marketdata.WithSentiment(
			marketdata.NewFearGreed(cfg.Venues.FearGreed.BaseURL, cfg.Venues.FearGreed.Timeout),
		))
	}
	if stream != nil {
		opts = append(opts, marketdata.WithTape(stream))
	}

	return marketdata.NewBuilder(kraken, cfg.Engine.CandleLimit1m, l, opts...)
}

// ProvideCache creates the forecast cache: in-memory always, layered over
// Redis when configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix("pulsecast"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideForecastStore creates the ClickHouse history store, nil when the
// sink is disabled.
func ProvideForecastStore(cfg *config.Config, l *applogger.Logger) (domrepo.ForecastStore, error) {
	if !cfg.Sinks.ClickHouse.Enabled {
		return nil, nil
	}
	ch := cfg.Sinks.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return internalrepo.NewCHForecastStore(client, l), nil
}

// ProvideForecastPublisher creates the Kafka publisher, nil when the sink is
// disabled.
func ProvideForecastPublisher(cfg *config.Config) (domrepo.ForecastPublisher, error) {
	if !cfg.Sinks.Kafka.Enabled {
		return nil, nil
	}
	k := cfg.Sinks.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatchSize(k.Producer.BatchSize),
		pkgkafka.WithBatchBytes(k.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(k.Producer.Linger),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaForecastPublisher(producer, k.Topic), nil
}

// ProvideForecastUseCase wires the evaluation pipeline with the enabled
// sinks and cache.
func ProvideForecastUseCase(
	cfg *config.Config,
	market domrepo.MarketData,
	m domrepo.Metrics,
	store domrepo.ForecastStore,
	pub domrepo.ForecastPublisher,
	c cache.Service,
	l *applogger.Logger,
) *usecase.ForecastUseCase {
	opts := []usecase.Option{
		usecase.WithCache(c, cfg.Cache.ForecastTTL),
		usecase.WithBudget(cfg.Engine.SnapshotBudget),
	}
	if store != nil {
		opts = append(opts, usecase.WithStore(store))
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewForecastUseCase(market, m, l, opts...)
}

// ProvideScanner creates the watchlist scanner.
func ProvideScanner(cfg *config.Config, uc *usecase.ForecastUseCase) *usecase.Scanner {
	return usecase.NewScanner(uc, cfg.Engine.Watchlist)
}

// ProvideHandler creates the Echo API handler.
func ProvideHandler(cfg *config.Config, l *applogger.Logger, uc *usecase.ForecastUseCase, sc *usecase.Scanner) xhttp.Handler {
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New()
	}
	return api.NewForecastHandler(l, uc, sc, limiter, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.ForecastUseCase,
	sc *usecase.Scanner,
	stream *okx.Stream,
	store domrepo.ForecastStore,
	pub domrepo.ForecastPublisher,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, uc, sc, stream, store, pub, handler)
}
