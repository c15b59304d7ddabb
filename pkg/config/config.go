package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Engine struct {
		Watchlist      []string      `yaml:"watchlist"`
		RefreshEvery   time.Duration `yaml:"refresh_every"`
		CandleLimit1m  int           `yaml:"candle_limit_1m"`
		SnapshotBudget time.Duration `yaml:"snapshot_budget"`
	} `yaml:"engine"`
	Venues struct {
		Kraken struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"kraken"`
		BinanceFutures struct {
			Enabled bool          `yaml:"enabled"`
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"binance_futures"`
		OKX struct {
			Enabled        bool          `yaml:"enabled"`
			BaseURL        string        `yaml:"base_url"`
			WebSocketURL   string        `yaml:"websocket_url"`
			Symbols        []string      `yaml:"symbols"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
			TapeWindow     time.Duration `yaml:"tape_window"`
		} `yaml:"okx"`
		FearGreed struct {
			Enabled bool          `yaml:"enabled"`
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"fear_greed"`
	} `yaml:"venues"`
	Sinks struct {
		Kafka struct {
			Enabled      bool     `yaml:"enabled"`
			Brokers      []string `yaml:"brokers"`
			Topic        string   `yaml:"topic"`
			RequiredAcks int      `yaml:"required_acks"`
			Compression  string   `yaml:"compression"`
			Producer     struct {
				MaxAttempts  int           `yaml:"max_attempts"`
				Linger       time.Duration `yaml:"linger"`
				BatchBytes   int           `yaml:"batch_bytes"`
				BatchSize    int           `yaml:"batch_size"`
				WriteTimeout time.Duration `yaml:"write_timeout"`
				ReadTimeout  time.Duration `yaml:"read_timeout"`
				Async        bool          `yaml:"async"`
			} `yaml:"producer"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Enabled          bool          `yaml:"enabled"`
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			AsyncInsert      bool          `yaml:"async_insert"`
			WaitForAsync     bool          `yaml:"wait_for_async_insert"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"sinks"`
	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
		ForecastTTL time.Duration `yaml:"forecast_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Enabled bool `yaml:"enabled"`
		Rate    int  `yaml:"rate"`
		Burst   int  `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Engine.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Sinks.Kafka.Brokers = strings.Split(v, ",")
		c.Sinks.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Sinks.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Sinks.ClickHouse.Host = v
		c.Sinks.ClickHouse.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Engine.RefreshEvery == 0 {
		c.Engine.RefreshEvery = 30 * time.Second
	}
	if c.Engine.CandleLimit1m == 0 {
		c.Engine.CandleLimit1m = 100
	}
	if c.Engine.SnapshotBudget == 0 {
		c.Engine.SnapshotBudget = 10 * time.Second
	}
	if c.Venues.Kraken.BaseURL == "" {
		c.Venues.Kraken.BaseURL = "https://api.kraken.com"
	}
	if c.Venues.BinanceFutures.BaseURL == "" {
		c.Venues.BinanceFutures.BaseURL = "https://fapi.binance.com"
	}
	if c.Venues.OKX.BaseURL == "" {
		c.Venues.OKX.BaseURL = "https://www.okx.com"
	}
	if c.Venues.OKX.WebSocketURL == "" {
		c.Venues.OKX.WebSocketURL = "wss://ws.okx.com:8443/ws/v5/public"
	}
	if c.Venues.OKX.TapeWindow == 0 {
		c.Venues.OKX.TapeWindow = 2 * time.Minute
	}
	if len(c.Venues.OKX.Symbols) == 0 {
		c.Venues.OKX.Symbols = c.Engine.Watchlist
	}
	if c.Venues.FearGreed.BaseURL == "" {
		c.Venues.FearGreed.BaseURL = "https://api.alternative.me"
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = 15 * time.Second
	}
	if c.Cache.ForecastTTL == 0 {
		c.Cache.ForecastTTL = 20 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Engine.Watchlist) == 0 {
		return fmt.Errorf("engine.watchlist cannot be empty")
	}
	if c.Sinks.Kafka.Enabled && len(c.Sinks.Kafka.Brokers) == 0 {
		return fmt.Errorf("sinks.kafka.brokers required when kafka sink enabled")
	}
	if c.Sinks.ClickHouse.Enabled && c.Sinks.ClickHouse.Host == "" {
		return fmt.Errorf("sinks.clickhouse.host required when clickhouse sink enabled")
	}
	return nil
}
