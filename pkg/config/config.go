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
	Source struct {
		Type   string `yaml:"type"`   // "sim" or "push"
		Market string `yaml:"market"` // market the collector subscribes to
		Sim    struct {
			Interval    time.Duration `yaml:"interval"`
			Probability float64       `yaml:"probability"`
			Burst       int           `yaml:"burst"`
		} `yaml:"sim"`
		Push struct {
			APIKey         string        `yaml:"api_key"`
			WebSocketURL   string        `yaml:"websocket_url"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"push"`
	} `yaml:"source"`
	Pipeline struct {
		FeedCap         int           `yaml:"feed_cap"`
		NotificationTTL time.Duration `yaml:"notification_ttl"`
		MaxRPS          int           `yaml:"max_rps"`
		BufferSize      int           `yaml:"buffer_size"`
	} `yaml:"pipeline"`
	Backend struct {
		Type string `yaml:"type"` // "kafka", "clickhouse", or "none"
	} `yaml:"backend"`
	Kafka struct {
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
	Feed struct {
		BaseURL  string        `yaml:"base_url"`
		PageSize int           `yaml:"page_size"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"feed"`
	Cache struct {
		Type       string        `yaml:"type"` // "memory", "redis", or "layered"
		HistoryTTL time.Duration `yaml:"history_ttl"`
		Redis      struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
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

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("DETECTOR_API_KEY"); v != "" {
		c.Source.Push.APIKey = v
	}
	if v := os.Getenv("SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("MARKET"); v != "" {
		c.Source.Market = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("FEED_BASE_URL"); v != "" {
		c.Feed.BaseURL = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.FeedCap == 0 {
		c.Pipeline.FeedCap = 50
	}
	if c.Pipeline.NotificationTTL == 0 {
		c.Pipeline.NotificationTTL = 5 * time.Second
	}
	if c.Source.Sim.Interval == 0 {
		c.Source.Sim.Interval = 5 * time.Second
	}
	if c.Source.Sim.Probability == 0 {
		c.Source.Sim.Probability = 0.4
	}
	if c.Source.Sim.Burst == 0 {
		c.Source.Sim.Burst = 6
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 20
	}
	if c.Source.Type == "" {
		c.Source.Type = "sim"
	}
	if c.Source.Market == "" {
		c.Source.Market = "crypto"
	}
	if c.Backend.Type == "" {
		c.Backend.Type = "none"
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Source.Type != "sim" && c.Source.Type != "push" {
		return fmt.Errorf("source.type must be 'sim' or 'push', got '%s'", c.Source.Type)
	}
	if c.Source.Market != "crypto" && c.Source.Market != "stock" {
		return fmt.Errorf("source.market must be 'crypto' or 'stock', got '%s'", c.Source.Market)
	}
	if c.Source.Type == "push" && c.Source.Push.APIKey == "" {
		return fmt.Errorf("source.push.api_key is required for push source")
	}
	switch c.Backend.Type {
	case "kafka", "clickhouse", "none":
	default:
		return fmt.Errorf("backend.type must be 'kafka', 'clickhouse', or 'none', got '%s'", c.Backend.Type)
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty for kafka backend")
	}
	switch c.Cache.Type {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.type must be 'memory', 'redis', or 'layered', got '%s'", c.Cache.Type)
	}
	return nil
}
