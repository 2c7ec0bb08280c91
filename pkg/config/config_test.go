package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func writeConfig(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

const minimalConfig = `
environment: development
server:
  port: 8080
source:
  type: sim
  market: crypto
`

func TestLoadAppliesDefaults(t *testing.T) {
    cfg, err := Load(writeConfig(t, minimalConfig))
    if err != nil {
        t.Fatalf("load: %v", err)
    }

    if cfg.Pipeline.FeedCap != 50 {
        t.Fatalf("expected feed cap 50, got %d", cfg.Pipeline.FeedCap)
    }
    if cfg.Pipeline.NotificationTTL != 5*time.Second {
        t.Fatalf("expected notification ttl 5s, got %v", cfg.Pipeline.NotificationTTL)
    }
    if cfg.Source.Sim.Interval != 5*time.Second {
        t.Fatalf("expected sim interval 5s, got %v", cfg.Source.Sim.Interval)
    }
    if cfg.Source.Sim.Probability != 0.4 {
        t.Fatalf("expected probability 0.4, got %v", cfg.Source.Sim.Probability)
    }
    if cfg.Source.Sim.Burst != 6 {
        t.Fatalf("expected burst 6, got %d", cfg.Source.Sim.Burst)
    }
    if cfg.Backend.Type != "none" {
        t.Fatalf("expected backend none, got %s", cfg.Backend.Type)
    }
    if cfg.Feed.PageSize != 20 {
        t.Fatalf("expected page size 20, got %d", cfg.Feed.PageSize)
    }
}

func TestValidateRejectsBadEnums(t *testing.T) {
    cases := []string{
        "environment: dev\nsource:\n  type: poll\n  market: crypto\n",
        "environment: dev\nsource:\n  type: sim\n  market: forex\n",
        "environment: dev\nsource:\n  type: sim\n  market: crypto\nbackend:\n  type: postgres\n",
        "environment: dev\nsource:\n  type: sim\n  market: crypto\ncache:\n  type: disk\n",
    }
    for i, body := range cases {
        if _, err := Load(writeConfig(t, body)); err == nil {
            t.Fatalf("case %d: expected validation error", i)
        }
    }
}

func TestValidateKafkaBackendNeedsBrokers(t *testing.T) {
    body := `
environment: development
source:
  type: sim
  market: crypto
backend:
  type: kafka
`
    if _, err := Load(writeConfig(t, body)); err == nil {
        t.Fatalf("expected error for kafka backend without brokers")
    }
}

func TestValidatePushSourceNeedsAPIKey(t *testing.T) {
    body := `
environment: development
source:
  type: push
  market: stock
`
    if _, err := Load(writeConfig(t, body)); err == nil {
        t.Fatalf("expected error for push source without api key")
    }
}

func TestLoadWithEnvOverrides(t *testing.T) {
    t.Setenv("BACKEND", "kafka")
    t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
    t.Setenv("KAFKA_TOPIC", "anomalies")
    t.Setenv("MARKET", "stock")

    cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Backend.Type != "kafka" {
        t.Fatalf("expected backend override, got %s", cfg.Backend.Type)
    }
    if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" {
        t.Fatalf("unexpected brokers %v", cfg.Kafka.Brokers)
    }
    if cfg.Kafka.Topic != "anomalies" {
        t.Fatalf("unexpected topic %s", cfg.Kafka.Topic)
    }
    if cfg.Source.Market != "stock" {
        t.Fatalf("expected market override, got %s", cfg.Source.Market)
    }
}
