// Package config loads the aggregator's JSON configuration file, the
// same os.ReadFile + json.Unmarshal style the teacher's collector and
// processor services load their own config with.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the obs server's full configuration.
type Config struct {
	Depth     DepthConfig      `json:"depth"`
	RPC       RPCConfig        `json:"rpc"`
	Exchanges []ExchangeConfig `json:"exchanges"`
	Kafka     KafkaConfig      `json:"kafka"`
	Redis     RedisConfig      `json:"redis"`
	Log       LogConfig        `json:"log"`
}

// DepthConfig bounds how many aggregate levels each side of a
// subscriber's book keeps. SoftenOrderingViolations is parsed from the
// file but the server does not pass it on to the subscriber books, so
// every book treats an ordering violation as fatal.
type DepthConfig struct {
	Levels                   int  `json:"levels"`
	SoftenOrderingViolations bool `json:"soften_ordering_violations"`
}

// RPCConfig configures the BookSummary gRPC listener.
type RPCConfig struct {
	ListenOn string `json:"listen_on"`
}

// ExchangeConfig is trimmed from the teacher's collector config to
// what a streaming adapter actually needs: no Channels field, since
// this system only ever subscribes to one depth channel per exchange.
type ExchangeConfig struct {
	Name   string `json:"name"`
	Enable bool   `json:"enable"`
}

// KafkaConfig configures the operational lifecycle event producer.
type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

// RedisConfig configures the per-exchange connection status cache.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default is used when no config file is given: depth 10, loopback
// gRPC on the default port, no Kafka or Redis wiring.
func Default() Config {
	return Config{
		Depth: DepthConfig{Levels: 10},
		RPC:   RPCConfig{ListenOn: "[::1]:50000"},
		Log:   LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
