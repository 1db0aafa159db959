package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/safesignal/chainassure"
	"github.com/safesignal/chainassure/registry"
)

// cliConfig holds everything the commands need, loaded from environment
// variables with flag overrides on top.
type cliConfig struct {
	WalletRPC string // wallet bridge endpoint (e.g. Frame at 127.0.0.1:1248)
	NodeRPC   string // read-only node endpoint for the target chain
	ChainID   uint64
	Contract  string
	LogLevel  string
	LogFormat string
}

func loadConfig() cliConfig {
	return cliConfig{
		WalletRPC: getEnv("CHAINASSURE_WALLET_RPC", "http://127.0.0.1:1248"),
		NodeRPC:   getEnv("CHAINASSURE_NODE_RPC", ""),
		ChainID:   getEnvUint("CHAINASSURE_CHAIN_ID", 11142220),
		Contract:  getEnv("CHAINASSURE_CONTRACT", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// targetChain resolves the configured chain id against the catalog,
// falling back to the catalog's RPC endpoint when no node RPC is set.
func (c *cliConfig) targetChain() (chainassure.ChainDescriptor, error) {
	target, ok := registry.Default().Lookup(c.ChainID)
	if !ok {
		return chainassure.ChainDescriptor{}, fmt.Errorf("chain id %d is not in the catalog", c.ChainID)
	}
	if c.NodeRPC == "" && len(target.RPCEndpoints) > 0 {
		c.NodeRPC = target.RPCEndpoints[0]
	}
	return target, nil
}

func (c cliConfig) logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
