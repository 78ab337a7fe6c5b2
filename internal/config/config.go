// Package config centralizes environment configuration for the bet engine:
// connection strings, ledger limits, and fee/tolerance knobs.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/updown/bet-engine/internal/oracle"
	"github.com/updown/bet-engine/internal/payout"
	"github.com/updown/bet-engine/internal/risk"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// Ledger limits.
	MinStake    int64
	MaxStake    int64
	MinDuration int64 // seconds
	MaxDuration int64 // seconds

	// Settlement knobs.
	FeeBps          int64
	MaxShareBps     int64
	MinRiskVolume   int64
	OracleTolerance int64 // seconds

	// Clock.
	GenesisTime     int64
	SecondsPerBlock int64

	// Access gate.
	Paused          bool
	AuthorizedFeeds []string
	CustodyAccount  string
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		MinStake:    getEnvInt("MIN_STAKE", 1_000_000),
		MaxStake:    getEnvInt("MAX_STAKE", 1_000_000_000_000),
		MinDuration: getEnvInt("MIN_DURATION_SECS", 300),
		MaxDuration: getEnvInt("MAX_DURATION_SECS", 604800),

		FeeBps:          getEnvInt("FEE_BPS", payout.DefaultFeeBps),
		MaxShareBps:     getEnvInt("MAX_SHARE_BPS", risk.DefaultMaxShareBps),
		MinRiskVolume:   getEnvInt("MIN_RISK_VOLUME", risk.DefaultMinVolume),
		OracleTolerance: getEnvInt("ORACLE_TOLERANCE_SECS", oracle.DefaultTolerance),

		GenesisTime:     getEnvInt("GENESIS_TIME", 0),
		SecondsPerBlock: getEnvInt("SECONDS_PER_BLOCK", 1),

		Paused:          getEnv("PAUSED", "false") == "true",
		AuthorizedFeeds: splitList(getEnv("AUTHORIZED_FEEDS", "")),
		CustodyAccount:  getEnv("CUSTODY_ACCOUNT", "custody"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
