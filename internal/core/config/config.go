package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type CacheCfg struct {
	RedisAddr  string
	TTLDefault time.Duration
	MemorySize int
	OpTimeout  time.Duration
}

type Config struct {
	InputPath   string
	OutputPath  string
	OverpassURL string
	LogLevel    string

	PadFraction   float64
	H3Res         int
	FetchTimeout  time.Duration
	FetchParallel bool

	Cache CacheCfg
}

func FromEnv() Config {
	res := getint("H3_RES", 8)
	if res < 0 {
		res = 0
	}
	if res > 15 {
		res = 15
	}

	pad := getfloat("PAD_FRACTION", 0.05)
	if pad < 0 {
		pad = 0
	}

	return Config{
		InputPath:   getenv("INPUT_PATH", "input.geojson"),
		OutputPath:  getenv("OUTPUT_PATH", "map.pdf"),
		OverpassURL: getenv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		PadFraction:   pad,
		H3Res:         res,
		FetchTimeout:  getduration("FETCH_TIMEOUT", 30*time.Second),
		FetchParallel: getbool("FETCH_PARALLEL", true),

		Cache: CacheCfg{
			RedisAddr:  getenv("REDIS_ADDR", ""),
			TTLDefault: getduration("CACHE_TTL_DEFAULT", 15*time.Minute),
			MemorySize: getint("CACHE_MEMORY_SIZE", 64),
			OpTimeout:  getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
