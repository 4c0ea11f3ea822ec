package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Store modes select the PropertyRepository implementation.
const (
	StoreStatic = "static"
	StoreRemote = "remote"
	StoreMySQL  = "mysql"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	CORSOrigins []string

	// RequestTimeout bounds each API request end to end.
	RequestTimeout time.Duration

	StoreMode     string
	StaticLatency time.Duration
	MySQLDSN      string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	ApperBase          string
	ApperProjectID     string
	ApperPublicKey     string
	ApperRPS           int
	RemoteSoftReadFail bool

	NotifyCapacity int
	SeedFile       string
	SeedWorkers    int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars take precedence.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		CORSOrigins: list("CORS_ALLOWED_ORIGINS"),

		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,

		StoreMode:     strings.ToLower(env("STORE_MODE", StoreStatic)),
		StaticLatency: time.Duration(atoi("STATIC_LATENCY_MS", 0)) * time.Millisecond,
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/homescape?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		ApperBase:          env("APPER_BASE_URL", "https://api.apper.io/v1"),
		ApperProjectID:     env("APPER_PROJECT_ID", ""),
		ApperPublicKey:     env("APPER_PUBLIC_KEY", ""),
		ApperRPS:           atoi("APPER_RPS", 5),
		RemoteSoftReadFail: boolean("REMOTE_SOFT_READ_FAIL", false),

		NotifyCapacity: atoi("NOTIFY_CAPACITY", 100),
		SeedFile:       env("SEED_FILE", ""),
		SeedWorkers:    atoi("SEED_WORKERS", 4),
	}
	if c.RequestTimeout <= 0 {
		log.Warn().Dur("value", c.RequestTimeout).Msg("REQUEST_TIMEOUT_SECONDS must be positive, using 15")
		c.RequestTimeout = 15 * time.Second
	}
	switch c.StoreMode {
	case StoreStatic, StoreMySQL:
	case StoreRemote:
		if c.ApperProjectID == "" || c.ApperPublicKey == "" {
			log.Warn().Msg("APPER_PROJECT_ID or APPER_PUBLIC_KEY is empty")
		}
	default:
		log.Warn().Str("store_mode", c.StoreMode).Msg("unknown STORE_MODE, using static")
		c.StoreMode = StoreStatic
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolean(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// list splits a comma-separated variable, dropping blank entries.
func list(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
