package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the process environment, after merging a .env file from the
// working directory when one exists. Variables already set win over .env.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "err", err)
	}

	cfg := App{
		Port:             getenv("APP_PORT", "8080"),
		Env:              getenv("APP_ENV", "dev"),
		StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		MongoDB:          getenv("MONGO_DB", "library"),
		MongoTxn:         getbool("MONGO_TRANSACTIONS", true),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CleanupInterval:  getduration("CLEANUP_INTERVAL", 5*time.Minute),
		RequestTimeout:   getduration("REQUEST_TIMEOUT", 5*time.Second),
		MigrateOnStartup: getbool("MIGRATE_ON_STARTUP", true),
		CORSOrigins:      getlist("CORS_ORIGINS", []string{"*"}),
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		cfg.DatabaseURL = must("DATABASE_URL")
	case DriverMongo:
		cfg.MongoURI = must("MONGO_URI")
	case DriverMemory:
	default:
		slog.Error("unknown store driver", "driver", cfg.StoreDriver)
		panic("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getlist(k string, def []string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env, using default", "key", k, "value", v)
		return def
	}
	return b
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration env, using default", "key", k, "value", v)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
