package config

import "time"

type App struct {
	Port             string        `env:"APP_PORT" default:"8080"`
	Env              string        `env:"APP_ENV" default:"dev"`
	StoreDriver      string        `env:"STORE_DRIVER" default:"postgres"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	MongoURI         string        `env:"MONGO_URI"`
	MongoDB          string        `env:"MONGO_DB" default:"library"`
	MongoTxn         bool          `env:"MONGO_TRANSACTIONS" default:"true"`
	JWTSecret        string        `env:"JWT_SECRET"`
	CleanupInterval  time.Duration `env:"CLEANUP_INTERVAL" default:"5m"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" default:"5s"`
	MigrateOnStartup bool          `env:"MIGRATE_ON_STARTUP" default:"true"`
	CORSOrigins      []string      `env:"CORS_ORIGINS" default:"*"`
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)
