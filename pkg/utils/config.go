package utils

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"filmcatalog/pkg/database"
)

type Config struct {
	HTTPAddr string `env:"CATALOG_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"CATALOG_GRPC_ADDR" envDefault:":9090"`

	DBDriver   string `env:"CATALOG_DB_DRIVER" envDefault:"mongo"`
	MongoURI   string `env:"CATALOG_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB    string `env:"CATALOG_MONGO_DB" envDefault:"filmcatalog"`
	SQLitePath string `env:"CATALOG_SQLITE_PATH" envDefault:"data/catalog.db"`

	// empty disables the page cache
	RedisAddr string        `env:"CATALOG_REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	FixturePath string `env:"CATALOG_FIXTURE_PATH" envDefault:"data/films.json"`
	PublicDir   string `env:"CATALOG_PUBLIC_DIR" envDefault:"public"`
	PageSize    int    `env:"CATALOG_PAGE_SIZE" envDefault:"10"`
	LoadWorkers int    `env:"CATALOG_LOAD_WORKERS" envDefault:"4"`

	LogLevel        string        `env:"CATALOG_LOG_LEVEL" envDefault:"info"`
	Development     bool          `env:"CATALOG_DEV" envDefault:"false"`
	StoreTimeout    time.Duration `env:"CATALOG_STORE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"CATALOG_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}

func (c Config) Database() database.Config {
	return database.Config{
		Driver:     c.DBDriver,
		MongoURI:   c.MongoURI,
		MongoDB:    c.MongoDB,
		SQLitePath: c.SQLitePath,
	}
}
