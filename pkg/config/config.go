package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Storefront   StorefrontConfig
	Catalog      CatalogConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Maintenance  MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storefront.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WISHLIST_APP_ENV" required:"true"`
	Port         string `envconfig:"WISHLIST_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WISHLIST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WISHLIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WISHLIST_DB_DSN"`

	Host     string `envconfig:"WISHLIST_DB_HOST"`
	Port     int    `envconfig:"WISHLIST_DB_PORT" default:"5432"`
	User     string `envconfig:"WISHLIST_DB_USER"`
	Password string `envconfig:"WISHLIST_DB_PASSWORD"`
	Name     string `envconfig:"WISHLIST_DB_NAME"`
	SSLMode  string `envconfig:"WISHLIST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WISHLIST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WISHLIST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WISHLIST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WISHLIST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL            string        `envconfig:"WISHLIST_REDIS_URL" required:"true"`
	Address        string        `envconfig:"WISHLIST_REDIS_ADDR"`
	Password       string        `envconfig:"WISHLIST_REDIS_PASSWORD"`
	DB             int           `envconfig:"WISHLIST_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"WISHLIST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"WISHLIST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"WISHLIST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"WISHLIST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"WISHLIST_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"WISHLIST_IDEMPOTENCY_TTL" default:"24h"`
}

// JWTConfig verifies customer access tokens minted by the storefront auth service.
type JWTConfig struct {
	Secret string `envconfig:"WISHLIST_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"WISHLIST_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WISHLIST_AUTO_MIGRATE" default:"false"`
}

type StorefrontConfig struct {
	PublicBaseURL        string   `envconfig:"WISHLIST_PUBLIC_BASE_URL"`
	DefaultLocale        string   `envconfig:"WISHLIST_DEFAULT_LOCALE" default:"en-US"`
	SupportedLocales     []string `envconfig:"WISHLIST_SUPPORTED_LOCALES" default:"en-US"`
	SessionCookieName    string   `envconfig:"WISHLIST_SESSION_COOKIE" default:"wishlist_session"`
	DefaultWishlistTitle string   `envconfig:"WISHLIST_DEFAULT_TITLE" default:"My wishlist"`
	CORSOrigins          []string `envconfig:"WISHLIST_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (s StorefrontConfig) validate() error {
	if strings.TrimSpace(s.PublicBaseURL) == "" {
		return nil
	}
	u, err := url.Parse(s.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvPublicBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvPublicBaseURL)
	}
	return nil
}

type CatalogConfig struct {
	BaseURL             string        `envconfig:"WISHLIST_CATALOG_BASE_URL" required:"true"`
	Timeout             time.Duration `envconfig:"WISHLIST_CATALOG_TIMEOUT" default:"3s"`
	CacheTTL            time.Duration `envconfig:"WISHLIST_CATALOG_CACHE_TTL" default:"5m"`
	BreakerTimeout      time.Duration `envconfig:"WISHLIST_CATALOG_BREAKER_TIMEOUT" default:"30s"`
	BreakerInterval     time.Duration `envconfig:"WISHLIST_CATALOG_BREAKER_INTERVAL" default:"60s"`
	BreakerMinRequests  uint32        `envconfig:"WISHLIST_CATALOG_BREAKER_MIN_REQUESTS" default:"5"`
	BreakerFailureRatio float64       `envconfig:"WISHLIST_CATALOG_BREAKER_FAILURE_RATIO" default:"0.5"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"WISHLIST_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	WishlistTopic string `envconfig:"WISHLIST_PUBSUB_TOPIC" default:"wishlist-events"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"WISHLIST_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"WISHLIST_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"WISHLIST_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"WISHLIST_OUTBOX_METRICS_PORT" default:"9091"`
}

// MaintenanceConfig drives cmd/cron-worker.
type MaintenanceConfig struct {
	Interval           time.Duration `envconfig:"WISHLIST_MAINTENANCE_INTERVAL" default:"1h"`
	OutboxRetention    time.Duration `envconfig:"WISHLIST_OUTBOX_RETENTION" default:"720h"`
	SessionWishlistTTL time.Duration `envconfig:"WISHLIST_SESSION_WISHLIST_TTL" default:"8760h"`
	MetricsPort        string        `envconfig:"WISHLIST_MAINTENANCE_METRICS_PORT" default:"9092"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
