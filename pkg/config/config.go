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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Adoption     AdoptionConfig
	Reconcile    ReconcileConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Stripe       StripeConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PWA_APP_ENV" required:"true"`
	Port         string `envconfig:"PWA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PWA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PWA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PWA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PWA_DB_DSN"`
	Driver string `envconfig:"PWA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PWA_DB_HOST"`
	Port     int    `envconfig:"PWA_DB_PORT" default:"5432"`
	User     string `envconfig:"PWA_DB_USER"`
	Password string `envconfig:"PWA_DB_PASSWORD"`
	Name     string `envconfig:"PWA_DB_NAME"`
	SSLMode  string `envconfig:"PWA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PWA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PWA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PWA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PWA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PWA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PWA_REDIS_ADDR"`
	Password     string        `envconfig:"PWA_REDIS_PASSWORD"`
	DB           int           `envconfig:"PWA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PWA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PWA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PWA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PWA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PWA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes the bearer tokens issued by the external auth service.
// This backend only verifies them; it never mints tokens.
type JWTConfig struct {
	Secret string `envconfig:"PWA_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PWA_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PWA_AUTO_MIGRATE" default:"false"`
}

// AdoptionConfig carries the fixed adoption fee charged per completed adoption.
type AdoptionConfig struct {
	FeeCents int    `envconfig:"PWA_ADOPTION_FEE_CENTS" default:"5000"`
	Currency string `envconfig:"PWA_ADOPTION_FEE_CURRENCY" default:"usd"`
}

type ReconcileConfig struct {
	// StaleAfter bounds how long a request may sit in awaiting_payment
	// before the sweep resolves it against the gateway.
	StaleAfter time.Duration `envconfig:"PWA_RECONCILE_STALE_AFTER" default:"30m"`
	Interval   time.Duration `envconfig:"PWA_RECONCILE_INTERVAL" default:"5m"`
	BatchSize  int           `envconfig:"PWA_RECONCILE_BATCH_SIZE" default:"100"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PWA_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"PWA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AdoptionTopic        string `envconfig:"PWA_PUBSUB_ADOPTION_TOPIC" default:"pwa-adoption-events"`
	AdoptionSubscription string `envconfig:"PWA_PUBSUB_ADOPTION_SUBSCRIPTION"`
}

type StripeConfig struct {
	APIKey string `envconfig:"PWA_STRIPE_API_KEY"`
	Secret string `envconfig:"PWA_STRIPE_SECRET"`
	Env    string `envconfig:"PWA_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PWA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PWA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PWA_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
	for _, env := range dbEnvVars {
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
