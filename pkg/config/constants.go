package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "PWA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside of struct tags.
const (
	EnvAppEnv    = "PWA_APP_ENV"
	EnvPort      = "PWA_APP_PORT"
	EnvDBDSN     = "PWA_DB_DSN"
	EnvDBHost    = "PWA_DB_HOST"
	EnvDBUser    = "PWA_DB_USER"
	EnvDBName    = "PWA_DB_NAME"
	EnvRedisURL  = "PWA_REDIS_URL"
	EnvJWTSecret = "PWA_JWT_SECRET"
	EnvJWTIssuer = "PWA_JWT_ISSUER"
)

var dbEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
