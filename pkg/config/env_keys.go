package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "STOCKSENTRY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "STOCKSENTRY_APP_ENV"
	EnvPort     = "STOCKSENTRY_APP_PORT"
	EnvRedisURL = "STOCKSENTRY_REDIS_URL"

	EnvDBDSN  = "STOCKSENTRY_DB_DSN"
	EnvDBHost = "STOCKSENTRY_DB_HOST"
	EnvDBUser = "STOCKSENTRY_DB_USER"
	EnvDBName = "STOCKSENTRY_DB_NAME"
)
