package config

const (
	EnvPrefix = "WISHLIST"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "WISHLIST_APP_ENV"
	EnvPort     = "WISHLIST_APP_PORT"
	EnvLogLevel = "WISHLIST_LOG_LEVEL"

	EnvDBDSN  = "WISHLIST_DB_DSN"
	EnvDBHost = "WISHLIST_DB_HOST"
	EnvDBUser = "WISHLIST_DB_USER"
	EnvDBName = "WISHLIST_DB_NAME"

	EnvRedisURL = "WISHLIST_REDIS_URL"

	EnvJWTSecret = "WISHLIST_JWT_SECRET"
	EnvJWTIssuer = "WISHLIST_JWT_ISSUER"

	EnvPublicBaseURL    = "WISHLIST_PUBLIC_BASE_URL"
	EnvSupportedLocales = "WISHLIST_SUPPORTED_LOCALES"
	EnvCatalogBaseURL   = "WISHLIST_CATALOG_BASE_URL"
	EnvGCPProjectID     = "WISHLIST_GCP_PROJECT_ID"
	EnvPubSubTopic      = "WISHLIST_PUBSUB_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
