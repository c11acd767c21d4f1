package config

const EnvPrefix = "ESHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "ESHOP_APP_ENV"
	EnvPort      = "ESHOP_APP_PORT"
	EnvRedisURL  = "ESHOP_REDIS_URL"
	EnvJWTSecret = "ESHOP_JWT_SECRET"
	EnvJWTIssuer = "ESHOP_JWT_ISSUER"
)

const (
	EnvDBDSN      = "ESHOP_DB_DSN"
	EnvDBHost     = "ESHOP_DB_HOST"
	EnvDBUser     = "ESHOP_DB_USER"
	EnvDBName     = "ESHOP_DB_NAME"
	EnvDBPassword = "ESHOP_DB_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
