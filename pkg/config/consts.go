package config

// EnvPrefix is the envconfig prefix; individual fields override it with
// explicit TERRA_* names, so it stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "TERRA_APP_ENV"
	EnvPort     = "TERRA_APP_PORT"
	EnvDBDSN    = "TERRA_DB_DSN"
	EnvDBHost   = "TERRA_DB_HOST"
	EnvDBUser   = "TERRA_DB_USER"
	EnvDBName   = "TERRA_DB_NAME"
	EnvRedisURL = "TERRA_REDIS_URL"

	EnvJWTSecret  = "TERRA_JWT_SECRET"
	EnvJWTIssuer  = "TERRA_JWT_ISSUER"
	EnvJWTExpMins = "TERRA_JWT_EXPIRATION_MINUTES"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
