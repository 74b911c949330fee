package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// FUNDLIFT_* names so the prefix is informational.
const EnvPrefix = "FUNDLIFT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "FUNDLIFT_APP_ENV"
	EnvPort       = "FUNDLIFT_APP_PORT"
	EnvDBDSN      = "FUNDLIFT_DB_DSN"
	EnvDBHost     = "FUNDLIFT_DB_HOST"
	EnvDBUser     = "FUNDLIFT_DB_USER"
	EnvDBName     = "FUNDLIFT_DB_NAME"
	EnvRedisURL   = "FUNDLIFT_REDIS_URL"
	EnvJWTSecret  = "FUNDLIFT_JWT_SECRET"
	EnvJWTIssuer  = "FUNDLIFT_JWT_ISSUER"
	EnvJWTExpMins = "FUNDLIFT_JWT_EXPIRATION_MINUTES"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
