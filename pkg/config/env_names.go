package config

// EnvPrefix is empty; every field carries its fully-qualified variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	KVBackendMemory = "memory"
	KVBackendRedis  = "redis"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvDBDSN          = "STOREFRONT_DB_DSN"
	EnvDBHost         = "STOREFRONT_DB_HOST"
	EnvDBUser         = "STOREFRONT_DB_USER"
	EnvDBName         = "STOREFRONT_DB_NAME"
	EnvKVBackend      = "STOREFRONT_KV_BACKEND"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvSessionSecret  = "STOREFRONT_SESSION_SECRET"
	EnvSessionIssuer  = "STOREFRONT_SESSION_ISSUER"
	EnvSessionTTLMins = "STOREFRONT_SESSION_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
