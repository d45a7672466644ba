package config

// EnvPrefix is the envconfig prefix applied to all gateway settings.
const EnvPrefix = "TRAVELBOOK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced directly in messages and tests.
const (
	EnvAppEnv     = "TRAVELBOOK_APP_ENV"
	EnvPort       = "TRAVELBOOK_APP_PORT"
	EnvAPIBaseURL = "TRAVELBOOK_API_BASE_URL"
	EnvSiteURL    = "TRAVELBOOK_SITE_URL"
	EnvRedisURL   = "TRAVELBOOK_REDIS_URL"
)
