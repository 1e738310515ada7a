package config

const (
	EnvPrefix = "PETCARE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:petcare.db?_foreign_keys=on"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv                 = "PETCARE_APP_ENV"
	EnvPort                   = "PETCARE_APP_PORT"
	EnvDBDSN                  = "PETCARE_DB_DSN"
	EnvDBDriver               = "PETCARE_DB_DRIVER"
	EnvDBHost                 = "PETCARE_DB_HOST"
	EnvDBUser                 = "PETCARE_DB_USER"
	EnvDBName                 = "PETCARE_DB_NAME"
	EnvRedisURL               = "PETCARE_REDIS_URL"
	EnvJWTSecret              = "PETCARE_JWT_SECRET"
	EnvJWTIssuer              = "PETCARE_JWT_ISSUER"
	EnvJWTExpMins             = "PETCARE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PETCARE_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "PETCARE_USE_SQLITE"
	EnvPayHereMerchantID      = "PETCARE_PAYHERE_MERCHANT_ID"
	EnvPayHereMerchantSecret  = "PETCARE_PAYHERE_MERCHANT_SECRET"
	EnvAMQPExchange           = "PETCARE_AMQP_EXCHANGE"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
