package config

const (
	EnvPrefix = "MERCADITO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "MERCADITO_APP_ENV"
	EnvPort         = "MERCADITO_APP_PORT"
	EnvLogLevel     = "MERCADITO_LOG_LEVEL"
	EnvLogWarnStack = "MERCADITO_LOG_WARN_STACK"

	EnvDBDSN      = "MERCADITO_DB_DSN"
	EnvDBDriver   = "MERCADITO_DB_DRIVER"
	EnvDBHost     = "MERCADITO_DB_HOST"
	EnvDBPort     = "MERCADITO_DB_PORT"
	EnvDBUser     = "MERCADITO_DB_USER"
	EnvDBPassword = "MERCADITO_DB_PASSWORD"
	EnvDBName     = "MERCADITO_DB_NAME"
	EnvDBSSLMode  = "MERCADITO_DB_SSLMODE"

	EnvRedisURL = "MERCADITO_REDIS_URL"

	EnvJWTSecret  = "MERCADITO_JWT_SECRET"
	EnvJWTIssuer  = "MERCADITO_JWT_ISSUER"
	EnvJWTExpMins = "MERCADITO_JWT_EXPIRATION_MINUTES"

	EnvOrdersRateWindow = "MERCADITO_RATE_LIMIT_ORDERS_WINDOW"
	EnvOrdersRateLimit  = "MERCADITO_RATE_LIMIT_ORDERS_LIMIT"
	EnvCouponRateWindow = "MERCADITO_RATE_LIMIT_COUPON_WINDOW"
	EnvCouponRateLimit  = "MERCADITO_RATE_LIMIT_COUPON_LIMIT"

	EnvCouponRequireAuth  = "MERCADITO_COUPON_VALIDATE_REQUIRE_AUTH"
	EnvSiteConfigCacheTTL = "MERCADITO_SITE_CONFIG_CACHE_TTL"
	EnvCORSOrigins        = "MERCADITO_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate        = "MERCADITO_AUTO_MIGRATE"

	EnvKafkaBrokers     = "MERCADITO_KAFKA_BROKERS"
	EnvKafkaOrdersTopic = "MERCADITO_KAFKA_ORDERS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
