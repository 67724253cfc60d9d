package config

// EnvPrefix is the envconfig prefix shared by every variable below.
const EnvPrefix = "RELIEFFUND"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, kept in one place so tests and docs agree.
const (
	EnvAppEnv   = "RELIEFFUND_APP_ENV"
	EnvPort     = "RELIEFFUND_APP_PORT"
	EnvLogLevel = "RELIEFFUND_LOG_LEVEL"

	EnvDBDSN    = "RELIEFFUND_DB_DSN"
	EnvDBHost   = "RELIEFFUND_DB_HOST"
	EnvDBUser   = "RELIEFFUND_DB_USER"
	EnvDBName   = "RELIEFFUND_DB_NAME"
	EnvRedisURL = "RELIEFFUND_REDIS_URL"

	EnvJWTSecret  = "RELIEFFUND_JWT_SECRET"
	EnvJWTIssuer  = "RELIEFFUND_JWT_ISSUER"
	EnvJWTExpMins = "RELIEFFUND_JWT_EXPIRATION_MINUTES"

	EnvWalletBridgeURL  = "RELIEFFUND_WALLET_BRIDGE_URL"
	EnvWalletRecipient  = "RELIEFFUND_WALLET_RECIPIENT_ADDRESS"
	EnvChainGatewayURL  = "RELIEFFUND_CHAIN_GATEWAY_URL"
	EnvPaymentReferTTL  = "RELIEFFUND_PAYMENTS_REFERENCE_TTL"
	EnvPaymentSweepIntv = "RELIEFFUND_PAYMENTS_SWEEP_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
