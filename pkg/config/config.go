package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Wallet       WalletConfig
	Chain        ChainConfig
	Payments     PaymentsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RELIEFFUND_APP_ENV" required:"true"`
	Port         string `envconfig:"RELIEFFUND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RELIEFFUND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RELIEFFUND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RELIEFFUND_DB_DSN"`
	Driver string `envconfig:"RELIEFFUND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RELIEFFUND_DB_HOST"`
	LegacyPort     int    `envconfig:"RELIEFFUND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RELIEFFUND_DB_USER"`
	LegacyPassword string `envconfig:"RELIEFFUND_DB_PASSWORD"`
	LegacyName     string `envconfig:"RELIEFFUND_DB_NAME"`
	LegacySSLMode  string `envconfig:"RELIEFFUND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RELIEFFUND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RELIEFFUND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RELIEFFUND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RELIEFFUND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RELIEFFUND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RELIEFFUND_REDIS_ADDR"`
	Password     string        `envconfig:"RELIEFFUND_REDIS_PASSWORD"`
	DB           int           `envconfig:"RELIEFFUND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RELIEFFUND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RELIEFFUND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RELIEFFUND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RELIEFFUND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RELIEFFUND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RELIEFFUND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RELIEFFUND_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RELIEFFUND_JWT_EXPIRATION_MINUTES" required:"true"`
	NonceTTLMinutes   int    `envconfig:"RELIEFFUND_AUTH_NONCE_TTL_MINUTES" default:"5"`
}

// NonceTTL returns the login nonce TTL configured in minutes.
func (j JWTConfig) NonceTTL() time.Duration {
	if j.NonceTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.NonceTTLMinutes) * time.Minute
}

type WalletConfig struct {
	BridgeURL        string        `envconfig:"RELIEFFUND_WALLET_BRIDGE_URL" required:"true"`
	APIKey           string        `envconfig:"RELIEFFUND_WALLET_BRIDGE_API_KEY"`
	RecipientAddress string        `envconfig:"RELIEFFUND_WALLET_RECIPIENT_ADDRESS" required:"true"`
	CommandTimeout   time.Duration `envconfig:"RELIEFFUND_WALLET_COMMAND_TIMEOUT" default:"15s"`
	VerifyLedger     bool          `envconfig:"RELIEFFUND_WALLET_VERIFY_LEDGER" default:"false"`
}

type ChainConfig struct {
	GatewayURL   string        `envconfig:"RELIEFFUND_CHAIN_GATEWAY_URL"`
	SyncInterval time.Duration `envconfig:"RELIEFFUND_CHAIN_SYNC_INTERVAL" default:"5m"`
	ReadTimeout  time.Duration `envconfig:"RELIEFFUND_CHAIN_READ_TIMEOUT" default:"10s"`
}

type PaymentsConfig struct {
	StoreBackend  string        `envconfig:"RELIEFFUND_PAYMENTS_STORE_BACKEND" default:"memory"`
	ReferenceTTL  time.Duration `envconfig:"RELIEFFUND_PAYMENTS_REFERENCE_TTL" default:"1h"`
	SweepInterval time.Duration `envconfig:"RELIEFFUND_PAYMENTS_SWEEP_INTERVAL" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RELIEFFUND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RELIEFFUND_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
