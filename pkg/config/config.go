package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Checkout.Rates(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BUILDBAZAAR_APP_ENV" required:"true"`
	Port         string `envconfig:"BUILDBAZAAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUILDBAZAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUILDBAZAAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BUILDBAZAAR_DB_DSN"`
	Driver string `envconfig:"BUILDBAZAAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BUILDBAZAAR_DB_HOST"`
	LegacyPort     int    `envconfig:"BUILDBAZAAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BUILDBAZAAR_DB_USER"`
	LegacyPassword string `envconfig:"BUILDBAZAAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"BUILDBAZAAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"BUILDBAZAAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUILDBAZAAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUILDBAZAAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUILDBAZAAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUILDBAZAAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUILDBAZAAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUILDBAZAAR_REDIS_ADDR"`
	Password     string        `envconfig:"BUILDBAZAAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUILDBAZAAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUILDBAZAAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUILDBAZAAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUILDBAZAAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUILDBAZAAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUILDBAZAAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BUILDBAZAAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BUILDBAZAAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BUILDBAZAAR_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CheckoutConfig carries the externally configured financial rates used when
// line items do not bring their own VAT/platform-fee amounts.
type CheckoutConfig struct {
	VATRate         string `envconfig:"BUILDBAZAAR_CHECKOUT_VAT_RATE" default:"0.075"`
	PlatformFeeRate string `envconfig:"BUILDBAZAAR_CHECKOUT_PLATFORM_FEE_RATE" default:"0.02"`
	AdvanceRate     string `envconfig:"BUILDBAZAAR_CHECKOUT_ADVANCE_RATE" default:"0.10"`
}

// CheckoutRates is the parsed decimal form of CheckoutConfig.
type CheckoutRates struct {
	VAT         decimal.Decimal
	PlatformFee decimal.Decimal
	Advance     decimal.Decimal
}

// Rates parses the configured rate strings into decimals.
func (c CheckoutConfig) Rates() (CheckoutRates, error) {
	vat, err := decimal.NewFromString(c.VATRate)
	if err != nil {
		return CheckoutRates{}, fmt.Errorf("parsing vat rate %q: %w", c.VATRate, err)
	}
	fee, err := decimal.NewFromString(c.PlatformFeeRate)
	if err != nil {
		return CheckoutRates{}, fmt.Errorf("parsing platform fee rate %q: %w", c.PlatformFeeRate, err)
	}
	advance, err := decimal.NewFromString(c.AdvanceRate)
	if err != nil {
		return CheckoutRates{}, fmt.Errorf("parsing advance rate %q: %w", c.AdvanceRate, err)
	}
	if advance.IsNegative() || advance.GreaterThan(decimal.NewFromInt(1)) {
		return CheckoutRates{}, fmt.Errorf("advance rate %q must be between 0 and 1", c.AdvanceRate)
	}
	return CheckoutRates{VAT: vat, PlatformFee: fee, Advance: advance}, nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BUILDBAZAAR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BUILDBAZAAR_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BUILDBAZAAR_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"BUILDBAZAAR_PUBSUB_ORDERS_TOPIC" default:"bb-order-events"`
	OrdersSubscription string `envconfig:"BUILDBAZAAR_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BUILDBAZAAR_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BUILDBAZAAR_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BUILDBAZAAR_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
		Path:   "/" + db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
