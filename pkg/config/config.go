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
	FeatureFlags FeatureFlagsConfig
	Donations    DonationsConfig
	Reconcile    ReconcileConfig
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
	Env          string `envconfig:"FUNDLIFT_APP_ENV" required:"true"`
	Port         string `envconfig:"FUNDLIFT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUNDLIFT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUNDLIFT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FUNDLIFT_DB_DSN"`
	Driver string `envconfig:"FUNDLIFT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FUNDLIFT_DB_HOST"`
	Port     int    `envconfig:"FUNDLIFT_DB_PORT" default:"5432"`
	User     string `envconfig:"FUNDLIFT_DB_USER"`
	Password string `envconfig:"FUNDLIFT_DB_PASSWORD"`
	Name     string `envconfig:"FUNDLIFT_DB_NAME"`
	SSLMode  string `envconfig:"FUNDLIFT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUNDLIFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUNDLIFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUNDLIFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUNDLIFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUNDLIFT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUNDLIFT_REDIS_ADDR"`
	Password     string        `envconfig:"FUNDLIFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUNDLIFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUNDLIFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUNDLIFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUNDLIFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUNDLIFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUNDLIFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FUNDLIFT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FUNDLIFT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FUNDLIFT_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FUNDLIFT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FUNDLIFT_AUTO_MIGRATE" default:"false"`
}

// DonationsConfig bounds the retry loop around the atomic apply step.
type DonationsConfig struct {
	ApplyMaxAttempts int           `envconfig:"FUNDLIFT_DONATION_APPLY_MAX_ATTEMPTS" default:"3"`
	ApplyBackoffBase time.Duration `envconfig:"FUNDLIFT_DONATION_APPLY_BACKOFF_BASE" default:"25ms"`
}

type ReconcileConfig struct {
	Interval  time.Duration `envconfig:"FUNDLIFT_RECONCILE_INTERVAL" default:"10m"`
	BatchSize int           `envconfig:"FUNDLIFT_RECONCILE_BATCH_SIZE" default:"100"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	fallbackValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range fallbackDBEnvVars {
		if fallbackValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
