package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full environment-driven configuration tree.
type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	AuthLimit AuthRateLimitConfig
	Cart      CartConfig
	Checkout  CheckoutConfig
	GCP       GCPConfig
	PubSub    PubSubConfig
	Outbox    OutboxConfig
	Eventing  EventingConfig
	Features  FeatureFlagsConfig
}

// Load reads configuration from the environment.
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
	Env          string `envconfig:"TERRA_APP_ENV" required:"true"`
	Port         string `envconfig:"TERRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TERRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TERRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TERRA_DB_DSN"`
	Driver string `envconfig:"TERRA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TERRA_DB_HOST"`
	Port     int    `envconfig:"TERRA_DB_PORT" default:"5432"`
	User     string `envconfig:"TERRA_DB_USER"`
	Password string `envconfig:"TERRA_DB_PASSWORD"`
	Name     string `envconfig:"TERRA_DB_NAME"`
	SSLMode  string `envconfig:"TERRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TERRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TERRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TERRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TERRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TERRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TERRA_REDIS_ADDR"`
	Password     string        `envconfig:"TERRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TERRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TERRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TERRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TERRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TERRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TERRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TERRA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TERRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TERRA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TERRA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TERRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TERRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TERRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TERRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TERRA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"TERRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"TERRA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"TERRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// CartConfig bounds the session cart.
type CartConfig struct {
	MaxLineQty  int           `envconfig:"TERRA_CART_MAX_LINE_QTY" default:"99"`
	SnapshotTTL time.Duration `envconfig:"TERRA_CART_SNAPSHOT_TTL" default:"720h"`
}

// CheckoutConfig controls wizard navigation rules.
type CheckoutConfig struct {
	AllowArbitraryJumps bool          `envconfig:"TERRA_CHECKOUT_ALLOW_ARBITRARY_JUMPS" default:"false"`
	SessionTTL          time.Duration `envconfig:"TERRA_CHECKOUT_SESSION_TTL" default:"24h"`
	OrderNumberPrefix   string        `envconfig:"TERRA_CHECKOUT_ORDER_NUMBER_PREFIX" default:"TL-"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TERRA_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"TERRA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"TERRA_PUBSUB_ORDERS_TOPIC" default:"tl-order-events"`
	CommunityTopic     string `envconfig:"TERRA_PUBSUB_COMMUNITY_TOPIC" default:"tl-community-events"`
	OrdersSubscription string `envconfig:"TERRA_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TERRA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TERRA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TERRA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"TERRA_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TERRA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
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
