package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the backend reads.
	EnvPrefix = "POKEDEX"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "POKEDEX_DB_DSN"
	EnvDBHost = "POKEDEX_DB_HOST"
	EnvDBUser = "POKEDEX_DB_USER"
	EnvDBName = "POKEDEX_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	PokeAPI       PokeAPIConfig
	Bootstrap     BootstrapConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POKEDEX_APP_ENV" required:"true"`
	Port         string `envconfig:"POKEDEX_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"POKEDEX_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"POKEDEX_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"POKEDEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"POKEDEX_DB_DSN"`

	Host     string `envconfig:"POKEDEX_DB_HOST"`
	Port     int    `envconfig:"POKEDEX_DB_PORT" default:"5432"`
	User     string `envconfig:"POKEDEX_DB_USER"`
	Password string `envconfig:"POKEDEX_DB_PASSWORD"`
	Name     string `envconfig:"POKEDEX_DB_NAME"`
	SSLMode  string `envconfig:"POKEDEX_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"POKEDEX_DB_SQLITE_PATH" default:"db.sqlite3"`

	MaxOpenConns    int           `envconfig:"POKEDEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POKEDEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POKEDEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POKEDEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POKEDEX_REDIS_URL"`
	Address      string        `envconfig:"POKEDEX_REDIS_ADDR"`
	Password     string        `envconfig:"POKEDEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"POKEDEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POKEDEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POKEDEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POKEDEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POKEDEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POKEDEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"POKEDEX_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"POKEDEX_JWT_ISSUER" default:"pokedex-backend"`
	ExpirationMinutes int    `envconfig:"POKEDEX_JWT_EXPIRATION_MINUTES" default:"120"`
	SessionTTLMinutes int    `envconfig:"POKEDEX_SESSION_TTL_MINUTES" default:"180"`
}

// SessionTTL returns how long an issued token's session entry stays valid.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POKEDEX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POKEDEX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POKEDEX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POKEDEX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POKEDEX_ARGON_KEY_LEN" default:"32"`
}

type PokeAPIConfig struct {
	BaseURL          string        `envconfig:"POKEDEX_POKEAPI_BASE_URL" default:"https://pokeapi.co/api/v2"`
	Timeout          time.Duration `envconfig:"POKEDEX_POKEAPI_TIMEOUT" default:"5s"`
	FetchConcurrency int           `envconfig:"POKEDEX_POKEAPI_FETCH_CONCURRENCY" default:"10"`
}

type BootstrapConfig struct {
	AdminEmail    string `envconfig:"POKEDEX_BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `envconfig:"POKEDEX_BOOTSTRAP_ADMIN_PASSWORD"`
	AdminName     string `envconfig:"POKEDEX_BOOTSTRAP_ADMIN_NAME" default:"Administrator"`
	AdminNickname string `envconfig:"POKEDEX_BOOTSTRAP_ADMIN_NICKNAME" default:"admin"`
}

// SeedAdmin reports whether enough is configured to create the default admin.
func (b BootstrapConfig) SeedAdmin() bool {
	return strings.TrimSpace(b.AdminEmail) != "" && b.AdminPassword != ""
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"POKEDEX_LOGIN_RATE_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"POKEDEX_LOGIN_RATE_IP_LIMIT" default:"10"`
	LoginEmailLimit    int           `envconfig:"POKEDEX_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"POKEDEX_REGISTER_RATE_WINDOW" default:"1m"`
	RegisterIPLimit    int           `envconfig:"POKEDEX_REGISTER_RATE_IP_LIMIT" default:"5"`
	RegisterEmailLimit int           `envconfig:"POKEDEX_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POKEDEX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POKEDEX_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
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
