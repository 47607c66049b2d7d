package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Uploads       UploadsConfig
	Sheets        SheetsConfig
	Mirror        MirrorConfig
	Certificate   CertificateConfig
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
	Env          string `envconfig:"SHIELDWRAP_APP_ENV" required:"true"`
	Port         string `envconfig:"SHIELDWRAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHIELDWRAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHIELDWRAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHIELDWRAP_DB_DSN"`
	Driver string `envconfig:"SHIELDWRAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHIELDWRAP_DB_HOST"`
	LegacyPort     int    `envconfig:"SHIELDWRAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHIELDWRAP_DB_USER"`
	LegacyPassword string `envconfig:"SHIELDWRAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHIELDWRAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHIELDWRAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHIELDWRAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHIELDWRAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHIELDWRAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHIELDWRAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHIELDWRAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHIELDWRAP_REDIS_ADDR"`
	Password     string        `envconfig:"SHIELDWRAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHIELDWRAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHIELDWRAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHIELDWRAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHIELDWRAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHIELDWRAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHIELDWRAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHIELDWRAP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHIELDWRAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHIELDWRAP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHIELDWRAP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHIELDWRAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHIELDWRAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHIELDWRAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHIELDWRAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHIELDWRAP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SHIELDWRAP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SHIELDWRAP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SHIELDWRAP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"SHIELDWRAP_AUTO_MIGRATE" default:"false"`
	MirrorToggle bool `envconfig:"SHIELDWRAP_MIRROR_ENABLED" default:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHIELDWRAP_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SHIELDWRAP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHIELDWRAP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"SHIELDWRAP_GCS_BUCKET_NAME" required:"true"`
	KeyPrefix  string `envconfig:"SHIELDWRAP_GCS_KEY_PREFIX" default:"warranty-uploads"`
}

type UploadsConfig struct {
	MaxUploadMB int `envconfig:"SHIELDWRAP_MAX_UPLOAD_MB" default:"10"`
}

type SheetsConfig struct {
	SpreadsheetID string `envconfig:"SHIELDWRAP_SHEETS_SPREADSHEET_ID"`
	SheetRange    string `envconfig:"SHIELDWRAP_SHEETS_RANGE" default:"Registrations!A:N"`
}

type MirrorConfig struct {
	BatchSize      int `envconfig:"SHIELDWRAP_MIRROR_BATCH_SIZE" default:"25"`
	PollIntervalMS int `envconfig:"SHIELDWRAP_MIRROR_POLL_MS" default:"2000"`
	MaxAttempts    int `envconfig:"SHIELDWRAP_MIRROR_MAX_ATTEMPTS" default:"10"`
}

type CertificateConfig struct {
	NumberPrefix string `envconfig:"SHIELDWRAP_CERT_NUMBER_PREFIX" default:"SW-"`
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
