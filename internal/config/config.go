package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Role names provisioned at startup and used by route guards.
const (
	RoleAdmin              = "Admin"
	RoleEmployee           = "Employee"
	RoleIndividualCustomer = "Individual-Customer"
	RoleCompanyCustomer    = "Company-Customer"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
	Identity IdentityConfig
	Seed     SeedConfig
	Email    EmailConfig
	Storage  StorageConfig
	Stripe   StripeConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SessionConfig controls the server-side session store.
type SessionConfig struct {
	IdleTimeoutMinutes int
	KeyPrefix          string
}

// IdleTimeout returns the sliding session lifetime.
func (s SessionConfig) IdleTimeout() time.Duration {
	if s.IdleTimeoutMinutes <= 0 {
		return 100 * time.Minute
	}
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// IdentityConfig holds account validation policy.
type IdentityConfig struct {
	RequireUniqueEmail     bool
	PasswordMinLength      int
	PasswordRequireDigit   bool
	PasswordRequireLower   bool
	PasswordRequireUpper   bool
	PasswordRequireSpecial bool
}

// SeedConfig holds the baseline provisioning values applied at startup.
type SeedConfig struct {
	// Strict makes migration failures abort startup instead of being logged.
	Strict bool
	Roles  []string
	Admin  SeedAdmin
}

// SeedAdmin describes the bootstrap administrator account.
type SeedAdmin struct {
	UserName      string
	Email         string
	Password      string
	Name          string
	PhoneNumber   string
	StreetAddress string
	City          string
	State         string
	PostalCode    string
}

// EmailConfig configures outbound SMTP delivery.
type EmailConfig struct {
	From     string
	Host     string
	Port     int
	Username string
	Password string
}

// StorageConfig selects where product images are written.
type StorageConfig struct {
	Driver       string
	WebRoot      string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3PathStyle  bool
	S3PublicBase string
}

// StripeConfig holds payment gateway keys.
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
}

// DefaultSeedConfig returns the stock provisioning values.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Roles: []string{RoleAdmin, RoleEmployee, RoleIndividualCustomer, RoleCompanyCustomer},
		Admin: SeedAdmin{
			UserName:      "admin@craftelio.com",
			Email:         "admin@craftelio.com",
			Password:      "Admin123*",
			Name:          "Meet Gangani",
			PhoneNumber:   "9601810456",
			StreetAddress: "test 123 Ave",
			City:          "Surat",
			State:         "gj",
			PostalCode:    "23422",
		},
	}
}

// DefaultIdentityConfig returns the stock password and user policy.
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		RequireUniqueEmail:     true,
		PasswordMinLength:      6,
		PasswordRequireDigit:   true,
		PasswordRequireLower:   true,
		PasswordRequireUpper:   true,
		PasswordRequireSpecial: true,
	}
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	seed := DefaultSeedConfig()
	seed.Strict = getEnvAsBool("SEED_STRICT", false)
	seed.Admin = SeedAdmin{
		UserName:      getEnv("SEED_ADMIN_USERNAME", getEnv("SEED_ADMIN_EMAIL", seed.Admin.UserName)),
		Email:         getEnv("SEED_ADMIN_EMAIL", seed.Admin.Email),
		Password:      getEnv("SEED_ADMIN_PASSWORD", seed.Admin.Password),
		Name:          getEnv("SEED_ADMIN_NAME", seed.Admin.Name),
		PhoneNumber:   getEnv("SEED_ADMIN_PHONE", seed.Admin.PhoneNumber),
		StreetAddress: getEnv("SEED_ADMIN_STREET", seed.Admin.StreetAddress),
		City:          getEnv("SEED_ADMIN_CITY", seed.Admin.City),
		State:         getEnv("SEED_ADMIN_STATE", seed.Admin.State),
		PostalCode:    getEnv("SEED_ADMIN_POSTAL_CODE", seed.Admin.PostalCode),
	}

	identity := DefaultIdentityConfig()
	identity.RequireUniqueEmail = getEnvAsBool("IDENTITY_REQUIRE_UNIQUE_EMAIL", identity.RequireUniqueEmail)
	identity.PasswordMinLength = getEnvAsInt("IDENTITY_PASSWORD_MIN_LENGTH", identity.PasswordMinLength)
	identity.PasswordRequireDigit = getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_DIGIT", identity.PasswordRequireDigit)
	identity.PasswordRequireLower = getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_LOWER", identity.PasswordRequireLower)
	identity.PasswordRequireUpper = getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_UPPER", identity.PasswordRequireUpper)
	identity.PasswordRequireSpecial = getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_SPECIAL", identity.PasswordRequireSpecial)

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "craftelio"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 10*1024*1024),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 100),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Session: SessionConfig{
			IdleTimeoutMinutes: getEnvAsInt("SESSION_IDLE_TIMEOUT_MINUTES", 100),
			KeyPrefix:          getEnv("SESSION_KEY_PREFIX", "craftelio:session:"),
		},
		Identity: identity,
		Seed:     seed,
		Email: EmailConfig{
			From:     getEnv("EMAIL_FROM", "noreply@craftelio.com"),
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", "local"),
			WebRoot:      getEnv("STORAGE_WEB_ROOT", "wwwroot"),
			S3Bucket:     os.Getenv("STORAGE_S3_BUCKET"),
			S3Region:     getEnv("STORAGE_S3_REGION", "us-east-1"),
			S3Endpoint:   os.Getenv("STORAGE_S3_ENDPOINT"),
			S3AccessKey:  os.Getenv("STORAGE_S3_ACCESS_KEY"),
			S3SecretKey:  os.Getenv("STORAGE_S3_SECRET_KEY"),
			S3PathStyle:  getEnvAsBool("STORAGE_S3_PATH_STYLE", true),
			S3PublicBase: os.Getenv("STORAGE_S3_PUBLIC_BASE"),
		},
		Stripe: StripeConfig{
			SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
