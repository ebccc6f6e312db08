package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDriver string // sqlite | pgx
	DBDSN    string
	LogFile  string
	LogLevel string

	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int // 0 selects bcrypt.DefaultCost

	RevocationStore string // sql | redis
	PruneInterval   time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	AMQPURL      string
	AMQPExchange string

	CORSOrigins     []string
	LoginRateMax    int
	LoginRateWindow time.Duration
	BodyLimit       int
}

// LoadEnvFile merges a .env file into the process environment. Existing variables win.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("[config] no %s file found; relying on existing environment", path)
	}
}

func Load() Config {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "fintrack.db"),
		LogFile:  getEnv("LOG_FILE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		JWTSecret:  strings.TrimSpace(os.Getenv("SECRET_KEY")),
		JWTIssuer:  getEnv("JWT_ISSUER", "fintrack"),
		TokenTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)) * time.Minute,
		BcryptCost: getEnvInt("BCRYPT_COST", 0),

		RevocationStore: getEnv("REVOCATION_STORE", "sql"),
		PruneInterval:   getEnvDuration("REVOCATION_PRUNE_INTERVAL", time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack.events"),

		CORSOrigins:     parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LoginRateMax:    getEnvInt("LOGIN_RATE_MAX", 10),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", 10*time.Minute),
		BodyLimit:       getEnvInt("BODY_LIMIT", 1<<20),
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s REVOCATION_STORE=%s TOKEN_TTL=%s",
		cfg.Port, cfg.DBDriver, cfg.RevocationStore, cfg.TokenTTL)
	return cfg
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %q", c.Port))
	}
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER %q: must be sqlite or pgx", c.DBDriver))
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		problems = append(problems, "DB_DSN is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "SECRET_KEY is required")
	} else if len(c.JWTSecret) < 16 {
		problems = append(problems, "SECRET_KEY must be at least 16 bytes")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.BcryptCost != 0 && (c.BcryptCost < 4 || c.BcryptCost > 31) {
		problems = append(problems, "BCRYPT_COST must be between 4 and 31")
	}
	switch c.RevocationStore {
	case "sql":
	case "redis":
		if c.RedisAddr == "" {
			problems = append(problems, "REDIS_ADDR is required when REVOCATION_STORE=redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid REVOCATION_STORE %q: must be sql or redis", c.RevocationStore))
	}
	if c.PruneInterval < 0 {
		problems = append(problems, "REVOCATION_PRUNE_INTERVAL must not be negative")
	}
	if c.AMQPURL != "" && !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
		problems = append(problems, "AMQP_URL must use the amqp or amqps scheme")
	}
	if c.LoginRateMax < 1 {
		problems = append(problems, "LOGIN_RATE_MAX must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
