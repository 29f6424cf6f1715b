package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"employee-service/internal/models"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis (login throttling)
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// NATS (domain events)
	NatsURL string

	// Server
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins []string

	// Sessions
	SessionCookieName string
	SessionTTL        time.Duration
	LoginMaxFailures  int
	LoginWindow       time.Duration

	// Pagination
	DefaultPageSize int
	MaxPageSize     int

	// Seeding
	SeedGlobalAdminUsername string
	SeedGlobalAdminPassword string
	SeedProvinces           string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnvInt("DB_PORT", 5432),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "employee_db"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NatsURL: os.Getenv("NATS_URL"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		// Sessions
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "employee_session"),
		SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		LoginMaxFailures:  getEnvInt("LOGIN_MAX_FAILURES", 5),
		LoginWindow:       time.Duration(getEnvInt("LOGIN_WINDOW_MINUTES", 15)) * time.Minute,

		// Pagination
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 100),

		// Seeding
		SeedGlobalAdminUsername: os.Getenv("SEED_GLOBAL_ADMIN_USERNAME"),
		SeedGlobalAdminPassword: os.Getenv("SEED_GLOBAL_ADMIN_PASSWORD"),
		SeedProvinces:           os.Getenv("SEED_PROVINCES"),
	}
}

// IsDevelopment reports whether the service runs on a developer machine
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "development", "local":
		return true
	default:
		return false
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_* variables
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	// Use URL format for better pgx driver compatibility with SSL
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// NewLogger builds the process logger
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// GormLogLevel is Info outside production and Error in production
func GormLogLevel(cfg *Config) logger.LogLevel {
	if cfg.IsProduction() {
		return logger.Error
	}
	return logger.Info
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(GormLogLevel(cfg)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables of every stored model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Province{},
		&models.Employee{},
		&models.Settings{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
