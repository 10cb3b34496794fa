package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort string `yaml:"server_port"`

	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`

	RabbitURL string `yaml:"rabbit_url"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	JWTSecret      string        `yaml:"jwt_secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`

	AdminName     string `yaml:"admin_name"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	ReportCron string      `yaml:"report_cron"`
	ReportDir  string      `yaml:"report_dir"`
	Minio      MinioConfig `yaml:"minio"`
}

type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Requests      int           `yaml:"requests"`
	LoginRequests int           `yaml:"login_requests"`
	Window        time.Duration `yaml:"window"`
	Prefix        string        `yaml:"prefix"`
}

// MinioConfig is optional; an empty Endpoint keeps reports on the local disk.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func Default() *Config {
	return &Config{
		ServerPort:     "8080",
		DBHost:         "localhost",
		DBPort:         "5432",
		DBUser:         "postgres",
		DBPassword:     "postgres",
		DBName:         "room_booking",
		DBSSLMode:      "disable",
		RedisDB:        0,
		JWTSecret:      "change-me-in-production-please-32b",
		AccessTokenTTL: 8 * time.Hour,
		BcryptCost:     10,
		AdminName:      "Administrator",
		AdminEmail:     "admin@admin.com",
		AdminPassword:  "admin",
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Requests:      120,
			LoginRequests: 10,
			Window:        time.Minute,
			Prefix:        "rl",
		},
		ReportCron: "0 6 * * *",
		ReportDir:  "reports",
		Minio: MinioConfig{
			Bucket: "daily-reports",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and the environment, in that order of precedence (env wins).
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] .env not loaded: %v", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			log.Fatalf("failed to load config file: %v", err)
		}
	}
	cfg.applyEnv()
	return cfg
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)

	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)

	c.RabbitURL = getEnv("RABBITMQ_URL", c.RabbitURL)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)

	c.AdminName = getEnv("ADMIN_NAME", c.AdminName)
	c.AdminEmail = getEnv("ADMIN_EMAIL", c.AdminEmail)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.Requests = getEnvInt("RATE_LIMIT_REQUESTS", c.RateLimit.Requests)
	c.RateLimit.LoginRequests = getEnvInt("RATE_LIMIT_LOGIN_REQUESTS", c.RateLimit.LoginRequests)
	c.RateLimit.Window = getEnvDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window)
	c.RateLimit.Prefix = getEnv("RATE_LIMIT_PREFIX", c.RateLimit.Prefix)

	c.ReportCron = getEnv("REPORT_CRON", c.ReportCron)
	c.ReportDir = getEnv("REPORT_DIR", c.ReportDir)

	c.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Minio.SecretKey)
	c.Minio.Bucket = getEnv("MINIO_BUCKET", c.Minio.Bucket)
	c.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", c.Minio.UseSSL)
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[Config] invalid bool for %s: %q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[Config] invalid duration for %s: %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
