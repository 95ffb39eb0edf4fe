package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Events    EventsConfig
	Log       LogConfig
	POS       POSConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// CORSConfig is the cross-origin policy for the back office and kiosk clients.
// An empty AllowedOrigins list admits same-origin requests only.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type EventsConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type LogConfig struct {
	Level string
}

type POSConfig struct {
	Timezone         string
	DefaultStoreName string
	AdminEmail       string
	AdminPassword    string
	AdminName        string
	AdminPIN         string
	SeedMenu         bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	viper.SetDefault("APP_NAME", "brewpos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "brewpos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Madrid")
	viper.SetDefault("DB_SQLITE_PATH", "./brewpos.db")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "Accept,Authorization,Content-Type,Origin,X-Request-ID,Idempotency-Key")
	viper.SetDefault("CORS_EXPOSED_HEADERS", "Content-Length,Content-Type,Content-Disposition,X-Request-ID,X-Idempotency-Replayed")
	viper.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	viper.SetDefault("CORS_MAX_AGE_HOURS", 12)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("EVENTS_DRIVER", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("POS_TIMEZONE", "Europe/Madrid")
	viper.SetDefault("POS_DEFAULT_STORE_NAME", "Main Street Coffee")
	viper.SetDefault("POS_ADMIN_NAME", "Store Admin")
	viper.SetDefault("POS_SEED_MENU", true)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins:   SplitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   SplitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   SplitList(viper.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   SplitList(viper.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           time.Duration(viper.GetInt("CORS_MAX_AGE_HOURS")) * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Events: EventsConfig{
			Driver:        viper.GetString("EVENTS_DRIVER"),
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		POS: POSConfig{
			Timezone:         viper.GetString("POS_TIMEZONE"),
			DefaultStoreName: viper.GetString("POS_DEFAULT_STORE_NAME"),
			AdminEmail:       viper.GetString("POS_ADMIN_EMAIL"),
			AdminPassword:    viper.GetString("POS_ADMIN_PASSWORD"),
			AdminName:        viper.GetString("POS_ADMIN_NAME"),
			AdminPIN:         viper.GetString("POS_ADMIN_PIN"),
			SeedMenu:         viper.GetBool("POS_SEED_MENU"),
		},
	}
}

// SplitList parses a comma or space separated env value, dropping blanks
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the POS timezone used to key presence entries by day.
// Unknown zones fall back to UTC.
func (c *POSConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
