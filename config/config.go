package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	StaticDir         string `mapstructure:"STATIC_DIR"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Storage. DB_DRIVER is "sqlite" (default) or "mongo".
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBPath        string `mapstructure:"DB_PATH"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis is optional; an empty address disables it.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`

	// Secrets may be plain text or bcrypt hashes.
	CDLPin       string `mapstructure:"CDL_PIN"`
	AdminSyncKey string `mapstructure:"ADMIN_SYNC_KEY"`

	EnforceSlot bool `mapstructure:"BOOKING_ENFORCE_SLOT"`

	// Google Sheets mirror.
	SheetsSpreadsheetID     string `mapstructure:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	SheetsCredentialsPath   string `mapstructure:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SheetsBookingsTab       string `mapstructure:"GOOGLE_SHEETS_BOOKINGS_SHEET"`
	SheetsUnavailabilityTab string `mapstructure:"GOOGLE_SHEETS_UNAVAILABILITIES_SHEET"`
	SheetsAlwaysRestore     bool   `mapstructure:"SHEETS_ALWAYS_RESTORE"`
	SheetsTimeoutSeconds    int    `mapstructure:"SHEETS_TIMEOUT_SECONDS"`
}

var AppConfig Config

var configKeys = map[string]interface{}{
	"APP_PORT":                             "3000",
	"ENV":                                  "development",
	"LOG_LEVEL":                            "info",
	"MAX_REQUESTS_PER_MIN":                 200,
	"STATIC_DIR":                           "./public",
	"TIMEZONE":                             "America/Sao_Paulo",
	"DB_DRIVER":                            "sqlite",
	"DB_PATH":                              "data/agendamentos.db",
	"DATABASE_URL":                         "mongodb://localhost:27017",
	"MONGO_DATABASE":                       "agendamento",
	"REDIS_ADDR":                           "",
	"REDIS_PASSWORD":                       "",
	"REDIS_LOCK_DB":                        0,
	"CDL_PIN":                              "1235",
	"ADMIN_SYNC_KEY":                       "admin-sync-123",
	"BOOKING_ENFORCE_SLOT":                 false,
	"GOOGLE_SHEETS_SPREADSHEET_ID":         "",
	"GOOGLE_SHEETS_CREDENTIALS_PATH":       "./credentials.json",
	"GOOGLE_SHEETS_BOOKINGS_SHEET":         "Agendamentos",
	"GOOGLE_SHEETS_UNAVAILABILITIES_SHEET": "Indisponibilidades",
	"SHEETS_ALWAYS_RESTORE":                false,
	"SHEETS_TIMEOUT_SECONDS":               15,
}

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// SetDefault also registers each key so AutomaticEnv is consulted by Unmarshal.
	for key, value := range configKeys {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// Defaults returns a Config populated only with default values. Tests use it
// to build services without touching the process environment.
func Defaults() Config {
	v := viper.New()
	for key, value := range configKeys {
		v.SetDefault(key, value)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to build default config: %v", err)
	}
	return cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to UTC when the zone database lacks it.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// SheetsTimeout is the per-call budget for spreadsheet requests.
func (c Config) SheetsTimeout() time.Duration {
	if c.SheetsTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.SheetsTimeoutSeconds) * time.Second
}
