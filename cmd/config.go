package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/services"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	LogLevel   slog.Level

	RabbitMQURL      string
	RabbitMQExchange string

	PaymentRailURL     string
	PaymentRailAPIKey  string
	PaymentRailTimeout time.Duration

	PayoutSchedule  string
	PayoutBatchSize int
	Currency        string

	Rates services.Rates
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	config := Config{
		HTTPPort:          envOr("HTTP_PORT", "8080"),
		DBHost:            envOr("DB_HOST", "localhost"),
		DBPort:            envOr("DB_PORT", "5432"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            envOr("DB_NAME", "fulfillment"),
		DBSslMode:         envOr("DB_SSLMODE", "disable"),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:  envOr("RABBITMQ_EXCHANGE", "fulfillment.events"),
		PaymentRailURL:    envOr("PAYMENT_RAIL_URL", "http://localhost:8090"),
		PaymentRailAPIKey: os.Getenv("PAYMENT_RAIL_API_KEY"),
		PayoutSchedule:    os.Getenv("PAYOUT_SCHEDULE"),
		Currency:          strings.ToUpper(envOr("PAYOUT_CURRENCY", "USD")),
	}

	levelErr := config.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info")))
	var timeoutErr, batchErr, ratesErr error
	config.PaymentRailTimeout, timeoutErr = time.ParseDuration(envOr("PAYMENT_RAIL_TIMEOUT", "10s"))
	config.PayoutBatchSize, batchErr = strconv.Atoi(envOr("PAYOUT_BATCH_SIZE", "100"))
	config.Rates, ratesErr = LoadRates(os.Getenv("SETTLEMENT_RATES_FILE"))

	if err := errors.Join(
		wrapVar("LOG_LEVEL", levelErr),
		wrapVar("PAYMENT_RAIL_TIMEOUT", timeoutErr),
		wrapVar("PAYOUT_BATCH_SIZE", batchErr),
		wrapVar("SETTLEMENT_RATES_FILE", ratesErr),
	); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN is the PostgreSQL connection string built from the DB_* settings.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// ratesFile is the YAML shape of a settlement rates override. Omitted keys
// keep their default.
type ratesFile struct {
	PlatformRate   *string `yaml:"platform_rate"`
	WorkerRate     *string `yaml:"worker_rate"`
	ProcessingRate *string `yaml:"processing_rate"`
	FixedFee       *string `yaml:"fixed_fee"`
}

// LoadRates returns the default rates overridden by the YAML file at path.
// An empty path returns the defaults.
func LoadRates(path string) (services.Rates, error) {
	rates := services.DefaultRates()
	if path == "" {
		return rates, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return services.Rates{}, err
	}

	var file ratesFile
	if err = yaml.Unmarshal(raw, &file); err != nil {
		return services.Rates{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err = errors.Join(
		override(&rates.Platform, "platform_rate", file.PlatformRate),
		override(&rates.Worker, "worker_rate", file.WorkerRate),
		override(&rates.Processing, "processing_rate", file.ProcessingRate),
		override(&rates.FixedFee, "fixed_fee", file.FixedFee),
	); err != nil {
		return services.Rates{}, err
	}

	if err = rates.Validate(); err != nil {
		return services.Rates{}, err
	}
	return rates, nil
}

func override(dst *decimal.Decimal, key string, value *string) error {
	if value == nil {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func wrapVar(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}
