package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	NotifierNone     = "none"
	NotifierSerial   = "serial"
	NotifierRedis    = "redis"
	NotifierRabbitMQ = "rabbitmq"
)

type Config struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port" validate:"required,numeric"`

	// DatabaseURL selects the Postgres store; empty keeps requests in memory.
	DatabaseURL string `yaml:"databaseURL"`

	RedisAddress  string `yaml:"redisAddress" validate:"required_if=NotifierBackend redis"`
	RedisPassword string `yaml:"redisPassword"`
	RabbitMQURL   string `yaml:"rabbitmqURL" validate:"required_if=NotifierBackend rabbitmq"`

	NotifierBackend   string `yaml:"notifierBackend" validate:"oneof=none serial redis rabbitmq"`
	LocationQueueName string `yaml:"locationQueueName" validate:"required"`
	SerialDevice      string `yaml:"serialDevice" validate:"required_if=NotifierBackend serial"`
	SerialBaudRate    int    `yaml:"serialBaudRate" validate:"min=1"`

	AllowedOrigins  []string `yaml:"allowedOrigins"`
	CreateRateLimit string   `yaml:"createRateLimit"`

	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	LogFile  string `yaml:"logFile"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func defaults() Config {
	return Config{
		Environment:       "development",
		Port:              "8080",
		NotifierBackend:   NotifierNone,
		LocationQueueName: "emergency_locations",
		SerialDevice:      "/dev/ttyUSB1",
		SerialBaudRate:    9600,
		AllowedOrigins:    []string{"*"},
		CreateRateLimit:   "30-M",
		LogLevel:          "info",
	}
}

// Load builds the API configuration from defaults, the optional YAML file
// named by CONFIG_FILE and finally environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Environment, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.DatabaseURL, "DB_CONNECTION_STRING")
	setString(&cfg.RedisAddress, "REDIS_ADDRESS")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RabbitMQURL, "RABBITMQ_URL")
	setString(&cfg.NotifierBackend, "NOTIFIER_BACKEND")
	setString(&cfg.LocationQueueName, "LOCATION_QUEUE_NAME")
	setString(&cfg.SerialDevice, "SERIAL_DEVICE")
	setString(&cfg.CreateRateLimit, "CREATE_RATE_LIMIT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFile, "LOG_FILE")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("SERIAL_BAUD_RATE"); v != "" {
		baud, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERIAL_BAUD_RATE must be an integer: %w", err)
		}
		cfg.SerialBaudRate = baud
	}
	return nil
}

// Validate checks the configuration struct.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
