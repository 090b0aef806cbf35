package config

import (
	"fmt"
	"os"
	"strconv"
)

// RelayConfig holds configuration for the device relay process.
type RelayConfig struct {
	RedisAddress      string `validate:"required"`
	RedisPassword     string
	LocationQueueName string `validate:"required"`
	SerialDevice      string `validate:"required"`
	SerialBaudRate    int    `validate:"min=1"`
	HealthPort        string `validate:"required,numeric"`
	LogLevel          string `validate:"omitempty,oneof=debug info warn error"`
	LogFile           string
}

func LoadRelayConfig() (*RelayConfig, error) {
	cfg := RelayConfig{
		LocationQueueName: "emergency_locations",
		SerialDevice:      "/dev/ttyUSB1",
		SerialBaudRate:    9600,
		HealthPort:        "8090",
		LogLevel:          "info",
	}

	setString(&cfg.RedisAddress, "REDIS_ADDRESS")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.LocationQueueName, "LOCATION_QUEUE_NAME")
	setString(&cfg.SerialDevice, "SERIAL_DEVICE")
	setString(&cfg.HealthPort, "RELAY_HEALTH_PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFile, "LOG_FILE")

	if v := os.Getenv("SERIAL_BAUD_RATE"); v != "" {
		baud, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SERIAL_BAUD_RATE must be an integer: %w", err)
		}
		cfg.SerialBaudRate = baud
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("relay config validation failed: %w", err)
	}
	return &cfg, nil
}
