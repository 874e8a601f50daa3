// Package config loads runtime defaults from the environment and an optional
// .env file. Command-line flags override these values.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvModel        = "BETTERREST_MODEL"
	EnvPort         = "BETTERREST_PORT"
	EnvMQTTBroker   = "BETTERREST_MQTT_BROKER"
	EnvMQTTTopic    = "BETTERREST_MQTT_TOPIC"
	EnvMQTTClientID = "BETTERREST_MQTT_CLIENT_ID"
)

// Defaults.
const (
	DefaultModelPath    = "./model/sleep_calculator.json"
	DefaultMQTTTopic    = "betterrest/bedtime"
	DefaultMQTTClientID = "betterrest"
)

type Config struct {
	// ModelPath is the regression model artifact.
	ModelPath string

	// Port runs the web form when > 0.
	Port int

	// MQTT notifications are disabled when MQTTBroker is empty.
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
}

// Load reads .env (if present) and then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		ModelPath:    getEnv(EnvModel, DefaultModelPath),
		Port:         getEnvInt(EnvPort, 0),
		MQTTBroker:   getEnv(EnvMQTTBroker, ""),
		MQTTTopic:    getEnv(EnvMQTTTopic, DefaultMQTTTopic),
		MQTTClientID: getEnv(EnvMQTTClientID, DefaultMQTTClientID),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "err", err)
		return defaultValue
	}
	return intValue
}
