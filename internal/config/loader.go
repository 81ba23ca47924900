package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the
// reservation service.
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	AMQPURL          string
	AMQPQueue        string
	ReminderInterval time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields and accumulates
// every invalid value into a single error. An empty SQLite DSN selects the
// in-memory store; an empty AMQP URL disables event publishing.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		AMQPQueue:        "slot-updates",
		ReminderInterval: time.Minute,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("RESERVATION_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RESERVATION_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	cfg.SQLiteDSN = strings.TrimSpace(os.Getenv("RESERVATION_SQLITE_DSN"))
	cfg.AMQPURL = strings.TrimSpace(os.Getenv("RESERVATION_AMQP_URL"))

	if queue := strings.TrimSpace(os.Getenv("RESERVATION_AMQP_QUEUE")); queue != "" {
		cfg.AMQPQueue = queue
	}

	if intervalValue := strings.TrimSpace(os.Getenv("RESERVATION_REMINDER_INTERVAL")); intervalValue != "" {
		interval, err := time.ParseDuration(intervalValue)
		if err != nil || interval <= 0 {
			invalid = append(invalid, "RESERVATION_REMINDER_INTERVAL")
		} else {
			cfg.ReminderInterval = interval
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
