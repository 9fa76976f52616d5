package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be between %d and %d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.Tracking.MinIntervalDuration < 0 {
		return fmt.Errorf("tracking.min_interval_duration must be >= 0 (got %v)", c.Tracking.MinIntervalDuration)
	}

	if c.Tracking.HistoryMaxPageSize <= 0 {
		return fmt.Errorf("tracking.history_max_page_size must be > 0 (got %d)", c.Tracking.HistoryMaxPageSize)
	}

	if len(c.Kafka.Brokers()) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic must be set when brokers are configured")
	}

	return nil
}
