package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Wallet API (the external aggregation backend)
	WalletAPIURL   string
	WalletAPIToken string
	WalletTimeout  time.Duration

	// Backend selection
	WalletBackend string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8082"),

		WalletAPIURL:   getEnv("WALLET_API_URL", "http://localhost:3000/api"),
		WalletAPIToken: getEnv("WALLET_API_TOKEN", ""),
		WalletTimeout:  getEnvDuration("WALLET_API_TIMEOUT", 15*time.Second),

		WalletBackend: getEnv("WALLET_BACKEND", "memory"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate wallet backend
	validBackends := []string{"memory", "api"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.WalletBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid wallet backend '%s': must be one of %v", c.WalletBackend, validBackends))
	}

	// Validate wallet API URL if backend is api
	if c.WalletBackend == "api" {
		if c.WalletAPIURL == "" {
			errors = append(errors, "wallet API URL cannot be empty when using api backend")
		} else if parsedURL, err := url.Parse(c.WalletAPIURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid wallet API URL '%s': %v", c.WalletAPIURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid wallet API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate wallet API timeout
	if c.WalletTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid wallet API timeout %v: must be at least 1 second", c.WalletTimeout))
	} else if c.WalletTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid wallet API timeout %v: must be at most 5 minutes", c.WalletTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
