// Package helpers connects commands to the backend: it builds the API
// client from configuration and gives each collection a typed facade.
package helpers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pressroom/pressctl/internal/auth"
	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/pressroom/pressctl/internal/httpclient"
)

// APIFactory builds the backend client for a command. Commands look it up
// from their context so tests can substitute a fake.
type APIFactory func(cfg config.Hook, logger *slog.Logger) (client.API, error)

type Key struct{}

// APIFactoryKey is the context key an APIFactory is stored under
var APIFactoryKey = Key{}

// DefaultAPIFactory, when set, replaces the real factory for every command
var DefaultAPIFactory APIFactory

// GetAPIFactory returns the factory commands should use
func GetAPIFactory() APIFactory {
	if DefaultAPIFactory != nil {
		return DefaultAPIFactory
	}
	return RESTAPIFactory
}

// RESTAPIFactory talks to the configured base URL, authenticating with the
// profile's session token
func RESTAPIFactory(cfg config.Hook, logger *slog.Logger) (client.API, error) {
	timeout, err := RequestTimeout(cfg)
	if err != nil {
		return nil, err
	}

	session := auth.SessionFromConfig(cfg)
	doer := httpclient.NewLoggingHTTPClient(timeout, logger)
	return client.New(cfg.GetString(config.BaseURLConfigPath), session, doer)
}

// RequestTimeout reads the per request timeout, defaulting to 30s
func RequestTimeout(cfg config.Hook) (time.Duration, error) {
	raw := cfg.GetString(config.TimeoutConfigPath)
	if raw == "" {
		raw = config.DefaultTimeout
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("invalid %s %q, expected a positive duration such as 30s", config.TimeoutConfigPath, raw)
	}
	return timeout, nil
}
