package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses a duration string and falls back to defaultValue when empty.
func DurationOrDefault(value string, defaultValue string) (time.Duration, error) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(defaultValue)
	}
	if candidate == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(candidate)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", candidate)
	}
	return d, nil
}

// Timeouts holds every configured duration, parsed once at startup.
type Timeouts struct {
	ServerRead     time.Duration
	ServerWrite    time.Duration
	ServerShutdown time.Duration
	ModelRequest   time.Duration
	Search         time.Duration
	Currency       time.Duration
	Python         time.Duration
}

func (c *Config) Timeouts() (Timeouts, error) {
	var (
		t   Timeouts
		err error
	)

	fields := []struct {
		dst      *time.Duration
		value    string
		fallback string
		key      string
	}{
		{&t.ServerRead, c.Server.ReadTimeout, DefaultServerReadTimeout, "server.read_timeout"},
		{&t.ServerWrite, c.Server.WriteTimeout, DefaultServerWriteTimeout, "server.write_timeout"},
		{&t.ServerShutdown, c.Server.ShutdownTimeout, DefaultServerShutdownTimeout, "server.shutdown_timeout"},
		{&t.ModelRequest, c.Model.RequestTimeout, DefaultModelRequestTimeout, "model.request_timeout"},
		{&t.Search, c.Tools.Search.Timeout, DefaultSearchToolTimeout, "tools.search.timeout"},
		{&t.Currency, c.Tools.Currency.Timeout, DefaultCurrencyToolTimeout, "tools.currency.timeout"},
		{&t.Python, c.Tools.Python.Timeout, DefaultPythonToolTimeout, "tools.python.timeout"},
	}
	for _, f := range fields {
		*f.dst, err = DurationOrDefault(f.value, f.fallback)
		if err != nil {
			return Timeouts{}, fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return t, nil
}
