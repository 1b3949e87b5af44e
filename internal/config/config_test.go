package config_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pummelhq/pummel/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		TargetURL:      "https://example.com/api",
		Method:         "GET",
		Rate:           10,
		Total:          100,
		Timeout:        30 * time.Second,
		ConnectTimeout: 10 * time.Second,
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Method = "POST"
	cfg.Body = `{"key":"value"}`
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid POST config with JSON body, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *config.Config)
		wantMsg string
	}{
		{"empty target", func(c *config.Config) { c.TargetURL = "" }, "target is required"},
		{"target without scheme", func(c *config.Config) { c.TargetURL = "example.com/api" }, "scheme and host"},
		{"unsupported method", func(c *config.Config) { c.Method = "PATCH" }, "method must be"},
		{"body on GET", func(c *config.Config) { c.Body = `{"a":1}` }, "only valid for POST and PUT"},
		{"invalid JSON body", func(c *config.Config) {
			c.Method = "POST"
			c.Body = `{"a":`
		}, "valid JSON"},
		{"zero rate", func(c *config.Config) { c.Rate = 0 }, "rate must be >= 1"},
		{"zero total", func(c *config.Config) { c.Total = 0 }, "total must be >= 1"},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }, "timeout must be > 0"},
		{"zero connect timeout", func(c *config.Config) { c.ConnectTimeout = 0 }, "connect-timeout must be > 0"},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantMsg) {
			t.Errorf("%s: expected message containing %q, got %q", tc.name, tc.wantMsg, err.Error())
		}
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Issues()) < 4 {
		t.Errorf("expected multiple issues for an empty config, got %d: %v", len(verr.Issues()), verr.Issues())
	}
}

func TestBodyMethods(t *testing.T) {
	if !config.BodyMethods("POST") || !config.BodyMethods("PUT") {
		t.Errorf("POST and PUT carry a body")
	}
	if config.BodyMethods("GET") || config.BodyMethods("DELETE") {
		t.Errorf("GET and DELETE do not carry a body")
	}
}
