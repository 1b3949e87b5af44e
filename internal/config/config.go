package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Defaults applied before config file and flag overrides.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultConnectTimeout = 10 * time.Second
)

// Config describes a single load test run. It is immutable once validated;
// the engine performs no further validation of these fields.
type Config struct {
	TargetURL       string        `mapstructure:"target"`
	Method          string        `mapstructure:"method"`
	Body            string        `mapstructure:"body"`
	Rate            int           `mapstructure:"rate"`
	Total           int           `mapstructure:"total"`
	RandomUserAgent bool          `mapstructure:"random_user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	JSONOutput      bool          `mapstructure:"json_output"`
	LogErrors       bool          `mapstructure:"log_errors"`
	NoProgress      bool          `mapstructure:"no_progress"`
	Verbose         bool          `mapstructure:"verbose"`
	Interactive     bool          `mapstructure:"-"`
	Thresholds      []string      `mapstructure:"thresholds"`
	ConfigFile      string        `mapstructure:"-"`
}

var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// BodyMethods reports whether the method carries a request body.
func BodyMethods(method string) bool {
	return method == "POST" || method == "PUT"
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		issues = append(issues, "target is required (use --help for usage information)")
	} else if parsed, err := url.Parse(target); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		issues = append(issues, fmt.Sprintf("target %q must include a scheme and host (e.g. https://example.com/api)", target))
	}

	method := strings.ToUpper(strings.TrimSpace(c.Method))
	if !allowedMethods[method] {
		issues = append(issues, fmt.Sprintf("method must be GET, POST, PUT or DELETE, got %q", c.Method))
	}

	if strings.TrimSpace(c.Body) != "" {
		if !BodyMethods(method) {
			issues = append(issues, "body is only valid for POST and PUT requests")
		} else if !gjson.Valid(c.Body) {
			issues = append(issues, "body must be valid JSON")
		}
	}

	if c.Rate < 1 {
		issues = append(issues, "rate must be >= 1")
	}
	if c.Total < 1 {
		issues = append(issues, "total must be >= 1")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if c.ConnectTimeout <= 0 {
		issues = append(issues, "connect-timeout must be > 0")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
