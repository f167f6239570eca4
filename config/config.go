package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultHostURL   = "http://localhost"
	DefaultPort      = "9991"
	DefaultTransport = "stdio"
	DefaultHTTPAddr  = ":8080"
)

// Config holds the resolved credentials and server settings. It is built
// once at startup and treated as read-only afterwards.
type Config struct {
	// APIKey authenticates every outbound platform request. Required.
	APIKey string

	// BaseURL is the platform's HTTP base URL including port, e.g.
	// "http://localhost:9991". Derived from LENSES_HOST_URL + LENSES_PORT.
	BaseURL string

	// WebSocketURL is the base URL for the SQL WebSocket endpoint. Derived
	// from BaseURL (http -> ws) unless LENSES_WS_URL overrides it.
	WebSocketURL string

	// Transport selects the MCP transport: "stdio" or "http".
	Transport string

	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string
}

// ConfigurationError reports a missing or malformed startup setting.
// It is fatal: the server must refuse to start rather than fail lazily
// on the first invocation.
type ConfigurationError struct {
	Var    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Var, e.Reason)
}

// Load resolves the configuration from the process environment. An optional
// .env file in the working directory is loaded first; a missing file is not
// an error. The API key value itself is never logged or echoed.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:    os.Getenv("LENSES_API_KEY"),
		Transport: envOr("MCP_TRANSPORT", DefaultTransport),
		HTTPAddr:  envOr("MCP_HTTP_ADDR", DefaultHTTPAddr),
	}

	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Var: "LENSES_API_KEY", Reason: "must be set"}
	}

	host := envOr("LENSES_HOST_URL", DefaultHostURL)
	port := envOr("LENSES_PORT", DefaultPort)
	base := strings.TrimSuffix(host, "/") + ":" + port

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ConfigurationError{Var: "LENSES_HOST_URL", Reason: fmt.Sprintf("not a valid base URL: %q", base)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigurationError{Var: "LENSES_HOST_URL", Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	cfg.BaseURL = base

	if ws := os.Getenv("LENSES_WS_URL"); ws != "" {
		cfg.WebSocketURL = strings.TrimSuffix(ws, "/")
	} else {
		cfg.WebSocketURL = "ws" + strings.TrimPrefix(base, "http")
	}

	switch cfg.Transport {
	case "stdio", "http":
	default:
		return nil, &ConfigurationError{Var: "MCP_TRANSPORT", Reason: fmt.Sprintf("must be \"stdio\" or \"http\", got %q", cfg.Transport)}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
