// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// Beyond tag rules, `validateStruct` enforces cross-field constraints the
// tags cannot express: the "file" session adapter needs a file path, the
// "mysql" adapter needs a DSN, and the cookie signing key must decode to
// enough bytes.

package config

import (
	"encoding/base64"
	"fmt"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}

	switch c.Session.Adapter {
	case "file":
		if c.Session.FilePath == "" {
			return fmt.Errorf("session.file_path required when adapter is %q", c.Session.Adapter)
		}
	case "mysql":
		if c.Session.DSN == "" {
			return fmt.Errorf("session.dsn required when adapter is %q", c.Session.Adapter)
		}
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be positive when enabled")
	}

	// The cookie codec refuses short keys later anyway; catching it here
	// turns a startup panic into a readable config error.
	key, err := base64.StdEncoding.DecodeString(c.Session.CookieKey)
	if err != nil {
		return fmt.Errorf("session.cookie_key is not valid base64: %w", err)
	}
	if len(key) < 32 {
		return fmt.Errorf("session.cookie_key must decode to at least 32 bytes, got %d", len(key))
	}
	return nil
}
