// internal/config/model.go
//
// Typed configuration model for the portal.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                     – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `NWATCH_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Backend section
//

// Backend points at the remote registration/login service.  The portal is a
// pure client of this service; both endpoints speak JSON over POST.
type Backend struct {
	RegisterURL string `koanf:"register_url" validate:"required,url"`
	LoginURL    string `koanf:"login_url"    validate:"required,url"`
}

//
// Session section
//

// Session selects the persistence adapter behind the session store and the
// signing key for the session cookie.
//
// Adapter is one of "memory", "file", or "mysql".  "file" keeps sessions in
// a JSON file under <root>/data so they survive restarts; "mysql" uses DSN.
type Session struct {
	Adapter  string `koanf:"adapter"  validate:"required,oneof=memory file mysql"`
	FilePath string `koanf:"file_path"`
	DSN      string `koanf:"dsn"`
	// CookieKey signs the session-ID cookie.  Base64, ≥ 32 bytes decoded.
	CookieKey string `koanf:"cookie_key"`
}

//
// Admin section
//

// Admin configures the credential source for the admin gate.  When
// VaultPath is empty the gate falls back to its built-in static pair, which
// is the documented legacy behavior.
type Admin struct {
	VaultPath string `koanf:"vault_path"` // e.g. "secret/nwatch/admin"
}

//
// Geo section
//

// Geo points at an optional MaxMind database used to annotate auth attempts.
// Lookup is skipped entirely when DBPath is empty.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// RateLimit section
//

// RateLimit throttles requests per client IP when enabled.  It defaults to
// off so the auth surfaces keep their historical no-lockout behavior.
type RateLimit struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or NWATCH_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // NWATCH_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Backend   Backend   `koanf:"backend"`
	Session   Session   `koanf:"session"`
	Admin     Admin     `koanf:"admin"`
	Geo       Geo       `koanf:"geo"`
	RateLimit RateLimit `koanf:"rate_limit"`
	Paths     Paths     `koanf:"-"` // not loaded from config files
}
