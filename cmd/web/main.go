// cmd/web/main.go
//
// Neighborhood Watch portal – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Start the daily rotating logger (tees to console when running in a
//     TTY).
//
//  2. Load configuration: conf/.env → conf/global.yaml → NWATCH_* env
//     overrides, validated before use.
//
//  3. Pick the session adapter (memory, file, or MySQL) and build the
//     session store plus the signed-cookie codec.
//
//  4. Construct the backend auth client and the admin gate (static pair,
//     or Vault-sourced when admin.vault_path is set).
//
//  5. Load YAML form definitions, point the view engine at the repo root,
//     and register the page components.
//
//  6. Assemble the middleware chain and router, then serve until SIGINT or
//     SIGTERM, draining in-flight requests on the way out.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nwatch/portal/internal/admingate"
	"github.com/nwatch/portal/internal/authclient"
	"github.com/nwatch/portal/internal/component"
	"github.com/nwatch/portal/internal/config"
	"github.com/nwatch/portal/internal/database"
	"github.com/nwatch/portal/internal/form"
	"github.com/nwatch/portal/internal/logger"
	"github.com/nwatch/portal/internal/middleware"
	"github.com/nwatch/portal/internal/requestinfo"
	"github.com/nwatch/portal/internal/routing"
	"github.com/nwatch/portal/internal/server"
	"github.com/nwatch/portal/internal/session"
	"github.com/nwatch/portal/internal/vault"
	"github.com/nwatch/portal/internal/view"

	_ "github.com/nwatch/portal/modules/debug" // dev request-info endpoint

	admincomp "github.com/nwatch/portal/components/admin"
	authcomp "github.com/nwatch/portal/components/auth"
	landingcomp "github.com/nwatch/portal/components/landing"
	membercomp "github.com/nwatch/portal/components/member"
	securitycomp "github.com/nwatch/portal/components/security"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Session store + cookie codec ───────────────────────────────
	//
	adapter, err := buildAdapter(cfg)
	if err != nil {
		logOut.Fatalf("session adapter (%s): %v", cfg.Session.Adapter, err)
	}
	store := session.New(adapter)

	key, err := base64.StdEncoding.DecodeString(cfg.Session.CookieKey)
	if err != nil {
		logOut.Fatalf("session.cookie_key is not valid base64: %v", err)
	}
	codec := session.NewCookieCodec(key)

	//
	// ── 3.  Backend client + admin gate ────────────────────────────────
	//
	auth := authclient.New(cfg.Backend.RegisterURL, cfg.Backend.LoginURL, store, nil)

	verifier, err := buildVerifier(cfg, logOut.Infof)
	if err != nil {
		logOut.Fatalf("admin verifier: %v", err)
	}
	gate := admingate.New(verifier, store)

	//
	// ── 4.  Request-info enrichment (GeoIP optional) ───────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		logOut.Fatalf("open GeoIP database %s: %v", cfg.Geo.DBPath, err)
	}

	//
	// ── 5.  Forms, views, components ───────────────────────────────────
	//
	if err := form.RegisterForms([]string{cfg.Paths.Root}); err != nil {
		logOut.Fatalf("load form definitions: %v", err)
	}
	view.SetRoot(cfg.Paths.Root)

	component.Register(landingcomp.New(store))
	component.Register(authcomp.New(auth, store))
	component.Register(admincomp.New(gate, store))
	component.Register(securitycomp.New(store))
	component.Register(membercomp.New(store))

	//
	// ── 6.  Middleware chain + router ──────────────────────────────────
	//
	var mws []func(http.Handler) http.Handler
	if cfg.HTTP.ForceHTTPS {
		mws = append(mws, middleware.ForceHTTPS)
	}
	if cfg.RateLimit.Enabled {
		mws = append(mws, middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	mws = append(mws,
		middleware.Security,
		session.Attach(codec),
		requestinfo.Enrich,
	)
	router := routing.Build(mws...)

	//
	// ── 7.  Serve until signalled ──────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("server: %v", err)
	}
}

// buildAdapter constructs the configured session persistence backend.
func buildAdapter(cfg *config.Config) (session.Adapter, error) {
	switch cfg.Session.Adapter {
	case "file":
		return session.NewFileAdapter(cfg.Session.FilePath)
	case "mysql":
		db, err := database.Open(cfg.Session.DSN)
		if err != nil {
			return nil, err
		}
		return session.NewSQLAdapter(db), nil
	default:
		return session.NewMemoryAdapter(), nil
	}
}

// buildVerifier picks the admin credential source: Vault when a secret
// path is configured, the built-in static pair otherwise.
func buildVerifier(cfg *config.Config, logFn func(string, ...any)) (admingate.Verifier, error) {
	if cfg.Admin.VaultPath == "" {
		return admingate.NewStatic(), nil
	}
	vc, err := vault.New(context.Background(), logFn)
	if err != nil {
		return nil, err
	}
	return admingate.VaultVerifier{
		Client: vc,
		Path:   cfg.Admin.VaultPath,
		TTL:    5 * time.Minute,
	}, nil
}
