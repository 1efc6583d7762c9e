package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"academia/internal/adapters/api"
	emailPkg "academia/internal/adapters/email"
	web "academia/internal/adapters/http"
	"academia/internal/adapters/perf"
	"academia/internal/adapters/storage"
	sessionStore "academia/internal/adapters/storage/session"
	"academia/internal/config"
	"academia/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.MustLoad()
	log := logging.Setup(cfg.Env)

	// The only local state: the session database.
	db, err := storage.Open(cfg.Session.DBPath)
	if err != nil {
		log.Error("failed to open session database", logging.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	sessions := sessionStore.NewSQLiteStore(storage.NewTimedDB(db, collector))

	// Expired sessions are also purged lazily on read; the sweeper keeps the
	// table from accumulating rows for users who never come back.
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweeperCtx.Done():
				return
			case <-ticker.C:
				if err := sessions.DeleteExpired(sweeperCtx); err != nil {
					log.Error("session sweep failed", logging.Err(err))
				}
			}
		}
	}()

	client := api.NewClient(cfg.Backend.BaseURL, api.DefaultHTTPClient(cfg.Backend.RequestTimeout))
	client.SetCollector(collector)
	backends := &web.Backends{
		Horarios:  api.NewHorarioAPI(client),
		Master:    api.NewMasterDataAPI(client),
		Resources: api.NewResourceAPI(client),
		Auth:      api.NewAuthAPI(client),
	}

	if cfg.Email.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From), cfg.Email.From, cfg.Email.ContactTo)
		log.Info("email sender configured", "provider", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.Email.From, cfg.Email.ContactTo)
		if cfg.Env == "prod" {
			log.Warn("ACADEMIA_RESEND_KEY is not set, contact emails are DISABLED in production")
		} else {
			log.Info("email sender configured", "provider", "noop")
		}
	}

	mux := web.NewMux(web.Config{
		Env:                cfg.Env,
		StaticDir:          cfg.HTTPServer.StaticDir,
		CSRFKey:            cfg.HTTPServer.CSRFKey,
		RateLimitPerSecond: cfg.HTTPServer.RateLimitPerSecond,
		SessionTTL:         cfg.Session.TTL,
	}, sessions, backends, collector)

	srv := &http.Server{
		Addr:        cfg.HTTPServer.Address,
		Handler:     mux,
		IdleTimeout: cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server starting",
			"version", version,
			"addr", cfg.HTTPServer.Address,
			"env", cfg.Env,
			"backend", cfg.Backend.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", logging.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", logging.Err(err))
	}
}
