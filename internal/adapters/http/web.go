package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"academia/internal/adapters/api"
	"academia/internal/adapters/email"
	"academia/internal/adapters/http/middleware"
	"academia/internal/adapters/perf"
	sessionStore "academia/internal/adapters/storage/session"
)

// Backends holds the REST backend adapters the handlers depend on.
type Backends struct {
	Horarios  *api.HorarioAPI
	Master    *api.MasterDataAPI
	Resources *api.ResourceAPI
	Auth      *api.AuthAPI
}

// Config carries the HTTP layer settings from the application config.
type Config struct {
	Env                string
	StaticDir          string
	CSRFKey            string // hex-encoded, 32 bytes
	RateLimitPerSecond int
	SessionTTL         time.Duration
}

// Global dependencies (set by NewMux)
var backends *Backends
var sessions sessionStore.Store
var perfCollector *perf.Collector
var sessionTTL time.Duration

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var contactToAddress string

// SetEmailSender sets the contact-form email sender for the application.
func SetEmailSender(sender email.Sender, from, to string) {
	emailSender = sender
	emailFromAddress = from
	contactToAddress = to
}

// loadCSRFKey decodes the hex-encoded CSRF secret. In production the key MUST
// be set. In development a random key is generated per startup.
func loadCSRFKey(cfg Config) []byte {
	if cfg.CSRFKey != "" {
		key, err := hex.DecodeString(cfg.CSRFKey)
		if err != nil || len(key) != 32 {
			log.Fatal("CSRF key must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if cfg.Env == "prod" {
		log.Fatal("CSRF key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ACADEMIA_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(cfg Config, store sessionStore.Store, b *Backends, collector *perf.Collector) http.Handler {
	backends = b
	sessions = store
	perfCollector = collector
	sessionTTL = cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	middleware.SecureCookies = cfg.Env == "prod"

	csrfKey := loadCSRFKey(cfg)

	rate := cfg.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Timing(collector))
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CSRF(csrfKey))
	r.Use(middleware.Auth(store))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// Public marketing site
	r.Get("/", handleLanding)
	r.Get("/horarios", handlePublicCalendar)
	r.Get("/contacto", handleContactForm)
	r.Post("/contacto", handleContactSubmit)

	// Auth
	r.Get("/login", handleLogin)
	r.Post("/login", handleLogin)
	r.Post("/logout", handleLogout)

	// Admin dashboard
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", handleDashboard)
		r.Get("/calendario", handleAdminCalendar)

		r.Post("/horarios", handleSaveHorario)
		r.Delete("/horarios/{id}", handleDeleteHorario)
		r.Post("/horarios/{id}/eliminar", handleDeleteHorario)

		r.Get("/alumnos", handleAlumnos)
		r.Post("/alumnos", handleSaveAlumno)
		r.Post("/alumnos/{id}/eliminar", handleDeleteAlumno)

		r.Get("/profesores", handleProfesores)
		r.Post("/profesores", handleSaveProfesor)
		r.Post("/profesores/{id}/eliminar", handleDeleteProfesor)

		r.Get("/disciplinas", handleDisciplinas)

		r.Get("/pagos", handlePagos)
		r.Post("/pagos", handleSavePago)
		r.Post("/pagos/{id}/eliminar", handleDeletePago)

		// User management and perf are admin-role only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/usuarios", handleUsuarios)
			r.Post("/usuarios", handleSaveUsuario)
			r.Post("/usuarios/{id}/eliminar", handleDeleteUsuario)
			r.Get("/perf", handlePerfSnapshot)
		})
	})

	return r
}
