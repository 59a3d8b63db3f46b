package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	appweb "financas/web"
)

// Ledger is the transaction persistence the handlers need.
type Ledger interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
}

// CredentialVerifier checks a username/password pair against the
// credential store.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*core.User, error)
}

// SessionManager binds verified identities to request contexts.
type SessionManager interface {
	Authenticate(ctx context.Context, userID int64) (string, error)
	CurrentUser(ctx context.Context, token string) (*core.User, error)
	Terminate(ctx context.Context, token string) error
	TTL() time.Duration
}

// Server serves the finance tracker UI and the CSV export.
type Server struct {
	http.Server
	templates    *template.Template
	ledger       Ledger
	creds        CredentialVerifier
	sessions     SessionManager
	secureCookie bool
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. Dependencies are injected; there is no package-level state.
func NewServer(addr string, ledger Ledger, creds CredentialVerifier, sessions SessionManager, secureCookie bool) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		creds:        creds,
		sessions:     sessions,
		secureCookie: secureCookie,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withRequestLogging(s.handleHome))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/login", s.withRequestLogging(s.handleLogin))
	mux.HandleFunc("/logout", s.withRequestLogging(s.requireAuth(s.handleLogout)))
	mux.HandleFunc("/dashboard", s.withRequestLogging(s.requireAuth(s.handleDashboard)))
	mux.HandleFunc("/add_transaction", s.withRequestLogging(s.requireAuth(s.handleAddTransaction)))
	mux.HandleFunc("/export_csv", s.withRequestLogging(s.requireAuth(s.handleExportCSV)))

	return s
}

// withRequestLogging adds security headers and request logging to responses.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// requireAuth guards protected handlers. Anonymous callers are redirected
// to the login entry point; authenticated users are placed in the request
// context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		user, err := s.sessions.CurrentUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, core.ErrAuthRequired) {
				s.clearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			slog.ErrorContext(r.Context(), "Session lookup error", applog.FieldError, err)
			http.Error(w, "Erro interno", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
