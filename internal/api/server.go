// Package api provides the HTTP API server and handlers for Inkwell.
package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/media/images"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// Auth endpoints get a tighter per-IP budget than the rest of the API
// to slow down credential stuffing.
const (
	authRateLimit = 0.5 // requests per second, sustained
	authRateBurst = 10
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *sqlite.Store
	services    *Services
	uploads     *images.Storage
	router      *chi.Mux
	api         huma.API
	authLimiter *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	store *sqlite.Store,
	services *Services,
	tokens *auth.TokenService,
	uploads *images.Storage,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(tokens))

	humaConfig := huma.DefaultConfig("Inkwell API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s := &Server{
		store:       store,
		services:    services,
		uploads:     uploads,
		router:      router,
		authLimiter: ratelimit.New(authRateLimit, authRateBurst),
		logger:      logger,
	}

	router.Use(s.rateLimitAuth)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerPostRoutes()
	s.registerTagRoutes()
	s.registerUserRoutes()
	s.registerSocialRoutes()
	s.registerUploadRoutes()
	if services.Search != nil {
		s.registerSearchRoutes()
	}
	if services.Photo != nil {
		s.registerPhotoRoutes()
	}

	// Uploaded images are served straight from disk, outside the JSON API.
	router.Get("/uploads/{folder}/{file}", s.handleServeUpload)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held background resources.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

// rateLimitAuth throttles the credential endpoints per client IP.
func (s *Server) rateLimitAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.authLimiter.Allow(ip) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"code":"RATE_LIMITED","error":"too many requests, slow down"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleServeUpload streams a stored image. The storage layer rejects
// path traversal before we touch the filesystem.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	file := chi.URLParam(r, "file")

	path, err := s.uploads.Open(folder, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		// Traversal attempts and permission problems both land here; the
		// client gets nothing more specific than a 404.
		s.logger.Warn("serve upload failed", "folder", folder, "file", file, "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, path)
}
