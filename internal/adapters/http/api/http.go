// Package api exposes the service over a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/okian/novhub/internal/domain/catalog"
	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/internal/domain/types"
	"github.com/okian/novhub/internal/domain/upload"
	"github.com/okian/novhub/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Catalog() catalog.Catalog
	Stats(ctx context.Context) (types.Stats, error)
	GetStats(ctx context.Context) (map[string]any, error)

	SubmitApplication(ctx context.Context, in model.ApplicationInput, idempotencyKey string) (model.Application, error)
	ReviewApplication(ctx context.Context, id, decision string) (types.ReviewResult, error)
	ListApplications(ctx context.Context) ([]model.Application, error)

	BookMentor(ctx context.Context, in model.MentorBookingInput) (model.Booking, error)
	BookStay(ctx context.Context, in model.StayBookingInput) (model.Booking, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)

	Login(ctx context.Context, email string) (model.User, error)
	CurrentUser(ctx context.Context) (model.User, bool, error)
	Dashboard(ctx context.Context) (types.Dashboard, error)

	Contact(ctx context.Context, name, email, message string) (model.ContactMessage, error)
	ListMessages(ctx context.Context) ([]model.ContactMessage, error)

	StartUpload(ctx context.Context, name string, size int64) (string, upload.Snapshot, error)
	UploadStatus(ctx context.Context, id string) (upload.Snapshot, error)
	CancelUpload(ctx context.Context, id string) (upload.Snapshot, error)

	UnlockAdmin(ctx context.Context, passcode string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps    Dependencies
	origins []string
	logger  logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowedOrigins enables CORS for the given origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with the global middleware stack. Extra
// mounts (site, docs) are attached by the caller through mount.
func (s *Server) Router(mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", adminHeader, idempotencyHeader},
		}).Handler)
	}

	s.Register(r)
	if mount != nil {
		mount(r)
	}
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	r.Handle("/metrics", metricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", MetricsMiddleware(s.handleCatalog, "catalog"))
		r.Get("/stats", MetricsMiddleware(s.handleStats, "stats"))

		r.Post("/applications", MetricsMiddleware(s.handleSubmitApplication, "applications"))
		r.Post("/bookings/mentor", MetricsMiddleware(s.handleBookMentor, "bookings_mentor"))
		r.Post("/bookings/stay", MetricsMiddleware(s.handleBookStay, "bookings_stay"))

		r.Post("/session", MetricsMiddleware(s.handleLogin, "session"))
		r.Get("/session", MetricsMiddleware(s.handleCurrentUser, "session"))
		r.Get("/dashboard", MetricsMiddleware(s.handleDashboard, "dashboard"))

		r.Post("/contact", MetricsMiddleware(s.handleContact, "contact"))

		r.Post("/uploads", MetricsMiddleware(s.handleStartUpload, "uploads"))
		r.Get("/uploads/{id}", MetricsMiddleware(s.handleUploadStatus, "uploads"))
		r.Delete("/uploads/{id}", MetricsMiddleware(s.handleCancelUpload, "uploads"))

		r.Post("/admin/unlock", MetricsMiddleware(s.handleAdminUnlock, "admin_unlock"))
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/admin/applications", MetricsMiddleware(s.handleListApplications, "admin_applications"))
			r.Post("/admin/applications/{id}/{decision}", MetricsMiddleware(s.handleReview, "admin_review"))
			r.Get("/admin/bookings", MetricsMiddleware(s.handleListBookings, "admin_bookings"))
			r.Get("/admin/messages", MetricsMiddleware(s.handleListMessages, "admin_messages"))
			r.Get("/admin/system", MetricsMiddleware(s.handleSystemStats, "admin_system"))
		})
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	switch {
	case status == http.StatusInternalServerError:
		// Unclassified causes stay in the log.
		msg = ErrInternal.Error()
	case err != nil:
		msg = message(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err to a status and writes it. Server-side failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", chimiddleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// decodeJSON reads a bounded JSON body into dst. An empty body is an error,
// and so is a Content-Type other than JSON when one is given.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return WrapKind(op, ErrUnsupported, fmt.Errorf("content type %q is not application/json", ct))
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return NewKind(op, ErrBadRequest)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
