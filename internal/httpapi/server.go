// Package httpapi exposes layout rendering and the edit actions linked from
// edit menus over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/editctx"
	"github.com/alexanderramin/gridlayout/internal/render"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/alexanderramin/gridlayout/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds the services behind the HTTP routes.
type Server struct {
	Layouts service.LayoutService
	Edits   service.EditService
	Tokens  service.TokenService
	Pages   service.PageService
	Logger  *slog.Logger
}

// Router returns a chi router with every route registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger()))
	r.Use(middleware.Recoverer)
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers the routes on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	getOrPost(r, "/"+render.RouteMove, s.editHandler(s.move))
	getOrPost(r, "/"+render.RouteAddColumnContainer, s.editHandler(s.addColumnContainer))
	getOrPost(r, "/"+render.RouteAddColumn, s.editHandler(s.addColumn))
	getOrPost(r, "/"+render.RouteRemoveColumn, s.editHandler(s.removeColumn))
	getOrPost(r, "/"+render.RouteRemove, s.editHandler(s.remove))
	getOrPost(r, "/"+render.RouteAddItem, s.editHandler(s.addItem))
	getOrPost(r, "/"+render.RouteEditItem, s.editHandler(s.editItem))

	r.Get("/layouts/{layoutID}", s.handleLayout)
	r.Get("/page", s.handlePage)
}

func getOrPost(r chi.Router, pattern string, h http.HandlerFunc) {
	r.Get(pattern, h)
	r.Post(pattern, h)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.InfoContext(r.Context(), "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// ack is the body of every edit response.
type ack struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, editctx.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger().ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "error", err.Error())
		msg = http.StatusText(status)
	}
	writeJSON(w, status, ack{Success: false, Error: msg})
}
