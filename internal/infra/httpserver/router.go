package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/fiscalia/fiscalia-api/internal/application/analysis"
	appreminders "github.com/fiscalia/fiscalia-api/internal/application/reminders"
	domanalysis "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
	domreminders "github.com/fiscalia/fiscalia-api/internal/domain/reminders"
	"github.com/fiscalia/fiscalia-api/internal/middleware"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// Status echoes which external credentials are configured; reported by the
// health endpoint, never the secrets themselves.
type Status struct {
	Database bool   `json:"database"`
	Groq     bool   `json:"groq"`
	Storage  bool   `json:"storage"`
	AuthMode string `json:"authMode"`
}

type Router struct {
	analyses  *appanalysis.Service
	reminders *appreminders.Service
	resolver  identity.Resolver
	logger    *zap.Logger
	status    Status
}

func New(analyses *appanalysis.Service, reminders *appreminders.Service, resolver identity.Resolver, logger *zap.Logger, allowedOrigin string, status Status) http.Handler {
	r := &Router{analyses: analyses, reminders: reminders, resolver: resolver, logger: logger, status: status}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.RequestLogger(logger))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/api/health", r.handleHealth)
	mux.Get("/api/auth/session", r.handleSession)

	mux.Route("/api/reminders", func(rt chi.Router) {
		rt.Get("/tax-deadlines", r.wrap(r.handleListReminders))
		rt.Post("/", r.wrap(r.handleCreateReminder))
		rt.Put("/{id}", r.wrap(r.handleUpdateReminder))
		rt.Delete("/{id}", r.wrap(r.handleDeleteReminder))
		rt.Post("/{id}/complete", r.wrap(r.handleCompleteReminder))
	})

	mux.Group(func(g chi.Router) {
		g.Use(middleware.RequireUser(r.resolver))
		// The completion provider bills per request; cap bursts per caller.
		g.Use(middleware.RateLimitMiddleware(10, 1))
		g.Post("/api/analysis/upload", r.wrap(r.handleUpload))
		g.Get("/api/analysis/history", r.wrap(r.handleHistory))
		g.Post("/api/insights/ask", r.wrap(r.handleAsk))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (rt *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		status := http.StatusInternalServerError
		msg := err.Error()
		switch {
		case errors.Is(err, domanalysis.ErrUnsupportedFormat),
			errors.Is(err, domanalysis.ErrFeatureDisabled),
			errors.Is(err, domanalysis.ErrDecode),
			errors.Is(err, domanalysis.ErrValidation),
			errors.Is(err, domanalysis.ErrNoHistory):
			status = http.StatusBadRequest
		case errors.Is(err, domreminders.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, identity.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domanalysis.ErrPersistence):
			// Backend detail stays out of the response body.
			msg = "storage unavailable, try again later"
		}

		if status >= http.StatusInternalServerError {
			rt.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		}
		writeJSON(w, status, map[string]string{"error": msg})
	}
}

// POST /api/analysis/upload
// Multipart form with optional "file" and/or "text" fields, or a JSON body
// {"text": "..."} for paste-only clients.
func (rt *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	if user == nil {
		return identity.ErrUnauthorized
	}

	var cmd appanalysis.UploadCommand
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
			return fmt.Errorf("%w: %v", domanalysis.ErrValidation, err)
		}
		cmd.Text = req.FormValue("text")

		file, header, err := req.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return fmt.Errorf("%w: %v", domanalysis.ErrValidation, err)
			}
			cmd.FileData = data
			cmd.FileName = header.Filename
		case errors.Is(err, http.ErrMissingFile):
			// text-only upload
		default:
			return fmt.Errorf("%w: %v", domanalysis.ErrValidation, err)
		}
	} else {
		var body struct {
			Text string `json:"text"`
		}
		// An unreadable body falls through to the service's empty-input check.
		_ = json.NewDecoder(req.Body).Decode(&body)
		cmd.Text = body.Text
	}

	rec, err := rt.analyses.Upload(req.Context(), user, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": rec,
	})
}

// GET /api/analysis/history
func (rt *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	if user == nil {
		return identity.ErrUnauthorized
	}

	list, err := rt.analyses.History(req.Context(), user.ID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /api/insights/ask
func (rt *Router) handleAsk(w http.ResponseWriter, req *http.Request) error {
	user := middleware.UserFromContext(req.Context())
	if user == nil {
		return identity.ErrUnauthorized
	}

	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domanalysis.ErrValidation, err)
	}

	res, err := rt.analyses.Ask(req.Context(), user, body.Question)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"question":     res.Question,
		"answer":       res.Answer,
		"historyCount": res.HistoryCount,
	})
}

// GET /api/auth/session
// Degrades to a null user; the transport never errors here.
func (rt *Router) handleSession(w http.ResponseWriter, req *http.Request) {
	user, err := rt.resolver.Resolve(req.Context(), middleware.BearerToken(req))
	if err != nil {
		user = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// GET /api/health
func (rt *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"message":   "Fiscalia API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"config":    rt.status,
		"metrics":   middleware.GetMetrics(),
	})
}

// GET /api/reminders/tax-deadlines?priority=&type=
func (rt *Router) handleListReminders(w http.ResponseWriter, req *http.Request) error {
	var (
		list []domreminders.Reminder
		err  error
	)
	switch {
	case req.URL.Query().Get("priority") != "":
		list, err = rt.reminders.ByPriority(req.Context(), req.URL.Query().Get("priority"))
	case req.URL.Query().Get("type") != "":
		list, err = rt.reminders.ByType(req.Context(), req.URL.Query().Get("type"))
	default:
		list, err = rt.reminders.List(req.Context())
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /api/reminders
func (rt *Router) handleCreateReminder(w http.ResponseWriter, req *http.Request) error {
	var body domreminders.Reminder
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domanalysis.ErrValidation, err)
	}
	if strings.TrimSpace(body.Title) == "" {
		return fmt.Errorf("%w: title is required", domanalysis.ErrValidation)
	}

	created, err := rt.reminders.Create(req.Context(), body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, created)
}

// PUT /api/reminders/{id}
func (rt *Router) handleUpdateReminder(w http.ResponseWriter, req *http.Request) error {
	id, err := reminderID(req)
	if err != nil {
		return err
	}
	var patch domreminders.Patch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		return fmt.Errorf("%w: %v", domanalysis.ErrValidation, err)
	}

	updated, err := rt.reminders.Update(req.Context(), id, patch)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, updated)
}

// DELETE /api/reminders/{id}
func (rt *Router) handleDeleteReminder(w http.ResponseWriter, req *http.Request) error {
	id, err := reminderID(req)
	if err != nil {
		return err
	}
	if err := rt.reminders.Delete(req.Context(), id); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"message": "reminder deleted"})
}

// POST /api/reminders/{id}/complete
func (rt *Router) handleCompleteReminder(w http.ResponseWriter, req *http.Request) error {
	id, err := reminderID(req)
	if err != nil {
		return err
	}
	done, err := rt.reminders.MarkCompleted(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, done)
}

func reminderID(req *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(req, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: reminder id must be an integer", domanalysis.ErrValidation)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
