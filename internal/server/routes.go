package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/task-service/internal/service"
)

const (
	msgNotFound      = "Not found"
	msgInternalError = "Internal server error"
)

// Time layout of the health timestamp: UTC with millisecond precision.
const healthTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type healthResponse struct {
	Status    string `json:"status"`
	DB        string `json:"db"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(s.notFoundHandler)
	r.MethodNotAllowed(s.notFoundHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))
		r.Get("/", s.listTasksHandler)
		r.Post("/", s.createTaskHandler)
		r.Delete("/{id}", s.deleteTaskHandler)
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "unhealthy",
			DB:     "disconnected",
			Error:  err.Error(),
		})
		return
	}
	respondWithJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		DB:        "connected",
		Version:   Version,
		Timestamp: s.now().UTC().Format(healthTimestampLayout),
	})
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.ListTasks(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error fetching tasks", err)
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) {
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.Is(err, io.ErrUnexpectedEOF) {
			respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
		} else if errors.As(err, &unmarshalTypeError) {
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.Is(err, io.EOF) {
			// An empty body carries no title.
			respondWithError(w, http.StatusBadRequest, service.MsgTitleRequired)
		} else {
			log.Printf("Error decoding create task request: %v", err)
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
		}
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, "Error creating task", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, task)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.taskService.DeleteTask(r.Context(), id); err != nil {
		respondWithServiceError(w, "Error deleting task "+id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, msgNotFound)
}

// statusFor maps an error returned by the task service to the HTTP status
// and the message shown to the client.
func statusFor(err error) (int, string) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		return http.StatusInternalServerError, msgInternalError
	}
	switch svcErr.Kind {
	case service.KindValidation:
		return http.StatusBadRequest, svcErr.Message
	case service.KindNotFound:
		return http.StatusNotFound, svcErr.Message
	default:
		return http.StatusInternalServerError, svcErr.Message
	}
}

func respondWithServiceError(w http.ResponseWriter, logPrefix string, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		log.Printf("%s: %v", logPrefix, err)
	}
	respondWithError(w, code, msg)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
