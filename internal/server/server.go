package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Tomlord1122/task-service/internal/config"
	"github.com/Tomlord1122/task-service/internal/service"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

// HealthChecker is the part of the storage collaborator the health endpoint needs.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Server struct {
	taskService service.TaskService
	db          HealthChecker
	cfg         config.Config
	now         func() time.Time
}

func NewServer(cfg config.Config, taskService service.TaskService, db HealthChecker) *http.Server {
	appServer := &Server{
		taskService: taskService,
		db:          db,
		cfg:         cfg,
		now:         time.Now,
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
