package service

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tomlord1122/task-service/internal/domain"
	"github.com/Tomlord1122/task-service/internal/repository"
)

// Messages returned to clients.
const (
	MsgTitleRequired = "Title is required"
	MsgTitleTooLong  = "Title must be at most 255 characters"
	MsgInvalidTaskID = "Invalid task ID"
	MsgTaskNotFound  = "Task not found"
	MsgFetchFailed   = "Failed to fetch tasks"
	MsgCreateFailed  = "Failed to create task"
	MsgDeleteFailed  = "Failed to delete task"
)

// maxTitleLength matches the VARCHAR(255) title column.
const maxTitleLength = 255

// PostgreSQL error codes raised when a path id cannot be used as an integer.
const (
	pgInvalidTextRepresentation = "22P02"
	pgNumericValueOutOfRange    = "22003"
)

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

// TaskService defines the operations exposed over HTTP. Every error it
// returns is an *Error.
type TaskService interface {
	ListTasks(ctx context.Context) ([]TaskResponse, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, id string) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a TaskService backed by repo.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) ListTasks(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError(MsgFetchFailed, err)
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toResponse(task))
	}
	return responses, nil
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if err := validation.Validate(req.Title, validation.Required); err != nil {
		return nil, validationError(MsgTitleRequired, err)
	}
	if err := validation.Validate(req.Title, validation.RuneLength(1, maxTitleLength)); err != nil {
		return nil, validationError(MsgTitleTooLong, err)
	}

	task := &domain.Task{Title: req.Title}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, storageError(MsgCreateFailed, err)
	}

	resp := toResponse(*task)
	return &resp, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		if isInvalidID(err) {
			return validationError(MsgInvalidTaskID, err)
		}
		return storageError(MsgDeleteFailed, err)
	}
	if n == 0 {
		return notFoundError(MsgTaskNotFound)
	}
	return nil
}

func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgInvalidTextRepresentation || pgErr.Code == pgNumericValueOutOfRange
}

func toResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt.Format(time.RFC3339Nano),
	}
}
