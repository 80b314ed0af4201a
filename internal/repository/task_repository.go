package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tomlord1122/task-service/internal/domain"
)

// TaskRepository defines the data operations on tasks. Each method issues
// exactly one SQL statement.
type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	// Delete removes the task whose id equals the given value and reports how
	// many rows were removed. The id is passed to the database unparsed.
	Delete(ctx context.Context, id string) (int64, error)
}

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

// List returns all tasks ordered by ascending id.
func (r *gormTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	result := r.db.WithContext(ctx).
		Select("id", "title", "completed", "created_at").
		Order("id ASC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Create inserts the task. The database fills in ID and CreatedAt, which are
// written back into task.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *gormTaskRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	return result.RowsAffected, result.Error
}
