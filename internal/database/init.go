package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Tomlord1122/task-service/internal/domain"
)

const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
  id SERIAL PRIMARY KEY,
  title VARCHAR(255) NOT NULL,
  completed BOOLEAN DEFAULT FALSE,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SampleTasks are inserted by Initialize when the tasks table is empty.
var SampleTasks = []domain.Task{
	{Title: "Setup Kubernetes cluster", Completed: true},
	{Title: "Deploy with Helmfile", Completed: false},
}

// Initialize creates the tasks table if it is missing and seeds it with
// SampleTasks when it holds no rows. It is safe to call on every start.
func Initialize(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.Exec(createTasksTable).Error; err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	log.Println(`Database table "tasks" ready`)

	var count int64
	if err := db.Model(&domain.Task{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if count != 0 {
		return nil
	}

	rows := make([]string, 0, len(SampleTasks))
	args := make([]any, 0, 2*len(SampleTasks))
	for _, t := range SampleTasks {
		rows = append(rows, "(?, ?)")
		args = append(args, t.Title, t.Completed)
	}
	insert := "INSERT INTO tasks (title, completed) VALUES " + strings.Join(rows, ", ")
	if err := db.Exec(insert, args...).Error; err != nil {
		return fmt.Errorf("insert sample tasks: %w", err)
	}
	log.Printf("Inserted %d sample tasks", len(SampleTasks))
	return nil
}
