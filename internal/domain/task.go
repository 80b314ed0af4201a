package domain

import "time"

// Task is a single to-do item stored in the tasks table.
// Rows are never updated after insertion.
type Task struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Completed bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;autoCreateTime:false"` // set by the database
}

func (Task) TableName() string {
	return "tasks"
}
