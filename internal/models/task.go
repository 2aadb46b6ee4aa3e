package models

import "time"

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	DateCreated time.Time `json:"dateCreated" gorm:"not null"`
	UserID      uint      `json:"-" gorm:"not null;index"`
	Author      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name singular.
func (Task) TableName() string {
	return "task"
}

// PublicTask is the externally visible projection of a Task.
type PublicTask struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DateCreated time.Time  `json:"dateCreated"`
	Author      PublicUser `json:"author"`
}

// ToPublicView projects the task with its author's public view nested.
// Author must be loaded.
func (t *Task) ToPublicView() PublicTask {
	return PublicTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DateCreated: t.DateCreated,
		Author:      t.Author.ToPublicView(),
	}
}
