package entity

import "time"

const (
	TaskStatusOutstanding = 1
	TaskStatusInProgress  = 2
	TaskStatusCompleted   = 3
)

type Task struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedBy   string    `gorm:"column:created_by;type:varchar(64);index" json:"created_by"`
	Status      int       `gorm:"column:status;type:tinyint;not null;default:1" json:"status"`
	Priority    int       `gorm:"column:priority;type:tinyint;not null;default:3" json:"priority"`
	Hidden      bool      `gorm:"column:hidden;not null;default:false" json:"hidden"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Task) TableName() string {
	return "Tasks"
}

type TaskAssignee struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TaskID   int64  `gorm:"column:taskId;index;not null" json:"taskId"`
	Username string `gorm:"column:username;type:varchar(64);index;not null" json:"username"`
}

func (TaskAssignee) TableName() string {
	return "TasksAssignees"
}

type TaskComment struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TaskID    int64     `gorm:"column:taskId;index;not null" json:"taskId"`
	Comment   string    `gorm:"column:comment;type:text;not null" json:"comment"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(64)" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TaskComment) TableName() string {
	return "TaskComments"
}
