package entity

import "time"

// Notification is one per (event, subscriber) pair. Rows are only ever
// created and read-marked; the pipeline never deletes them.
type Notification struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;type:varchar(64);index;not null" json:"username"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Subtitle  string    `gorm:"column:subtitle;type:text" json:"subtitle"`
	ActionURL string    `gorm:"column:action_url;type:varchar(255)" json:"action_url"`
	Action    string    `gorm:"column:action;type:varchar(32);default:View" json:"action"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "Notifications"
}

// WsConnection maps a live transport connection to a user. A connection has
// at most one username; a username may hold any number of connections.
// Rows are removed on disconnect or lazily when a push finds the socket gone.
type WsConnection struct {
	ConnectionID string    `gorm:"column:connection_id;type:varchar(64);primaryKey" json:"connection_id"`
	Username     string    `gorm:"column:username;type:varchar(64);index;not null" json:"username"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WsConnection) TableName() string {
	return "wsConnections"
}
