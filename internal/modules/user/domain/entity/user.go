package entity

import "time"

const (
	UserStatusActive   = 0
	UserStatusDisabled = 1
)

type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Role      string    `gorm:"column:role;type:varchar(32);default:farmer" json:"role"`
	Status    int       `gorm:"column:status;type:tinyint;not null;default:0" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "Users"
}
