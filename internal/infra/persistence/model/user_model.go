package model

import "time"

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID             uint      `gorm:"primaryKey"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	HashedPassword string    `gorm:"type:varchar(255);not null"`
	Role           string    `gorm:"type:varchar(20);not null;default:'USER';check:ck_users_role_valid,role IN ('ADMIN','SUPERVISOR','USER')"`
	IsActive       bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
