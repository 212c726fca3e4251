package models

import "time"

// User represents a registered diet tracker account.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID    *string   `json:"session_id,omitempty" gorm:"type:varchar(36);index"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the table created by the migrations.
func (User) TableName() string { return "users" }
