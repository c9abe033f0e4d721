package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"not null" json:"username"` // Username can be modified
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"` // bcrypt hash
	Points       int       `gorm:"default:0" json:"points"`
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	AdminRequest bool      `gorm:"default:false" json:"admin_request"`          // 是否申请升级管理员
	IsSuspended  bool      `gorm:"default:false" json:"is_suspended"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}

// IsAdmin 管理员判定
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}
