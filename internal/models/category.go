package models

import (
	"time"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"uniqueIndex;not null" json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCategory 用户关注的分类（兴趣标签），注册时写入默认集合
type UserCategory struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"not null;index;uniqueIndex:idx_user_category" json:"user_id"`
	User       User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CategoryID uint     `gorm:"not null;index;uniqueIndex:idx_user_category" json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`
}
