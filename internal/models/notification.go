package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeComment NotificationType = "comment_article"
	NotificationTypeSystem  NotificationType = "system"
	NotificationTypeAdmin   NotificationType = "admin" // 管理员操作通知
)

type Notification struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uint             `gorm:"not null;index" json:"user_id"` // Receiver
	User         User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Type         NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Content      string           `gorm:"type:text" json:"content"`
	ReferenceAid string           `gorm:"size:8" json:"reference_id,omitempty"` // 关联文章的短 ID，可空
	IsRead       bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}
