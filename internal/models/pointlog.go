package models

import "time"

// PointLog 积分变动明细
type PointLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"` // 正数增加，负数扣除
	Action    string    `gorm:"size:64" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
