package models

import (
	"time"
)

// 分类器输出的两种标签
const (
	LabelFake = "FAKE"
	LabelReal = "REAL"
)

// DiscussionSource 标记讨论帖是由哪一级检索策略找到的
type DiscussionSource string

const (
	DiscussionSourceURLMatch     DiscussionSource = "url_match"
	DiscussionSourceKeywordMatch DiscussionSource = "keyword_match"
	DiscussionSourceWebSearch    DiscussionSource = "web_search"
)

// DiscussionThread Reddit 讨论帖快照，随文章以 JSONB 形式保存
// 每次重新分析时整体重算，不单独持久化
type DiscussionThread struct {
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Upvotes   int              `json:"upvotes"`
	Comments  int              `json:"comments"`
	Subreddit string           `json:"subreddit"`
	Source    DiscussionSource `json:"source"`
}

type Article struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Aid           string             `gorm:"uniqueIndex;size:8;not null" json:"aid"`
	UserID        *uint              `gorm:"index" json:"user_id"` // 为空表示系统抓取
	User          *User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`
	Title         string             `gorm:"not null" json:"title"`
	Content       string             `gorm:"type:text;not null" json:"content"`
	SourceURL     string             `gorm:"not null" json:"source_url"`
	NormalizedURL string             `gorm:"uniqueIndex;not null" json:"-"` // 去除跟踪参数后的唯一键，防止重复收录
	ImageURL      string             `json:"image_url"`
	AiScore       float64            `json:"ai_score"` // 伪造度 0~1，越高越可疑
	AiLabel       string             `gorm:"size:8" json:"ai_label"`
	Summary       string             `gorm:"type:text" json:"summary"`
	Keywords      []string           `gorm:"serializer:json;type:jsonb" json:"keywords"` // 保持提取顺序
	Discussions   []DiscussionThread `gorm:"serializer:json;type:jsonb" json:"related_discussions"`
	SubmittedAt   time.Time          `json:"submitted_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// 非数据库字段，查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}
