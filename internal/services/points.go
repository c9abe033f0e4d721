package services

import (
	"log"
	"verinews/internal/db"
	"verinews/internal/models"

	"gorm.io/gorm"
)

// 积分动作常量
const (
	ActionArticleSubmit     = "提交文章"
	ActionArticleDeleted    = "删除文章"
	ActionCommentCreate     = "发布评论"
	ActionArticleBookmarked = "文章被收藏"
	ActionArticleUnbookmark = "文章取消收藏"
	ActionAdminGranted      = "获得管理员权限"
)

// 积分值常量
const (
	PointsArticleSubmit     = 5
	PointsArticleDeleted    = -5
	PointsCommentCreate     = 1
	PointsArticleBookmarked = 2
	PointsArticleUnbookmark = -2
	PointsAdminGranted      = 10
)

// AddPoints 使用事务添加积分并记录明细
// 传入用户ID、积分变动值（正数增加，负数扣除）、动作描述
func AddPoints(userID uint, amount int, action string) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 创建积分明细记录
		entry := models.PointLog{
			UserID: userID,
			Amount: amount,
			Action: action,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 2. 更新用户积分余额
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("points", gorm.Expr("points + ?", amount)).
			Error; err != nil {
			return err
		}

		return nil
	})
}

// AddPointsAsync 异步添加积分（在 goroutine 中调用），失败只记日志
func AddPointsAsync(userID uint, amount int, action string) {
	go func() {
		if err := AddPoints(userID, amount, action); err != nil {
			log.Printf("积分添加失败 user=%d action=%s: %v", userID, action, err)
		}
	}()
}

// GetPointLogs 查询用户积分明细，按时间倒序
func GetPointLogs(userID uint, limit int) ([]models.PointLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var logs []models.PointLog
	err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
