package services

import (
	"fmt"
	"log"
	"verinews/internal/db"
	"verinews/internal/models"
	"verinews/internal/realtime"
)

// NotifyService 通知服务：先落库再实时推送
// 落库是必达的，推送是尽力而为——用户不在线就等下次拉列表
type NotifyService struct {
	hub *realtime.Hub
}

func NewNotifyService(hub *realtime.Hub) *NotifyService {
	return &NotifyService{hub: hub}
}

// notificationPayload 推送给前端的通知消息体
type notificationPayload struct {
	NotificationID uint                    `json:"notification_id"`
	Content        string                  `json:"content"`
	Type           models.NotificationType `json:"type"`
	ReferenceAid   string                  `json:"reference_id,omitempty"`
	CreatedAt      string                  `json:"created_at"`
	IsRead         bool                    `json:"is_read"`
}

// Send 创建通知并推送。落库失败返回错误，推送失败只记日志。
func (s *NotifyService) Send(userID uint, ntype models.NotificationType, content, referenceAid string) error {
	notification := models.Notification{
		UserID:       userID,
		Type:         ntype,
		Content:      content,
		ReferenceAid: referenceAid,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		return fmt.Errorf("通知落库失败: %w", err)
	}

	if s.hub != nil {
		s.hub.Push(userID, "new_notification", notificationPayload{
			NotificationID: notification.ID,
			Content:        notification.Content,
			Type:           notification.Type,
			ReferenceAid:   notification.ReferenceAid,
			CreatedAt:      notification.CreatedAt.Format("2006-01-02 15:04:05"),
			IsRead:         notification.IsRead,
		})
	}
	return nil
}

// NotifyComment 有人评论了你的文章。自己评论自己不发通知。
func (s *NotifyService) NotifyComment(article *models.Article, commenter *models.User) {
	if article.UserID == nil || *article.UserID == commenter.ID {
		return
	}
	content := fmt.Sprintf("%s 评论了你的文章《%s》", commenter.Username, article.Title)
	if err := s.Send(*article.UserID, models.NotificationTypeComment, content, article.Aid); err != nil {
		log.Printf("评论通知发送失败 article=%s: %v", article.Aid, err)
	}
}

// NotifyArticleRemoved 文章被管理员移除
func (s *NotifyService) NotifyArticleRemoved(userID uint, title string) {
	content := fmt.Sprintf("你的文章《%s》因违反社区规则已被移除", title)
	if err := s.Send(userID, models.NotificationTypeAdmin, content, ""); err != nil {
		log.Printf("移除通知发送失败 user=%d: %v", userID, err)
	}
}

// NotifyAdminGranted 管理员申请通过
func (s *NotifyService) NotifyAdminGranted(userID uint) {
	if err := s.Send(userID, models.NotificationTypeAdmin, "你的管理员申请已通过", ""); err != nil {
		log.Printf("管理员通知发送失败 user=%d: %v", userID, err)
	}
}

// ListNotifications 按时间倒序取用户通知
func (s *NotifyService) ListNotifications(userID uint, limit int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var unread int64
	db.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	var notifications []models.Notification
	err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询通知失败: %w", err)
	}
	return notifications, unread, nil
}

// MarkRead 标记单条已读，只能操作自己的通知
func (s *NotifyService) MarkRead(userID, notificationID uint) error {
	result := db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead 全部标记已读
func (s *NotifyService) MarkAllRead(userID uint) error {
	return db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Delete 删除单条通知
func (s *NotifyService) Delete(userID, notificationID uint) error {
	result := db.DB.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
