package handlers

import (
	"net/http"
	"verinews/internal/middleware"
	"verinews/internal/realtime"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notify *services.NotifyService
	hub    *realtime.Hub
}

func NewNotificationHandler(notify *services.NotifyService, hub *realtime.Hub) *NotificationHandler {
	return &NotificationHandler{notify: notify, hub: hub}
}

// List 通知列表及未读数
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	limit := utils.StringToInt(c.DefaultQuery("limit", "20"))

	notifications, unread, err := h.notify.ListNotifications(user.ID, limit)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询通知失败")
		return
	}
	OK(c, gin.H{"notifications": notifications, "unread": unread})
}

// MarkRead 标记单条已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	if err := h.notify.MarkRead(user.ID, id); err != nil {
		AbortError(c, err)
		return
	}
	OK(c, gin.H{"message": "已读"})
}

// MarkAllRead 全部标记已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.notify.MarkAllRead(user.ID); err != nil {
		Fail(c, http.StatusInternalServerError, "操作失败")
		return
	}
	OK(c, gin.H{"message": "全部已读"})
}

// Delete 删除通知
func (h *NotificationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	if err := h.notify.Delete(user.ID, id); err != nil {
		AbortError(c, err)
		return
	}
	OK(c, gin.H{"message": "已删除"})
}

// Subscribe websocket 订阅实时通知，连接挂到当前用户的房间
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	realtime.ServeWS(h.hub, user.ID, c.Writer, c.Request)
}
