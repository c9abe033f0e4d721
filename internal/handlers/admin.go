package handlers

import (
	"errors"
	"net/http"
	"verinews/internal/db"
	"verinews/internal/middleware"
	"verinews/internal/models"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	ingest *services.IngestService
	notify *services.NotifyService
}

func NewAdminHandler(ingest *services.IngestService, notify *services.NotifyService) *AdminHandler {
	return &AdminHandler{ingest: ingest, notify: notify}
}

// ListUsers 用户列表，待审批的管理员申请排前面
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := utils.ClampPage(
		utils.StringToInt(c.DefaultQuery("page", "1")),
		utils.StringToInt(c.DefaultQuery("size", "20")), 20, 100)

	var total int64
	db.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	err := db.DB.Order("admin_request DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询用户失败")
		return
	}
	OK(c, gin.H{"users": users, "total": total, "page": page})
}

// ToggleSuspend 封禁/解封用户，不能封自己
func (h *AdminHandler) ToggleSuspend(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	userID := utils.StringToUint(c.Param("id"))
	if userID == actor.ID {
		Fail(c, http.StatusBadRequest, "不能封禁自己")
		return
	}

	var user models.User
	err := db.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, http.StatusNotFound, "用户不存在")
		return
	}
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询用户失败")
		return
	}

	user.IsSuspended = !user.IsSuspended
	if err := db.DB.Model(&user).Update("is_suspended", user.IsSuspended).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "操作失败")
		return
	}
	OK(c, gin.H{"user_id": user.ID, "is_suspended": user.IsSuspended})
}

// GrantAdmin 批准管理员申请，升级角色并通知申请人
func (h *AdminHandler) GrantAdmin(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	var user models.User
	err := db.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, http.StatusNotFound, "用户不存在")
		return
	}
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询用户失败")
		return
	}
	if user.IsAdmin() {
		Fail(c, http.StatusBadRequest, "该用户已是管理员")
		return
	}

	updates := map[string]interface{}{"role": "admin", "admin_request": false}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "操作失败")
		return
	}

	h.notify.NotifyAdminGranted(user.ID)
	services.AddPointsAsync(user.ID, services.PointsAdminGranted, services.ActionAdminGranted)
	OK(c, gin.H{"user_id": user.ID, "role": "admin"})
}

// DeleteArticle 管理员删除任意文章
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.ingest.DeleteArticle(c.Param("aid"), actor, true); err != nil {
		AbortError(c, err)
		return
	}
	OK(c, gin.H{"message": "文章已删除"})
}
