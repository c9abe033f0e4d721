package handlers

import (
	"net/http"
	"strings"
	"time"
	"verinews/internal/db"
	"verinews/internal/middleware"
	"verinews/internal/models"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册新用户，用户名缺省取邮箱前缀
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		Fail(c, http.StatusBadRequest, "邮箱格式不正确")
		return
	}
	if len(req.Password) < 6 {
		Fail(c, http.StatusBadRequest, "密码长度至少6位")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = parts[0]
	}

	var count int64
	db.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		Fail(c, http.StatusConflict, "该邮箱已被注册")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	user := models.User{
		Username: username,
		Email:    req.Email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "注册失败")
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录，返回 JWT 和用户信息
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Fail(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		Fail(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}
	if user.IsSuspended {
		Fail(c, http.StatusForbidden, "账号已被封禁")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, code int, user *models.User) {
	token, err := utils.GenerateToken(h.jwtSecret, user.ID, h.jwtExpiry)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	c.JSON(code, gin.H{"token": token, "user": user})
}

// Profile 查看当前用户资料
func (h *AuthHandler) Profile(c *gin.Context) {
	OK(c, middleware.CurrentUser(c))
}

type updateProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

// UpdateProfile 修改用户名
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		Fail(c, http.StatusBadRequest, "用户名不能为空")
		return
	}

	user := middleware.CurrentUser(c)
	user.Username = username
	if err := db.DB.Model(user).Update("username", username).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "更新失败")
		return
	}
	OK(c, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 修改密码，需验证旧密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	user := middleware.CurrentUser(c)
	if !utils.CheckPasswordHash(req.OldPassword, user.Password) {
		Fail(c, http.StatusUnauthorized, "旧密码错误")
		return
	}
	if len(req.NewPassword) < 6 {
		Fail(c, http.StatusBadRequest, "密码长度至少6位")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	if err := db.DB.Model(user).Update("password", hash).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "更新失败")
		return
	}
	OK(c, gin.H{"message": "密码已更新"})
}

// RequestAdmin 申请升级为管理员，等待现任管理员审批
func (h *AuthHandler) RequestAdmin(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.IsAdmin() {
		Fail(c, http.StatusBadRequest, "已经是管理员")
		return
	}
	if user.AdminRequest {
		Fail(c, http.StatusConflict, "申请已提交，等待审批")
		return
	}

	if err := db.DB.Model(user).Update("admin_request", true).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "提交失败")
		return
	}
	OK(c, gin.H{"message": "申请已提交"})
}

// Logout 无状态 JWT 下登出由客户端丢弃 token，服务端只做个确认
func (h *AuthHandler) Logout(c *gin.Context) {
	OK(c, gin.H{"message": "已退出登录"})
}

// PointLogs 积分明细
func (h *AuthHandler) PointLogs(c *gin.Context) {
	user := middleware.CurrentUser(c)
	logs, err := services.GetPointLogs(user.ID, utils.StringToInt(c.Query("limit")))
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询失败")
		return
	}
	OK(c, gin.H{"logs": logs})
}
