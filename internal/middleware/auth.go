package middleware

import (
	"net/http"
	"strings"
	"verinews/internal/db"
	"verinews/internal/models"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	UserKey = "current_user"
)

// extractToken 从 Authorization 头取 Bearer token
// websocket 握手没法带自定义头，退回 query 参数
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// loadUser 校验 token 并从数据库加载用户
func loadUser(c *gin.Context, secret string) *models.User {
	tokenStr := extractToken(c)
	if tokenStr == "" {
		return nil
	}

	claims, err := utils.ParseToken(secret, tokenStr)
	if err != nil {
		return nil
	}

	var user models.User
	if err := db.DB.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// AuthRequired 必须登录，未登录或账号被封禁一律 401
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := loadUser(c, secret)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		if user.IsSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "账号已被封禁"})
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// AdminRequired 必须是管理员，挂在 AuthRequired 之后
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}

// OptionalAuth 能识别就识别，识别不了当游客
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := loadUser(c, secret); user != nil && !user.IsSuspended {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// CurrentUser 从上下文取当前用户，游客返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(UserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
