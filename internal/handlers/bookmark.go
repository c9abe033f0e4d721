package handlers

import (
	"net/http"
	"verinews/internal/db"
	"verinews/internal/middleware"
	"verinews/internal/models"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	articles *services.ArticleService
}

func NewBookmarkHandler(articles *services.ArticleService) *BookmarkHandler {
	return &BookmarkHandler{articles: articles}
}

// Toggle 收藏/取消收藏切换，文章作者随之加减积分
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	article, err := h.articles.GetByAid(c.Param("aid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	var existing models.Bookmark
	found := db.DB.Where("user_id = ? AND article_id = ?", user.ID, article.ID).
		First(&existing).Error == nil

	if found {
		if err := db.DB.Delete(&existing).Error; err != nil {
			Fail(c, http.StatusInternalServerError, "取消收藏失败")
			return
		}
		if article.UserID != nil && *article.UserID != user.ID {
			services.AddPointsAsync(*article.UserID, services.PointsArticleUnbookmark, services.ActionArticleUnbookmark)
		}
		OK(c, gin.H{"bookmarked": false})
		return
	}

	bookmark := models.Bookmark{UserID: user.ID, ArticleID: article.ID}
	if err := db.DB.Create(&bookmark).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "收藏失败")
		return
	}
	if article.UserID != nil && *article.UserID != user.ID {
		services.AddPointsAsync(*article.UserID, services.PointsArticleBookmarked, services.ActionArticleBookmarked)
	}
	OK(c, gin.H{"bookmarked": true})
}

// List 当前用户的收藏列表，按收藏时间倒序
func (h *BookmarkHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, pageSize := utils.ClampPage(
		utils.StringToInt(c.DefaultQuery("page", "1")),
		utils.StringToInt(c.DefaultQuery("size", "20")), 20, 50)

	var total int64
	db.DB.Model(&models.Bookmark{}).Where("user_id = ?", user.ID).Count(&total)

	var bookmarks []models.Bookmark
	err := db.DB.Preload("Article").Preload("Article.User").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookmarks).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询收藏失败")
		return
	}
	OK(c, gin.H{"bookmarks": bookmarks, "total": total, "page": page})
}
