package handlers

import (
	"errors"
	"net/http"
	"strings"
	"verinews/internal/db"
	"verinews/internal/middleware"
	"verinews/internal/models"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	articles *services.ArticleService
	notify   *services.NotifyService
}

func NewCommentHandler(articles *services.ArticleService, notify *services.NotifyService) *CommentHandler {
	return &CommentHandler{articles: articles, notify: notify}
}

// commentView 评论输出形态：原始 Markdown 加渲染后的 HTML
type commentView struct {
	models.Comment
	ContentHTML string `json:"content_html"`
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create 发表评论，触发文章作者通知并加积分
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		Fail(c, http.StatusBadRequest, "评论内容不能为空")
		return
	}

	article, err := h.articles.GetByAid(c.Param("aid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	comment := models.Comment{
		Cid:       utils.RandStringBytesMaskImpr(8),
		ArticleID: article.ID,
		UserID:    user.ID,
		Content:   content,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "评论发表失败")
		return
	}
	comment.User = *user

	h.notify.NotifyComment(article, user)
	services.AddPointsAsync(user.ID, services.PointsCommentCreate, services.ActionCommentCreate)

	Created(c, commentView{Comment: comment, ContentHTML: utils.RenderMarkdown(comment.Content)})
}

// List 文章的评论列表，按时间正序
func (h *CommentHandler) List(c *gin.Context) {
	article, err := h.articles.GetByAid(c.Param("aid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	var comments []models.Comment
	err = db.DB.Preload("User").
		Where("article_id = ?", article.ID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询评论失败")
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, commentView{
			Comment:     comment,
			ContentHTML: utils.RenderMarkdown(comment.Content),
		})
	}
	OK(c, gin.H{"comments": views, "total": len(views)})
}

// Delete 删除评论，评论作者或管理员可删
func (h *CommentHandler) Delete(c *gin.Context) {
	var comment models.Comment
	err := db.DB.Where("cid = ?", c.Param("cid")).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, http.StatusNotFound, "评论不存在")
		return
	}
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询评论失败")
		return
	}

	user := middleware.CurrentUser(c)
	if comment.UserID != user.ID && !user.IsAdmin() {
		Fail(c, http.StatusForbidden, "没有权限删除该评论")
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "删除失败")
		return
	}
	OK(c, gin.H{"message": "评论已删除"})
}
