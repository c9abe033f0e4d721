package handlers

import (
	"net/http"
	"verinews/internal/middleware"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articles *services.ArticleService
	ingest   *services.IngestService
}

func NewArticleHandler(articles *services.ArticleService, ingest *services.IngestService) *ArticleHandler {
	return &ArticleHandler{articles: articles, ingest: ingest}
}

// List 文章列表，按提交时间倒序分页
func (h *ArticleHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	pageSize := utils.StringToInt(c.DefaultQuery("size", "20"))

	articles, total, err := h.articles.ListArticles(page, pageSize)
	if err != nil {
		AbortError(c, err)
		return
	}
	OK(c, gin.H{"articles": articles, "total": total, "page": page})
}

// Get 单篇文章详情
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articles.GetByAid(c.Param("aid"))
	if err != nil {
		AbortError(c, err)
		return
	}
	OK(c, article)
}

// Create 提交新文章，走完整分析流水线
func (h *ArticleHandler) Create(c *gin.Context) {
	var input services.CreateArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	article, err := h.ingest.CreateArticle(c.Request.Context(), input, middleware.CurrentUser(c))
	if err != nil {
		AbortError(c, err)
		return
	}
	Created(c, article)
}

// Update 更新文章，仅作者可改
func (h *ArticleHandler) Update(c *gin.Context) {
	var input services.UpdateArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}
	if input.Title == nil && input.Content == nil {
		Fail(c, http.StatusBadRequest, "没有需要更新的字段")
		return
	}

	article, err := h.ingest.UpdateArticle(c.Request.Context(), c.Param("aid"), input, middleware.CurrentUser(c))
	if err != nil {
		AbortError(c, err)
		return
	}
	OK(c, article)
}

// Delete 删除文章，作者本人或管理员可删
func (h *ArticleHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	err := h.ingest.DeleteArticle(c.Param("aid"), user, user.IsAdmin())
	if err != nil {
		AbortError(c, err)
		return
	}
	OK(c, gin.H{"message": "文章已删除"})
}

// Search 全文检索，索引不可用时自动降级，永远返回 200
func (h *ArticleHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		Fail(c, http.StatusBadRequest, "缺少查询参数 q")
		return
	}
	size := utils.StringToInt(c.DefaultQuery("size", "10"))
	OK(c, gin.H{"results": h.articles.Search(query, size)})
}

// Similar 相似文章
func (h *ArticleHandler) Similar(c *gin.Context) {
	size := utils.StringToInt(c.DefaultQuery("size", "5"))
	OK(c, gin.H{"results": h.articles.Similar(c.Param("aid"), size)})
}

// Recommended 推荐文章
func (h *ArticleHandler) Recommended(c *gin.Context) {
	user := middleware.CurrentUser(c)
	size := utils.StringToInt(c.DefaultQuery("size", "10"))
	OK(c, gin.H{"results": h.articles.Recommended(user.ID, size)})
}

// KeywordStats 热门关键词统计
func (h *ArticleHandler) KeywordStats(c *gin.Context) {
	size := utils.StringToInt(c.DefaultQuery("size", "10"))
	OK(c, gin.H{"keywords": h.articles.KeywordStats(size)})
}

// MyArticles 当前用户提交的文章
func (h *ArticleHandler) MyArticles(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	pageSize := utils.StringToInt(c.DefaultQuery("size", "20"))

	articles, total, err := h.articles.MyArticles(user.ID, page, pageSize)
	if err != nil {
		AbortError(c, err)
		return
	}
	OK(c, gin.H{"articles": articles, "total": total, "page": page})
}
