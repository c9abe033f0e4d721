package handlers

import (
	"net/http"
	"verinews/internal/services"
	"verinews/internal/utils"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	newsAPI *services.NewsAPIService
	crawler *services.CrawlerService
}

func NewNewsHandler(newsAPI *services.NewsAPIService, crawler *services.CrawlerService) *NewsHandler {
	return &NewsHandler{newsAPI: newsAPI, crawler: crawler}
}

// Headlines 实时头条，带短时缓存；支持 q 参数搜索
func (h *NewsHandler) Headlines(c *gin.Context) {
	var (
		headlines []services.Headline
		err       error
	)
	if query := c.Query("q"); query != "" {
		size := utils.StringToInt(c.DefaultQuery("size", "20"))
		headlines, err = h.newsAPI.SearchHeadlines(c.Request.Context(), query, size)
	} else {
		headlines, err = h.newsAPI.TopHeadlines(c.Request.Context())
	}
	if err != nil {
		Fail(c, http.StatusBadGateway, "头条拉取失败")
		return
	}
	OK(c, gin.H{"headlines": headlines})
}

type fetchContentRequest struct {
	URL string `json:"url" binding:"required"`
}

// FetchContent 抓取指定 URL 的正文，提交文章前预览用
func (h *NewsHandler) FetchContent(c *gin.Context) {
	var req fetchContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}
	if !utils.IsValidURL(req.URL) {
		Fail(c, http.StatusBadRequest, "不是合法的绝对 URL")
		return
	}

	page, err := h.crawler.FetchArticle(req.URL)
	if err != nil {
		Fail(c, http.StatusBadGateway, "正文抓取失败")
		return
	}
	OK(c, gin.H{"content": page.Text, "image_url": page.ImageURL})
}
