package handlers

import (
	"net/http"
	"verinews/internal/db"
	"verinews/internal/middleware"
	"verinews/internal/models"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List 全部可选分类
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := db.DB.Order("id ASC").Find(&categories).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "查询分类失败")
		return
	}
	OK(c, gin.H{"categories": categories})
}

// Mine 当前用户关注的分类
func (h *CategoryHandler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var links []models.UserCategory
	err := db.DB.Preload("Category").Where("user_id = ?", user.ID).Find(&links).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "查询关注分类失败")
		return
	}

	categories := make([]models.Category, 0, len(links))
	for _, link := range links {
		categories = append(categories, link.Category)
	}
	OK(c, gin.H{"categories": categories})
}

type setCategoriesRequest struct {
	CategoryIDs []uint `json:"category_ids" binding:"required"`
}

// SetMine 全量替换当前用户的关注分类
func (h *CategoryHandler) SetMine(c *gin.Context) {
	var req setCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数不完整")
		return
	}

	// 过滤掉不存在的分类 ID
	var valid []models.Category
	if len(req.CategoryIDs) > 0 {
		if err := db.DB.Where("id IN ?", req.CategoryIDs).Find(&valid).Error; err != nil {
			Fail(c, http.StatusInternalServerError, "查询分类失败")
			return
		}
	}

	user := middleware.CurrentUser(c)
	if err := db.DB.Where("user_id = ?", user.ID).Delete(&models.UserCategory{}).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "更新关注分类失败")
		return
	}
	for _, cat := range valid {
		link := models.UserCategory{UserID: user.ID, CategoryID: cat.ID}
		if err := db.DB.Create(&link).Error; err != nil {
			Fail(c, http.StatusInternalServerError, "更新关注分类失败")
			return
		}
	}
	OK(c, gin.H{"categories": valid})
}
