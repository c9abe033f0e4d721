package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"verinews/internal/db"
	"verinews/internal/models"
	"verinews/internal/search"
	"verinews/internal/utils"

	"gorm.io/gorm"
)

// 兜底检索时最多回扫的文章数
const fallbackScanLimit = 200

// ArticleService 文章读路径：数据库查询 + 检索门面
// 索引任何时候挂掉都不能影响读接口，检索自动降级为数据库扫描
type ArticleService struct {
	index *search.Index
}

func NewArticleService(index *search.Index) *ArticleService {
	return &ArticleService{index: index}
}

// ListArticles 按提交时间倒序分页
func (s *ArticleService) ListArticles(page, pageSize int) ([]models.Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	var total int64
	if err := db.DB.Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计文章数失败: %w", err)
	}

	var articles []models.Article
	err := db.DB.Preload("User").
		Order("submitted_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询文章列表失败: %w", err)
	}

	s.fillCommentCounts(articles)
	return articles, total, nil
}

// GetByAid 按短 ID 取单篇文章，附带评论数
func (s *ArticleService) GetByAid(aid string) (*models.Article, error) {
	var article models.Article
	err := db.DB.Preload("User").Where("aid = ?", aid).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}

	var count int64
	db.DB.Model(&models.Comment{}).Where("article_id = ?", article.ID).Count(&count)
	article.CommentCount = int(count)
	return &article, nil
}

// MyArticles 当前用户提交的文章
func (s *ArticleService) MyArticles(userID uint, page, pageSize int) ([]models.Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	var total int64
	if err := db.DB.Model(&models.Article{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用户文章数失败: %w", err)
	}

	var articles []models.Article
	err := db.DB.Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询用户文章失败: %w", err)
	}

	s.fillCommentCounts(articles)
	return articles, total, nil
}

// Search 全文检索，索引不可用时降级为数据库扫描，对调用方永不报错
func (s *ArticleService) Search(query string, size int) []*search.Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if size <= 0 {
		size = 10
	}

	cacheKey := fmt.Sprintf("search:%s:%d", query, size)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if results, ok := cached.([]*search.Result); ok {
			return results
		}
	}

	if s.index != nil {
		results, err := s.index.Search(query, size)
		if err == nil {
			utils.GetCache().Set(cacheKey, results, time.Minute)
			return results
		}
		log.Printf("搜索索引查询失败，降级为数据库扫描: %v", err)
	}

	return s.fallbackSearch(query, size)
}

// fallbackSearch 数据库兜底：标题或关键词的大小写不敏感子串匹配
func (s *ArticleService) fallbackSearch(query string, size int) []*search.Result {
	var articles []models.Article
	err := db.DB.Order("submitted_at DESC").Limit(fallbackScanLimit).Find(&articles).Error
	if err != nil {
		log.Printf("兜底检索扫描失败: %v", err)
		return nil
	}

	needle := strings.ToLower(query)
	results := make([]*search.Result, 0, size)
	for i := range articles {
		a := &articles[i]
		if !matchesFallback(a, needle) {
			continue
		}
		results = append(results, &search.Result{
			Aid:       a.Aid,
			Title:     a.Title,
			Summary:   a.Summary,
			SourceURL: a.SourceURL,
			AiScore:   a.AiScore,
		})
		if len(results) >= size {
			break
		}
	}
	return results
}

func matchesFallback(a *models.Article, needle string) bool {
	if strings.Contains(strings.ToLower(a.Title), needle) {
		return true
	}
	for _, kw := range a.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

// Similar 相似文章，索引失败时只记日志返回空
func (s *ArticleService) Similar(aid string, size int) []*search.Result {
	if s.index == nil {
		return nil
	}
	results, err := s.index.MoreLikeThis(aid, size)
	if err != nil {
		log.Printf("相似文章查询失败 aid=%s: %v", aid, err)
		return nil
	}
	return results
}

// Recommended 推荐文章（当前为最近文章，个性化排序后续再做）
func (s *ArticleService) Recommended(userID uint, size int) []*search.Result {
	if s.index == nil {
		return nil
	}
	results, err := s.index.Recommend(userID, size)
	if err != nil {
		log.Printf("推荐查询失败 user=%d: %v", userID, err)
		return nil
	}
	return results
}

// KeywordStats 热门关键词聚合
func (s *ArticleService) KeywordStats(size int) []search.KeywordCount {
	if s.index == nil {
		return nil
	}
	stats, err := s.index.KeywordStats(size)
	if err != nil {
		log.Printf("关键词统计失败: %v", err)
		return nil
	}
	return stats
}

// IndexArticle 尽力而为写索引，失败只记日志
func (s *ArticleService) IndexArticle(a *models.Article) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexArticle(a); err != nil {
		log.Printf("文章写入索引失败 aid=%s: %v", a.Aid, err)
	}
}

// RemoveFromIndex 尽力而为删索引
func (s *ArticleService) RemoveFromIndex(aid string) {
	if s.index == nil {
		return
	}
	if err := s.index.Remove(aid); err != nil {
		log.Printf("文章索引删除失败 aid=%s: %v", aid, err)
	}
}

func (s *ArticleService) fillCommentCounts(articles []models.Article) {
	if len(articles) == 0 {
		return
	}
	ids := make([]uint, 0, len(articles))
	for i := range articles {
		ids = append(ids, articles[i].ID)
	}

	type row struct {
		ArticleID uint
		Cnt       int
	}
	var rows []row
	err := db.DB.Model(&models.Comment{}).
		Select("article_id, COUNT(*) AS cnt").
		Where("article_id IN ?", ids).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("批量统计评论数失败: %v", err)
		return
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.ArticleID] = r.Cnt
	}
	for i := range articles {
		articles[i].CommentCount = counts[articles[i].ID]
	}
}
