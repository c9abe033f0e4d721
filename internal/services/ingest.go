package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"
	"verinews/internal/db"
	"verinews/internal/models"
	"verinews/internal/utils"

	"gorm.io/gorm"
)

// 标题最短长度（按字符数计，不是字节），批量和手动提交共用
const minTitleLen = 5

// 批量佐证检索用前几个关键词拼 query
const seedKeywordCount = 2

// HeadlineSource 头条来源，NewsAPI 和 RSS 都实现该接口
type HeadlineSource interface {
	SourceName() string
	FetchHeadlines(ctx context.Context) ([]Headline, error)
}

// IngestService 文章摄入流水线：批量抓取和用户提交共用同一条
// 校验 -> 去重 -> 分析 -> 佐证 -> 入库 -> 索引 的主干
type IngestService struct {
	analyzer    *AnalyzerService
	crawler     *CrawlerService
	reddit      *RedditService
	articles    *ArticleService
	notify      *NotifyService
	sources     []HeadlineSource
	maxPerCycle int // 每轮批量最多入库篇数，限速用
}

func NewIngestService(
	analyzer *AnalyzerService,
	crawler *CrawlerService,
	reddit *RedditService,
	articles *ArticleService,
	notify *NotifyService,
	sources []HeadlineSource,
	maxPerCycle int,
) *IngestService {
	if maxPerCycle < 1 {
		maxPerCycle = 1
	}
	return &IngestService{
		analyzer:    analyzer,
		crawler:     crawler,
		reddit:      reddit,
		articles:    articles,
		notify:      notify,
		sources:     sources,
		maxPerCycle: maxPerCycle,
	}
}

// CreateArticleInput 用户提交文章的入参
type CreateArticleInput struct {
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Content  string `json:"content"` // 为空时自动抓取
	ImageURL string `json:"image_url"`
}

// FetchAndSaveNews 批量摄入一轮：依次拉各来源的头条，逐条走流水线，
// 入库满 maxPerCycle 篇即收工。单条失败只记日志不中断整轮。
func (s *IngestService) FetchAndSaveNews(ctx context.Context) int {
	saved := 0
	for _, source := range s.sources {
		if saved >= s.maxPerCycle {
			break
		}

		headlines, err := source.FetchHeadlines(ctx)
		if err != nil {
			log.Printf("头条来源 %s 拉取失败: %v", source.SourceName(), err)
			continue
		}
		log.Printf("头条来源 %s 返回 %d 条候选", source.SourceName(), len(headlines))

		for _, h := range headlines {
			if saved >= s.maxPerCycle {
				break
			}
			if err := s.ingestHeadline(ctx, h); err != nil {
				if !errors.Is(err, ErrDuplicate) {
					log.Printf("头条入库失败 url=%s: %v", h.URL, err)
				}
				continue
			}
			saved++
		}
	}

	log.Printf("批量摄入完成，本轮入库 %d 篇", saved)
	return saved
}

// ingestHeadline 批量路径的单条处理
func (s *IngestService) ingestHeadline(ctx context.Context, h Headline) error {
	title := strings.TrimSpace(h.Title)
	if utf8.RuneCountInString(title) < minTitleLen {
		return &ValidationError{Field: "title", Reason: "标题过短"}
	}
	if !utils.IsValidURL(h.URL) {
		return &ValidationError{Field: "url", Reason: "不是合法的绝对 URL"}
	}

	normalized := utils.NormalizeURL(h.URL)
	if s.urlExists(normalized) {
		return ErrDuplicate
	}

	// 抓正文，抓不到退回来源提供的描述
	text := ""
	imageURL := h.ImageURL
	if page := s.crawler.FetchWithFallback(h.URL); page != nil {
		text = page.Text
		if imageURL == "" {
			imageURL = page.ImageURL
		}
	}
	if strings.TrimSpace(text) == "" {
		text = h.Description
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "content", Reason: "正文抓取失败且来源无描述"}
	}

	analysis, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return err
	}

	// 批量路径用权重最高的关键词做佐证检索种子
	discussions := s.reddit.FindDiscussions(ctx, DiscussionSeed{
		Query: keywordSeed(analysis.Keywords, title),
		URL:   h.URL,
	})

	article := &models.Article{
		Aid:           utils.RandStringBytesMaskImpr(8),
		Title:         title,
		Content:       text,
		SourceURL:     h.URL,
		NormalizedURL: normalized,
		ImageURL:      imageURL,
		AiScore:       analysis.Score,
		AiLabel:       analysis.Label,
		Summary:       analysis.Summary,
		Keywords:      analysis.Keywords,
		Discussions:   discussions,
		SubmittedAt:   time.Now(),
	}

	if err := s.saveArticle(article); err != nil {
		return err
	}
	s.articles.IndexArticle(article)
	return nil
}

// CreateArticle 用户提交文章，成功后异步加积分
func (s *IngestService) CreateArticle(ctx context.Context, input CreateArticleInput, user *models.User) (*models.Article, error) {
	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) < minTitleLen {
		return nil, &ValidationError{Field: "title", Reason: "标题至少 5 个字符"}
	}
	if !utils.IsValidURL(input.URL) {
		return nil, &ValidationError{Field: "url", Reason: "不是合法的绝对 URL"}
	}

	normalized := utils.NormalizeURL(input.URL)
	if s.urlExists(normalized) {
		return nil, ErrDuplicate
	}

	content := strings.TrimSpace(input.Content)
	imageURL := input.ImageURL
	if content == "" {
		page, err := s.crawler.FetchArticle(input.URL)
		if err != nil {
			return nil, &ValidationError{Field: "content", Reason: "正文为空且无法从来源抓取"}
		}
		content = page.Text
		if imageURL == "" {
			imageURL = page.ImageURL
		}
	}

	analysis, err := s.analyzer.Analyze(ctx, content)
	if err != nil {
		return nil, err
	}

	// 提交路径用标题做佐证检索种子
	discussions := s.reddit.FindDiscussions(ctx, DiscussionSeed{
		Query: title,
		URL:   input.URL,
	})

	article := &models.Article{
		Aid:           utils.RandStringBytesMaskImpr(8),
		UserID:        &user.ID,
		Title:         title,
		Content:       content,
		SourceURL:     input.URL,
		NormalizedURL: normalized,
		ImageURL:      imageURL,
		AiScore:       analysis.Score,
		AiLabel:       analysis.Label,
		Summary:       analysis.Summary,
		Keywords:      analysis.Keywords,
		Discussions:   discussions,
		SubmittedAt:   time.Now(),
	}

	if err := s.saveArticle(article); err != nil {
		return nil, err
	}
	s.articles.IndexArticle(article)
	AddPointsAsync(user.ID, PointsArticleSubmit, ActionArticleSubmit)
	return article, nil
}

// UpdateArticleInput 更新入参，nil 字段表示不改
type UpdateArticleInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// UpdateArticle 更新文章。正文变化触发重新分析和重新佐证；
// 只改标题时仅用新标题重新佐证，分析结果原样保留。
func (s *IngestService) UpdateArticle(ctx context.Context, aid string, input UpdateArticleInput, actor *models.User) (*models.Article, error) {
	article, err := s.loadOwned(aid, actor, false)
	if err != nil {
		return nil, err
	}

	titleChanged := false
	contentChanged := false

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if utf8.RuneCountInString(title) < minTitleLen {
			return nil, &ValidationError{Field: "title", Reason: "标题至少 5 个字符"}
		}
		if title != article.Title {
			article.Title = title
			titleChanged = true
		}
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, &ValidationError{Field: "content", Reason: "正文不能为空"}
		}
		if content != article.Content {
			article.Content = content
			contentChanged = true
		}
	}

	if contentChanged {
		analysis, err := s.analyzer.Analyze(ctx, article.Content)
		if err != nil {
			return nil, err
		}
		article.AiScore = analysis.Score
		article.AiLabel = analysis.Label
		article.Summary = analysis.Summary
		article.Keywords = analysis.Keywords

		article.Discussions = s.reddit.FindDiscussions(ctx, DiscussionSeed{
			Query: keywordSeed(analysis.Keywords, article.Title),
			URL:   article.SourceURL,
		})
	} else if titleChanged {
		article.Discussions = s.reddit.FindDiscussions(ctx, DiscussionSeed{
			Query: article.Title,
			URL:   article.SourceURL,
		})
	}

	if titleChanged || contentChanged {
		if err := db.DB.Save(article).Error; err != nil {
			return nil, err
		}
		s.articles.IndexArticle(article)
	}
	return article, nil
}

// DeleteArticle 删除文章，作者本人或管理员（adminOverride）可删
func (s *IngestService) DeleteArticle(aid string, actor *models.User, adminOverride bool) error {
	article, err := s.loadOwned(aid, actor, adminOverride)
	if err != nil {
		return err
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(article).Error
	})
	if err != nil {
		return err
	}

	s.articles.RemoveFromIndex(aid)
	if article.UserID != nil && *article.UserID == actor.ID {
		AddPointsAsync(actor.ID, PointsArticleDeleted, ActionArticleDeleted)
	}
	// 管理员删除别人的文章时通知原作者
	if s.notify != nil && article.UserID != nil && *article.UserID != actor.ID {
		s.notify.NotifyArticleRemoved(*article.UserID, article.Title)
	}
	return nil
}

// loadOwned 取文章并做归属检查，adminOverride 跳过归属限制
func (s *IngestService) loadOwned(aid string, actor *models.User, adminOverride bool) (*models.Article, error) {
	var article models.Article
	err := db.DB.Where("aid = ?", aid).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if adminOverride && actor.IsAdmin() {
		return &article, nil
	}
	if article.UserID == nil || *article.UserID != actor.ID {
		return nil, ErrPermission
	}
	return &article, nil
}

// urlExists 入库前的预检，真正的去重由 normalized_url 唯一索引兜底
func (s *IngestService) urlExists(normalized string) bool {
	var count int64
	db.DB.Model(&models.Article{}).Where("normalized_url = ?", normalized).Count(&count)
	return count > 0
}

// saveArticle 入库，唯一键冲突翻译为 ErrDuplicate（并发提交同一来源时兜底）
func (s *IngestService) saveArticle(article *models.Article) error {
	err := db.DB.Create(article).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// keywordSeed 取权重最高的关键词拼检索种子，关键词为空退回标题
func keywordSeed(keywords []string, title string) string {
	if len(keywords) == 0 {
		return title
	}
	n := seedKeywordCount
	if len(keywords) < n {
		n = len(keywords)
	}
	return strings.Join(keywords[:n], " ")
}

// 头条来源适配

// SourceName NewsAPI 来源标识
func (s *NewsAPIService) SourceName() string { return "newsapi" }

// FetchHeadlines 实现 HeadlineSource
func (s *NewsAPIService) FetchHeadlines(ctx context.Context) ([]Headline, error) {
	return s.TopHeadlines(ctx)
}

// SourceName RSS 来源标识
func (s *RSSSource) SourceName() string { return "rss" }

// FetchHeadlines 实现 HeadlineSource
func (s *RSSSource) FetchHeadlines(ctx context.Context) ([]Headline, error) {
	return s.Headlines(ctx, 20)
}
