package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"verinews/internal/models"
	"verinews/internal/utils"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxDiscussions = 10 // 附加到文章上的讨论帖上限
	maxURLMatches  = 5  // url 精确匹配策略提前收手的数量
	maxTitleWords  = 7  // 标题关键词策略取前几个词

	// 评论数下限：只有一条裸链接、没人讨论的帖子不算"舆论佐证"
	// url 精确匹配策略不受此限制
	minDiscussionComments = 3
)

// 新闻向子版块白名单，url 精确匹配只查这些
var newsSubreddits = []string{"news", "worldnews", "politics", "technology"}

// DiscussionSeed 讨论检索的输入：查询文本 + 可选的文章原始链接
type DiscussionSeed struct {
	Query string // 标题或关键词拼接
	URL   string // 为空时跳过 url 精确匹配策略
}

// discussionStrategy 单个检索策略，按固定优先级依次尝试
type discussionStrategy interface {
	name() string
	attempt(ctx context.Context, seed DiscussionSeed) ([]models.DiscussionThread, error)
}

// RedditService 舆论佐证检索服务
// 三级回退：url 精确匹配 -> 标题关键词 -> 站外搜索辅助
type RedditService struct {
	baseURL      string
	webSearchURL string
	userAgent    string
	client       *http.Client
	strategies   []discussionStrategy
}

// NewRedditService 创建检索服务，策略顺序即优先级
func NewRedditService(baseURL, webSearchURL, userAgent string) *RedditService {
	s := &RedditService{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		webSearchURL: webSearchURL,
		userAgent:    userAgent,
		client:       &http.Client{Timeout: 20 * time.Second},
	}
	s.strategies = []discussionStrategy{
		&urlMatchStrategy{s},
		&keywordStrategy{s},
		&webSearchStrategy{s},
	}
	return s
}

// FindDiscussions 按优先级尝试各策略，第一个有结果的策略胜出。
// 单个策略失败（限流/网络/解析）只记日志继续降级；全部落空返回空列表，
// 这是合法结果而不是错误——不是每篇文章都有人讨论。
func (s *RedditService) FindDiscussions(ctx context.Context, seed DiscussionSeed) []models.DiscussionThread {
	for _, strat := range s.strategies {
		threads, err := strat.attempt(ctx, seed)
		if err != nil {
			log.Printf("[reddit] 策略 %s 失败: %v", strat.name(), err)
			continue
		}
		if len(threads) == 0 {
			continue
		}

		sortThreads(threads)
		if len(threads) > maxDiscussions {
			threads = threads[:maxDiscussions]
		}
		return threads
	}
	return nil
}

// sortThreads 评论数降序，其次赞数降序
// 评论数比赞数更能说明"被讨论过"，所以排在前面
func sortThreads(threads []models.DiscussionThread) {
	sort.SliceStable(threads, func(i, j int) bool {
		if threads[i].Comments != threads[j].Comments {
			return threads[i].Comments > threads[j].Comments
		}
		return threads[i].Upvotes > threads[j].Upvotes
	})
}

// keywordQuery 去掉标点后取前 N 个词
func keywordQuery(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return ' '
		}
	}, title)

	words := strings.Fields(cleaned)
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return strings.Join(words, " ")
}

// ---- Reddit JSON API 响应结构 ----

type redditPost struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Permalink   string `json:"permalink"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	Subreddit   string `json:"subreddit"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *RedditService) fetchListing(ctx context.Context, rawURL string) (*redditListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 状态码 %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	return &listing, nil
}

func (p redditPost) toThread(source models.DiscussionSource) models.DiscussionThread {
	return models.DiscussionThread{
		Title:     p.Title,
		URL:       "https://www.reddit.com" + p.Permalink,
		Upvotes:   p.Score,
		Comments:  p.NumComments,
		Subreddit: p.Subreddit,
		Source:    source,
	}
}

// ---- 策略一：url 精确匹配 ----

type urlMatchStrategy struct {
	svc *RedditService
}

func (st *urlMatchStrategy) name() string { return "url_match" }

func (st *urlMatchStrategy) attempt(ctx context.Context, seed DiscussionSeed) ([]models.DiscussionThread, error) {
	if seed.URL == "" {
		return nil, nil
	}

	// 去掉 query/fragment 后按 scheme+host+path 匹配
	target := utils.StripToPath(seed.URL)

	var threads []models.DiscussionThread
	for _, sub := range newsSubreddits {
		params := url.Values{}
		params.Set("q", fmt.Sprintf("url:%q", target))
		params.Set("restrict_sr", "1")
		params.Set("limit", "10")

		listing, err := st.svc.fetchListing(ctx, fmt.Sprintf("%s/r/%s/search.json?%s", st.svc.baseURL, sub, params.Encode()))
		if err != nil {
			return nil, err
		}

		for _, child := range listing.Data.Children {
			if utils.StripToPath(child.Data.URL) != target {
				continue
			}
			threads = append(threads, child.Data.toThread(models.DiscussionSourceURLMatch))
			if len(threads) >= maxURLMatches {
				return threads, nil
			}
		}
	}
	return threads, nil
}

// ---- 策略二：标题关键词 ----

type keywordStrategy struct {
	svc *RedditService
}

func (st *keywordStrategy) name() string { return "keyword_match" }

func (st *keywordStrategy) attempt(ctx context.Context, seed DiscussionSeed) ([]models.DiscussionThread, error) {
	query := keywordQuery(seed.Query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "25")
	params.Set("sort", "relevance")

	listing, err := st.svc.fetchListing(ctx, fmt.Sprintf("%s/search.json?%s", st.svc.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var threads []models.DiscussionThread
	for _, child := range listing.Data.Children {
		if child.Data.NumComments < minDiscussionComments {
			continue
		}
		threads = append(threads, child.Data.toThread(models.DiscussionSourceKeywordMatch))
	}
	return threads, nil
}

// ---- 策略三：站外搜索辅助 ----

var redditThreadIDPattern = regexp.MustCompile(`/comments/([a-z0-9]+)`)

type webSearchStrategy struct {
	svc *RedditService
}

func (st *webSearchStrategy) name() string { return "web_search" }

func (st *webSearchStrategy) attempt(ctx context.Context, seed DiscussionSeed) ([]models.DiscussionThread, error) {
	query := keywordQuery(seed.Query)
	if query == "" {
		return nil, nil
	}

	ids, err := st.searchThreadIDs(ctx, "site:reddit.com "+query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// 按 id 批量补齐帖子详情
	fullnames := make([]string, len(ids))
	for i, id := range ids {
		fullnames[i] = "t3_" + id
	}
	params := url.Values{}
	params.Set("id", strings.Join(fullnames, ","))

	listing, err := st.svc.fetchListing(ctx, fmt.Sprintf("%s/api/info.json?%s", st.svc.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var threads []models.DiscussionThread
	for _, child := range listing.Data.Children {
		if child.Data.NumComments < minDiscussionComments {
			continue
		}
		threads = append(threads, child.Data.toThread(models.DiscussionSourceWebSearch))
	}
	return threads, nil
}

// searchThreadIDs 发起站外搜索并从结果链接里抽取去重后的帖子 id
func (st *webSearchStrategy) searchThreadIDs(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.svc.webSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", st.svc.userAgent)

	resp, err := st.svc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("搜索请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 状态码 %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析搜索结果失败: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "reddit.com") {
			return
		}
		match := redditThreadIDPattern.FindStringSubmatch(href)
		if match == nil || seen[match[1]] {
			return
		}
		seen[match[1]] = true
		ids = append(ids, match[1])
	})
	return ids, nil
}
