package services

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// CrawlerService 网页正文抓取服务
type CrawlerService struct {
	client    *http.Client
	sanitizer *bluemonday.Policy
}

// NewCrawlerService 创建抓取服务实例
func NewCrawlerService() *CrawlerService {
	return &CrawlerService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		sanitizer: bluemonday.StrictPolicy(), // 只要纯文本正文，标签全部剥掉
	}
}

// FetchedPage 抓取结果：正文纯文本 + 头图
type FetchedPage struct {
	Text     string
	ImageURL string
}

// FetchArticle 从 URL 抓取正文内容
// 使用 go-readability 提取正文，bluemonday 清洗成纯文本，goquery 取头图
func (s *CrawlerService) FetchArticle(url string) (*FetchedPage, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	// 设置 User-Agent 模拟浏览器
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	html := string(body)

	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return nil, fmt.Errorf("解析正文失败: %w", err)
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(article.Content))
	if text == "" {
		return nil, fmt.Errorf("正文为空")
	}

	page := &FetchedPage{Text: text}

	// 头图优先取 readability 的结果，取不到再从 meta 里找
	if article.Image != "" {
		page.ImageURL = article.Image
	} else {
		page.ImageURL = extractLeadImage(html)
	}

	return page, nil
}

// FetchWithFallback 尝试抓取，失败时返回 nil 而不是错误（批量路径里跳过该条）
func (s *CrawlerService) FetchWithFallback(url string) *FetchedPage {
	page, err := s.FetchArticle(url)
	if err != nil {
		return nil
	}
	return page
}

// extractLeadImage 从 og:image / twitter:image meta 或首个 img 标签提取头图
func extractLeadImage(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return content
		}
	}

	if src, ok := doc.Find("article img, img").First().Attr("src"); ok {
		return src
	}
	return ""
}
