package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSSource 额外的 RSS 头条来源，和 NewsAPI 输出同样的 Headline 形态
// 供没有 NewsAPI 配额的部署使用
type RSSSource struct {
	feedURLs []string
	parser   *gofeed.Parser
}

// NewRSSSource 创建 RSS 头条源
func NewRSSSource(feedURLs []string) *RSSSource {
	// 自定义 HTTP 客户端，设置超时
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	return &RSSSource{
		feedURLs: feedURLs,
		parser:   parser,
	}
}

// Headlines 拉取全部订阅源的条目，按条目数量截断
// 单个源失败只记日志，不影响其他源
func (s *RSSSource) Headlines(ctx context.Context, limit int) ([]Headline, error) {
	var headlines []Headline
	for _, feedURL := range s.feedURLs {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Printf("[rss] 解析订阅源失败 %s: %v", feedURL, err)
			continue
		}

		for _, item := range feed.Items {
			if item.Title == "" || item.Link == "" {
				continue
			}
			h := Headline{
				Title:       item.Title,
				URL:         item.Link,
				Description: item.Description,
			}
			if item.Image != nil {
				h.ImageURL = item.Image.URL
			}
			h.Source.Name = feed.Title
			headlines = append(headlines, h)
			if limit > 0 && len(headlines) >= limit {
				return headlines, nil
			}
		}
	}
	return headlines, nil
}
