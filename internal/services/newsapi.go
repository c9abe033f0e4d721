package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"verinews/internal/utils"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// Headline 头条候选条目，批量摄入的输入单元
type Headline struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	ImageURL    string `json:"urlToImage"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// NewsAPIService NewsAPI 客户端（免费档）
type NewsAPIService struct {
	apiKey   string
	country  string
	pageSize int
	client   *http.Client
}

func NewNewsAPIService(apiKey, country string, pageSize int) *NewsAPIService {
	return &NewsAPIService{
		apiKey:   apiKey,
		country:  country,
		pageSize: pageSize,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type newsAPIResponse struct {
	Status   string     `json:"status"`
	Message  string     `json:"message"`
	Articles []Headline `json:"articles"`
}

// TopHeadlines 拉取当前头条，结果缓存 5 分钟避免频繁打免费接口
func (s *NewsAPIService) TopHeadlines(ctx context.Context) ([]Headline, error) {
	cacheKey := fmt.Sprintf("news:headlines:%s:%d", s.country, s.pageSize)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if headlines, ok := cached.([]Headline); ok {
			return headlines, nil
		}
	}

	params := url.Values{}
	params.Set("country", s.country)
	params.Set("pageSize", fmt.Sprintf("%d", s.pageSize))

	headlines, err := s.request(ctx, "/top-headlines", params)
	if err != nil {
		return nil, err
	}

	utils.GetCache().Set(cacheKey, headlines, 5*time.Minute)
	return headlines, nil
}

// SearchHeadlines 按关键词搜索新闻
func (s *NewsAPIService) SearchHeadlines(ctx context.Context, query string, pageSize int) ([]Headline, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	return s.request(ctx, "/everything", params)
}

func (s *NewsAPIService) request(ctx context.Context, path string, params url.Values) ([]Headline, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("NewsAPI key 未配置")
	}
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI 请求失败: %w", err)
	}
	defer resp.Body.Close()

	var data newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("解析 NewsAPI 响应失败: %w", err)
	}

	if data.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI 返回错误: %s", data.Message)
	}
	return data.Articles, nil
}
