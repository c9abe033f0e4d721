package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 汇总全部环境配置，启动时一次性读取并注入各组件
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTExpiry time.Duration

	// 内容分析服务 (分类/摘要/关键词)
	AnalyzerURL string

	// NewsAPI
	NewsAPIKey      string
	NewsAPICountry  string
	NewsAPIPageSize int

	// Reddit 舆论检索
	RedditBaseURL   string
	RedditUserAgent string

	// 站内搜索引用的 DuckDuckGo HTML 入口 (第三级回退策略)
	WebSearchURL string

	// 全文索引文件路径
	IndexPath string

	// 定时抓取
	IngestCron        string
	IngestMaxPerCycle int

	// 额外的 RSS 头条源，逗号分隔
	RSSFeeds []string
}

// Load 从环境变量读取配置，缺省值适用于本地开发
func Load() Config {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=verinews port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", "secret_key_change_me"),
		JWTExpiry:         getDuration("JWT_EXPIRY", time.Hour),
		AnalyzerURL:       getEnv("ANALYZER_URL", "http://127.0.0.1:8000"),
		NewsAPIKey:        os.Getenv("NEWS_API_KEY"),
		NewsAPICountry:    getEnv("NEWS_API_COUNTRY", "us"),
		NewsAPIPageSize:   getInt("NEWS_API_PAGE_SIZE", 5),
		RedditBaseURL:     getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
		RedditUserAgent:   getEnv("REDDIT_USER_AGENT", "verinews/1.0"),
		WebSearchURL:      getEnv("WEB_SEARCH_URL", "https://html.duckduckgo.com/html/"),
		IndexPath:         getEnv("INDEX_PATH", "./data/articles.bleve"),
		IngestCron:        getEnv("INGEST_CRON", "@every 30m"),
		IngestMaxPerCycle: getInt("INGEST_MAX_PER_CYCLE", 1),
	}

	if feeds := os.Getenv("RSS_FEEDS"); feeds != "" {
		for _, f := range strings.Split(feeds, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.RSSFeeds = append(cfg.RSSFeeds, f)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
