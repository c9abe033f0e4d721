package main

import (
	"context"
	"log"
	"verinews/internal/config"
	"verinews/internal/db"
	"verinews/internal/realtime"
	"verinews/internal/router"
	"verinews/internal/search"
	"verinews/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	// Initialize Database
	db.Init(cfg.DatabaseURL)

	// 全文索引，打不开时只降级不拦启动
	var index *search.Index
	idx, err := search.Open(cfg.IndexPath)
	if err != nil {
		log.Printf("搜索索引打开失败，检索将降级为数据库扫描: %v", err)
	} else {
		index = idx
	}

	// Services
	hub := realtime.NewHub()
	analyzer := services.NewAnalyzerService(cfg.AnalyzerURL)
	crawler := services.NewCrawlerService()
	reddit := services.NewRedditService(cfg.RedditBaseURL, cfg.WebSearchURL, cfg.RedditUserAgent)
	articles := services.NewArticleService(index)
	notify := services.NewNotifyService(hub)
	newsAPI := services.NewNewsAPIService(cfg.NewsAPIKey, cfg.NewsAPICountry, cfg.NewsAPIPageSize)

	// 头条来源：NewsAPI 优先，RSS 兜底
	var sources []services.HeadlineSource
	if cfg.NewsAPIKey != "" {
		sources = append(sources, newsAPI)
	} else {
		log.Println("未配置 NEWS_API_KEY，跳过 NewsAPI 头条源")
	}
	if len(cfg.RSSFeeds) > 0 {
		sources = append(sources, services.NewRSSSource(cfg.RSSFeeds))
	}

	ingest := services.NewIngestService(analyzer, crawler, reddit, articles, notify, sources, cfg.IngestMaxPerCycle)

	// 定时批量摄入，与请求处理完全独立
	if len(sources) > 0 {
		c := cron.New()
		if _, err := c.AddFunc(cfg.IngestCron, func() {
			ingest.FetchAndSaveNews(context.Background())
		}); err != nil {
			log.Fatalf("定时任务注册失败: %v", err)
		}
		c.Start()
		log.Printf("批量摄入定时任务已启动: %s", cfg.IngestCron)
	} else {
		log.Println("没有可用的头条来源，批量摄入未启动")
	}

	// Initialize Gin
	r := gin.Default()
	router.RegisterRoutes(r, router.Deps{
		Config:   &cfg,
		Articles: articles,
		Ingest:   ingest,
		Notify:   notify,
		NewsAPI:  newsAPI,
		Crawler:  crawler,
		Hub:      hub,
	})

	log.Printf("服务启动，监听端口 %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
