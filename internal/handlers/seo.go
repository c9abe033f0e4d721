package handlers

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"time"
	"verinews/internal/db"
	"verinews/internal/models"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

// getSiteURL 从环境变量获取网站URL,如果未设置则使用默认值
func getSiteURL() string {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	return siteURL
}

// RobotsTxt 返回robots.txt内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	siteURL := getSiteURL()
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取 API 和管理端点
Disallow: /api/
Disallow: /ws/

# Sitemap位置
Sitemap: %s/sitemap.xml

# 爬取延迟(可选,避免服务器压力)
Crawl-delay: 1
`, siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML 动态生成sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	siteURL := getSiteURL()
	now := time.Now().Format("2006-01-02")

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`

	// 首页 - 最高优先级,每天更新
	xml += fmt.Sprintf(`  <url>
    <loc>%s/</loc>
    <lastmod>%s</lastmod>
    <changefreq>daily</changefreq>
    <priority>1.0</priority>
  </url>
`, siteURL, now)

	// 最近的文章详情页(限制500篇,避免sitemap过大)
	var articles []models.Article
	db.DB.Order("submitted_at DESC").Limit(500).Find(&articles)
	for _, article := range articles {
		lastmod := article.UpdatedAt.Format("2006-01-02")
		// 根据文章新旧程度调整优先级
		daysSinceCreated := time.Since(article.SubmittedAt).Hours() / 24
		priority := 0.6
		changefreq := "weekly"

		if daysSinceCreated < 7 {
			priority = 0.8
			changefreq = "daily"
		} else if daysSinceCreated < 30 {
			priority = 0.7
		}

		xml += fmt.Sprintf(`  <url>
    <loc>%s/a/%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, siteURL, article.Aid, lastmod, changefreq, priority)
	}

	xml += `</urlset>`

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}

// RSSFeed 生成RSS 2.0 feed，描述里带上伪造度评估结果
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	siteURL := getSiteURL()
	now := time.Now()

	// 查询最新20篇文章
	var articles []models.Article
	db.DB.Order("submitted_at DESC").Limit(20).Find(&articles)

	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>VeriNews</title>
    <link>` + siteURL + `</link>
    <description>聚合新闻并给出机器可信度评估与社区讨论佐证</description>
    <language>zh-CN</language>
    <lastBuildDate>` + now.Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`

	for _, article := range articles {
		link := fmt.Sprintf("%s/a/%s", siteURL, article.Aid)

		description := escapeXML(article.Summary)
		if description == "" {
			runes := []rune(article.Content)
			if len(runes) > 300 {
				runes = runes[:300]
			}
			description = escapeXML(string(runes))
		}
		verdict := fmt.Sprintf("[%s | 伪造度 %.0f%%] ", article.AiLabel, article.AiScore*100)

		rss += `    <item>
      <title>` + escapeXML(article.Title) + `</title>
      <link>` + link + `</link>
      <description>` + verdict + description + `</description>
      <pubDate>` + article.SubmittedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`
	}

	rss += `  </channel>
</rss>`

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}

// escapeXML 转义XML特殊字符
func escapeXML(s string) string {
	// 使用html.EscapeString处理XML转义,它能正确处理中文
	return html.EscapeString(s)
}
