package router

import (
	"verinews/internal/config"
	"verinews/internal/handlers"
	"verinews/internal/middleware"
	"verinews/internal/realtime"
	"verinews/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps 路由依赖的全部服务，main 里组装好传进来
type Deps struct {
	Config   *config.Config
	Articles *services.ArticleService
	Ingest   *services.IngestService
	Notify   *services.NotifyService
	NewsAPI  *services.NewsAPIService
	Crawler  *services.CrawlerService
	Hub      *realtime.Hub
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(deps.Config.JWTSecret, deps.Config.JWTExpiry)
	articleHandler := handlers.NewArticleHandler(deps.Articles, deps.Ingest)
	newsHandler := handlers.NewNewsHandler(deps.NewsAPI, deps.Crawler)
	commentHandler := handlers.NewCommentHandler(deps.Articles, deps.Notify)
	bookmarkHandler := handlers.NewBookmarkHandler(deps.Articles)
	categoryHandler := handlers.NewCategoryHandler()
	notificationHandler := handlers.NewNotificationHandler(deps.Notify, deps.Hub)
	adminHandler := handlers.NewAdminHandler(deps.Ingest, deps.Notify)
	seoHandler := handlers.NewSEOHandler()

	// SEO 与订阅输出
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	auth := middleware.AuthRequired(deps.Config.JWTSecret)

	api := r.Group("/api")

	// 认证 (Auth Routes)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register) // 注册
		authGroup.POST("/login", authHandler.Login)       // 登录
		authGroup.POST("/logout", auth, authHandler.Logout)
		authGroup.GET("/profile", auth, authHandler.Profile)             // 个人资料
		authGroup.PUT("/profile", auth, authHandler.UpdateProfile)       // 修改资料
		authGroup.PUT("/password", auth, authHandler.ChangePassword)     // 修改密码
		authGroup.POST("/request-admin", auth, authHandler.RequestAdmin) // 申请管理员
		authGroup.GET("/points", auth, authHandler.PointLogs)            // 积分明细
	}

	// 文章 (Article Routes)
	articles := api.Group("/articles")
	{
		articles.GET("", articleHandler.List)                        // 文章列表
		articles.GET("/search", articleHandler.Search)               // 全文检索
		articles.GET("/stats/keywords", articleHandler.KeywordStats) // 热门关键词
		articles.GET("/recommended", auth, articleHandler.Recommended)
		articles.GET("/mine", auth, articleHandler.MyArticles) // 我的文章
		articles.POST("", auth, articleHandler.Create)         // 提交文章
		articles.GET("/:aid", articleHandler.Get)              // 文章详情
		articles.PUT("/:aid", auth, articleHandler.Update)     // 更新文章
		articles.DELETE("/:aid", auth, articleHandler.Delete)  // 删除文章
		articles.GET("/:aid/similar", articleHandler.Similar)  // 相似文章

		articles.GET("/:aid/comments", commentHandler.List)          // 评论列表
		articles.POST("/:aid/comments", auth, commentHandler.Create) // 发表评论
		articles.POST("/:aid/bookmark", auth, bookmarkHandler.Toggle)
	}
	api.DELETE("/comments/:cid", auth, commentHandler.Delete) // 删除评论

	// 实时头条 (News Routes)
	news := api.Group("/news")
	{
		news.GET("/headlines", newsHandler.Headlines)               // 实时头条
		news.POST("/fetch-content", auth, newsHandler.FetchContent) // 抓取正文
	}

	// 收藏与分类
	api.GET("/bookmarks", auth, bookmarkHandler.List)
	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/mine", auth, categoryHandler.Mine)
	api.PUT("/categories/mine", auth, categoryHandler.SetMine)

	// 通知 (Notification Routes)
	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}
	r.GET("/ws/notifications", auth, notificationHandler.Subscribe) // websocket 订阅

	// 管理后台 (Admin Routes)
	admin := api.Group("/admin", auth, middleware.AdminRequired())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users/:id/suspend", adminHandler.ToggleSuspend)
		admin.POST("/users/:id/grant-admin", adminHandler.GrantAdmin)
		admin.DELETE("/articles/:aid", adminHandler.DeleteArticle)
	}
}
