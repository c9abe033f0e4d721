package db

import (
	"log"
	"verinews/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error
	// TranslateError 把驱动层唯一键冲突翻译成 gorm.ErrDuplicatedKey
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.UserCategory{},
		&models.Article{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Notification{},
		&models.PointLog{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed default categories
	seedCategories()
}

// seedCategories 预置默认兴趣分类，注册用户时默认关注
func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Label: "Technology"},
		{Label: "Science"},
		{Label: "Business"},
		{Label: "Politics"},
		{Label: "Health"},
	}

	for _, cat := range categories {
		if err := DB.Create(&cat).Error; err != nil {
			log.Printf("Failed to create category %s: %v", cat.Label, err)
		}
	}
	log.Println("Initial categories created successfully")
}
