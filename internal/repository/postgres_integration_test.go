//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.ProductComment{},
		&models.Order{},
		&models.Address{},
		&models.ProductVariant{},
		&models.BaseProduct{},
		&models.Category{},
		&models.PostLike{},
		&models.Post{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresAggregates(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	user := createRepoUser(t, db, "pg_buyer")
	product, variants := createRepoProduct(t, db, "显示器", true, 999, 1299)
	createRepoOrder(t, db, user.ID, variants[0].ID, 4, constants.OrderStatusReceived)

	prices, err := repo.MinPrices([]uint{product.ID})
	if err != nil {
		t.Fatalf("min prices failed: %v", err)
	}
	if prices[product.ID].String() != "999.00" {
		t.Fatalf("min price want 999.00 got %s", prices[product.ID].String())
	}
	sales, err := repo.SalesCounts([]uint{product.ID})
	if err != nil {
		t.Fatalf("sales counts failed: %v", err)
	}
	if sales[product.ID] != 4 {
		t.Fatalf("sales want 4 got %d", sales[product.ID])
	}
}

func TestPostgresDuplicateTranslated(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	author := createRepoUser(t, db, "pg_author")
	post := &models.Post{UserID: author.ID, Title: "pg", Content: "pg", IsActive: true}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	likes := NewPostLikeRepository(db)
	if err := likes.Create(&models.PostLike{PostID: post.ID, UserID: author.ID}); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := likes.Create(&models.PostLike{PostID: post.ID, UserID: author.ID}); !IsDuplicate(err) {
		t.Fatalf("duplicate like should be translated, got %v", err)
	}
}
