package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/shoppingmall/internal/authz"
	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
	"github.com/shoppingmall/internal/service"

	"github.com/shopspring/decimal"
)

type seedVariant struct {
	name  string
	price string
}

type seedProduct struct {
	name     string
	category string
	variants []seedVariant
}

var seedCategories = []string{"数码", "服饰", "家居"}

var seedProducts = []seedProduct{
	{name: "无线蓝牙耳机", category: "数码", variants: []seedVariant{{"标准版", "199.00"}, {"降噪版", "299.00"}}},
	{name: "智能手表", category: "数码", variants: []seedVariant{{"41mm", "1299.00"}, {"45mm", "1499.00"}}},
	{name: "纯棉T恤", category: "服饰", variants: []seedVariant{{"M", "79.90"}, {"L", "79.90"}, {"XL", "89.90"}}},
	{name: "香薰蜡烛", category: "家居", variants: []seedVariant{{"雪松", "59.00"}, {"白茶", "59.00"}}},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}

	seedSuperUser(cfg.Server.Mode, authzService)

	ctx := context.Background()
	categoryService := service.NewCategoryService(repository.NewCategoryRepository(models.DB))
	for _, name := range seedCategories {
		if _, err := categoryService.Create(ctx, name); err != nil && !errors.Is(err, service.ErrCategoryExists) {
			stdLog.Printf("Failed to create category %s: %v", name, err)
			continue
		}
		stdLog.Printf("Category ready: %s", name)
	}

	productRepo := repository.NewProductRepository(models.DB)
	productService := service.NewProductService(service.ProductServiceDeps{
		ProductRepo:  productRepo,
		VariantRepo:  repository.NewProductVariantRepository(models.DB),
		ImageRepo:    repository.NewProductImageRepository(models.DB),
		AdRepo:       repository.NewAdvertisementRepository(models.DB),
		CommentRepo:  repository.NewProductCommentRepository(models.DB),
		CategoryRepo: repository.NewCategoryRepository(models.DB),
		UserRepo:     repository.NewUserRepository(models.DB),
		CascadeRepo:  repository.NewCascadeRepository(models.DB),
	})

	var existing int64
	if err := models.DB.Model(&models.BaseProduct{}).Count(&existing).Error; err != nil {
		stdLog.Fatalf("Failed to count products: %v", err)
	}
	if existing > 0 {
		stdLog.Printf("Products already seeded (%d), skip", existing)
		return
	}

	for _, item := range seedProducts {
		product, err := productService.CreateProduct(ctx, service.ProductInput{
			Name:     item.name,
			Category: item.category,
		})
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.name, err)
			continue
		}
		for idx, variant := range item.variants {
			price, err := decimal.NewFromString(variant.price)
			if err != nil {
				stdLog.Printf("Invalid price %s for %s: %v", variant.price, item.name, err)
				continue
			}
			if _, err := productService.CreateVariant(ctx, product.ID, service.VariantInput{
				ChildName: variant.name,
				Price:     models.NewMoneyFromDecimal(price),
				Order:     idx + 1,
			}); err != nil {
				stdLog.Printf("Failed to create variant %s/%s: %v", item.name, variant.name, err)
			}
		}
		stdLog.Printf("Created product: %s (id=%d)", item.name, product.ID)
	}
	stdLog.Printf("Seeded products are offline, upload cover image #1 and set is_active to list them")
}

// seedSuperUser 创建默认管理员并授予 role:super
func seedSuperUser(mode string, authzService *authz.Service) {
	stdLog := logger.StdLogger()
	name := strings.TrimSpace(os.Getenv("MALL_SUPER_USER"))
	password := os.Getenv("MALL_SUPER_PASSWORD")
	if mode == "release" && password == "" {
		stdLog.Printf("警告: 未设置 MALL_SUPER_PASSWORD，已跳过默认管理员初始化")
		return
	}

	user, err := models.InitDefaultAdmin(name, password)
	if err != nil {
		stdLog.Fatalf("Failed to create super user: %v", err)
	}
	if err := authzService.GrantUserRole(user.ID, authz.RoleSuper); err != nil {
		stdLog.Fatalf("Failed to grant super role: %v", err)
	}
	stdLog.Printf("Super user ready: %s (id=%d)", user.Name, user.ID)
}
