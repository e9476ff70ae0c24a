package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testUploadPrefix = "/uploads"

func testMoney(amount float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func newTestUploads(t *testing.T) (*UploadService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), testUploadPrefix)
	if err != nil {
		t.Fatalf("new local storage failed: %v", err)
	}
	uploads := NewUploadService(config.UploadConfig{
		MaxSize:           5 << 20,
		AllowedTypes:      []string{"image/png", "image/jpeg"},
		AllowedExtensions: []string{".png", ".jpg", ".jpeg"},
		MaxWidth:          1024,
		MaxHeight:         1024,
	}, store)
	return uploads, store
}

// storedPath 将本地存储地址还原为磁盘路径
func storedPath(store *storage.LocalStorage, url string) string {
	rel := strings.TrimPrefix(url, testUploadPrefix)
	return filepath.Join(store.Dir(), filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, PasswordHash: "hash", Sex: constants.UserSexMale}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) {
	t.Helper()
	if err := db.FirstOrCreate(&models.Category{Name: name}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
}

// createTestProduct 创建商品，withSurface 为 true 时写入 1 号封面图
func createTestProduct(t *testing.T, db *gorm.DB, name string, active, withSurface bool, prices ...float64) (*models.BaseProduct, []models.ProductVariant) {
	t.Helper()
	createTestCategory(t, db, "数码")
	product := &models.BaseProduct{Name: name, CategoryName: "数码", IsActive: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !active {
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
		product.IsActive = false
	}
	if withSurface {
		image := &models.ProductImage{
			ProductID:   product.ID,
			OrderNumber: constants.SurfaceOrderNumber,
			Image:       fmt.Sprintf("/uploads/product/%d-1.png", product.ID),
		}
		if err := db.Create(image).Error; err != nil {
			t.Fatalf("create product image failed: %v", err)
		}
	}
	variants := make([]models.ProductVariant, 0, len(prices))
	for i, price := range prices {
		variant := models.ProductVariant{
			ProductID: product.ID,
			ChildName: fmt.Sprintf("规格%d", i+1),
			Price:     testMoney(price),
			SlotOrder: i + 1,
		}
		if err := db.Create(&variant).Error; err != nil {
			t.Fatalf("create variant failed: %v", err)
		}
		variants = append(variants, variant)
	}
	return product, variants
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{UserID: userID, AddressInfo: "上海市浦东新区", Phone: "13800000000"}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func createTestOrder(t *testing.T, db *gorm.DB, userID, addressID, variantID uint, status string) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		UserID:      userID,
		VariantID:   variantID,
		AddressID:   addressID,
		Quantity:    1,
		Status:      status,
		PaymentTime: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, title string, active bool) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Title: title, Content: "正文", IsActive: true}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if !active {
		if err := db.Model(post).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate post failed: %v", err)
		}
		post.IsActive = false
	}
	image := &models.PostImage{PostID: post.ID, OrderNumber: constants.SurfaceOrderNumber, Image: fmt.Sprintf("/uploads/post/%d-1.png", post.ID)}
	if err := db.Create(image).Error; err != nil {
		t.Fatalf("create post image failed: %v", err)
	}
	return post
}

// pngFileHeaders 构造 multipart 表单中的 PNG 文件
func pngFileHeaders(t *testing.T, count int) []*multipart.FileHeader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for i := 0; i < count; i++ {
		part, err := writer.CreateFormFile("images", fmt.Sprintf("image-%d.png", i+1))
		if err != nil {
			t.Fatalf("create form file failed: %v", err)
		}
		if _, err := part.Write(encoded.Bytes()); err != nil {
			t.Fatalf("write form file failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}
	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("read multipart form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}
