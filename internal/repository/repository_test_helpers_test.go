package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func testMoney(amount float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createRepoUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, PasswordHash: "hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createRepoProduct(t *testing.T, db *gorm.DB, name string, active bool, prices ...float64) (*models.BaseProduct, []models.ProductVariant) {
	t.Helper()
	if err := db.FirstOrCreate(&models.Category{Name: "数码"}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.BaseProduct{Name: name, CategoryName: "数码", IsActive: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !active {
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
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

func createRepoOrder(t *testing.T, db *gorm.DB, userID, variantID uint, quantity int, status string) *models.Order {
	t.Helper()
	address := &models.Address{UserID: userID, AddressInfo: "上海市", Phone: "13800000000"}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	if status == "" {
		status = constants.OrderStatusAwaitingShipment
	}
	order := &models.Order{
		UserID:      userID,
		VariantID:   variantID,
		AddressID:   address.ID,
		Quantity:    quantity,
		Status:      status,
		PaymentTime: time.Now(),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
