package repository

import (
	"testing"
	"time"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
)

func TestProductMinPrices(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	withVariants, _ := createRepoProduct(t, db, "耳机", true, 199, 99.5, 150)
	empty, _ := createRepoProduct(t, db, "空商品", true)

	prices, err := repo.MinPrices([]uint{withVariants.ID, empty.ID})
	if err != nil {
		t.Fatalf("min prices failed: %v", err)
	}
	price, ok := prices[withVariants.ID]
	if !ok {
		t.Fatalf("product with variants should have min price")
	}
	if price.String() != "99.50" {
		t.Fatalf("min price want 99.50 got %s", price.String())
	}
	if _, ok := prices[empty.ID]; ok {
		t.Fatalf("product without variants should not have min price")
	}
}

func TestProductSalesAndCommentCounts(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	user := createRepoUser(t, db, "buyer")
	product, variants := createRepoProduct(t, db, "键盘", true, 300, 350)

	createRepoOrder(t, db, user.ID, variants[0].ID, 2, constants.OrderStatusReceived)
	time.Sleep(time.Millisecond)
	createRepoOrder(t, db, user.ID, variants[1].ID, 3, constants.OrderStatusShipped)
	time.Sleep(time.Millisecond)
	refunded := createRepoOrder(t, db, user.ID, variants[1].ID, 5, constants.OrderStatusAfterSale)

	sales, err := repo.SalesCounts([]uint{product.ID})
	if err != nil {
		t.Fatalf("sales counts failed: %v", err)
	}
	if sales[product.ID] != 5 {
		t.Fatalf("sales want 5 got %d", sales[product.ID])
	}

	comment := &models.ProductComment{OrderID: refunded.ID, ProductID: product.ID, UserID: user.ID, Star: 4, CommentTime: time.Now()}
	if err := NewProductCommentRepository(db).Create(comment); err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	counts, err := repo.CommentCounts([]uint{product.ID})
	if err != nil {
		t.Fatalf("comment counts failed: %v", err)
	}
	if counts[product.ID] != 1 {
		t.Fatalf("comment count want 1 got %d", counts[product.ID])
	}
}

func TestProductListOnlyActive(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	createRepoProduct(t, db, "上架", true, 10)
	createRepoProduct(t, db, "下架", false, 10)

	products, total, err := repo.List(ProductListFilter{OnlyActive: true})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("active products want 1 got total=%d len=%d", total, len(products))
	}
	if products[0].Name != "上架" {
		t.Fatalf("active product want 上架 got %s", products[0].Name)
	}
}

func TestVariantUniqueSlot(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductVariantRepository(db)
	product, _ := createRepoProduct(t, db, "鼠标", true, 50)

	err := repo.Create(&models.ProductVariant{ProductID: product.ID, ChildName: "新规格", Price: testMoney(60), SlotOrder: 1})
	if !IsDuplicate(err) {
		t.Fatalf("duplicate slot should be rejected, got %v", err)
	}
	err = repo.Create(&models.ProductVariant{ProductID: product.ID, ChildName: "规格1", Price: testMoney(60), SlotOrder: 2})
	if !IsDuplicate(err) {
		t.Fatalf("duplicate child name should be rejected, got %v", err)
	}
}

func TestProductImageSurfaces(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductImageRepository(db)
	withCover, _ := createRepoProduct(t, db, "相机", true, 10)
	noCover, _ := createRepoProduct(t, db, "镜头", true, 10)

	for _, image := range []models.ProductImage{
		{ProductID: withCover.ID, OrderNumber: 2, Image: "/uploads/b.png"},
		{ProductID: withCover.ID, OrderNumber: 1, Image: "/uploads/a.png"},
		{ProductID: noCover.ID, OrderNumber: 2, Image: "/uploads/c.png"},
	} {
		image := image
		if err := repo.Create(&image); err != nil {
			t.Fatalf("create image failed: %v", err)
		}
	}

	surfaces, err := repo.Surfaces([]uint{withCover.ID, noCover.ID})
	if err != nil {
		t.Fatalf("surfaces failed: %v", err)
	}
	if surfaces[withCover.ID] != "/uploads/a.png" {
		t.Fatalf("surface want /uploads/a.png got %s", surfaces[withCover.ID])
	}
	if _, ok := surfaces[noCover.ID]; ok {
		t.Fatalf("product without order 1 image should have no surface")
	}
	max, err := repo.MaxOrderNumber(withCover.ID)
	if err != nil {
		t.Fatalf("max order number failed: %v", err)
	}
	if max != 2 {
		t.Fatalf("max order number want 2 got %d", max)
	}
}
