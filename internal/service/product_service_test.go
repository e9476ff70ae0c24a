package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
	"github.com/shoppingmall/internal/storage"

	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB, *storage.LocalStorage) {
	t.Helper()
	db := setupServiceTestDB(t)
	uploads, store := newTestUploads(t)
	svc := NewProductService(ProductServiceDeps{
		ProductRepo:  repository.NewProductRepository(db),
		VariantRepo:  repository.NewProductVariantRepository(db),
		ImageRepo:    repository.NewProductImageRepository(db),
		AdRepo:       repository.NewAdvertisementRepository(db),
		CommentRepo:  repository.NewProductCommentRepository(db),
		CategoryRepo: repository.NewCategoryRepository(db),
		UserRepo:     repository.NewUserRepository(db),
		CascadeRepo:  repository.NewCascadeRepository(db),
		Uploads:      uploads,
		Cleaner:      NewFileCleaner(store, nil),
	})
	return svc, db, store
}

func TestListMallPriceAggregation(t *testing.T) {
	svc, db, _ := setupProductServiceTest(t)
	priced, _ := createTestProduct(t, db, "显示器", true, true, 1299.5, 999, 1500)
	bare, _ := createTestProduct(t, db, "支架", true, true)
	createTestProduct(t, db, "停售机型", false, true, 10)

	listing, err := svc.ListMall(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list mall failed: %v", err)
	}
	if listing.Total != 2 || len(listing.Items) != 2 {
		t.Fatalf("active products want 2 got total=%d items=%d", listing.Total, len(listing.Items))
	}
	byID := map[uint]ProductListItem{}
	for _, item := range listing.Items {
		byID[item.ID] = item
	}
	if got := byID[priced.ID].Price; got == nil || got.String() != "999.00" {
		t.Fatalf("min price want 999.00 got %v", got)
	}
	if got := byID[bare.ID].Price; got != nil {
		t.Fatalf("product without variants should have nil price, got %v", got)
	}
	if byID[priced.ID].Surface == "" {
		t.Fatalf("surface should be populated")
	}
}

func TestListMallMissingSurface(t *testing.T) {
	svc, db, _ := setupProductServiceTest(t)
	createTestProduct(t, db, "无封面", true, false, 10)

	if _, err := svc.ListMall(context.Background(), 0, 0); !errors.Is(err, ErrSurfaceNotFound) {
		t.Fatalf("missing surface want ErrSurfaceNotFound got %v", err)
	}
}

func TestGetDetailAssemblesCounters(t *testing.T) {
	svc, db, _ := setupProductServiceTest(t)
	buyer := createTestUser(t, db, "buyer")
	product, variants := createTestProduct(t, db, "相机", true, true, 3000, 3500)
	address := createTestAddress(t, db, buyer.ID)

	received := createTestOrder(t, db, buyer.ID, address.ID, variants[0].ID, constants.OrderStatusReceived)
	refunded := createTestOrder(t, db, buyer.ID, address.ID, variants[1].ID, constants.OrderStatusAfterSale)
	if err := db.Model(refunded).Update("quantity", 5).Error; err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	comments := []models.ProductComment{
		{OrderID: received.ID, ProductID: product.ID, UserID: buyer.ID, Content: "不错", Star: 4.5},
		{OrderID: refunded.ID, ProductID: product.ID, UserID: buyer.ID, Content: "一般", Star: 2},
	}
	if err := db.Create(&comments).Error; err != nil {
		t.Fatalf("create comments failed: %v", err)
	}

	detail, err := svc.GetDetail(product.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if detail.SalesNum != 1 {
		t.Fatalf("sales_num should exclude after_sale orders, want 1 got %d", detail.SalesNum)
	}
	if detail.CommentNum != 2 || len(detail.Comments) != 2 {
		t.Fatalf("comment_num want 2 got %d", detail.CommentNum)
	}
	if detail.Comments[0].Star != 2 || detail.Comments[0].User == nil || detail.Comments[0].User.Name != "buyer" {
		t.Fatalf("comments should be ordered by star ascending with user, got %+v", detail.Comments[0])
	}
	if len(detail.SubProduce) != 2 || detail.SubProduce[0].Order != 1 {
		t.Fatalf("sub_produce should be ordered by slot, got %+v", detail.SubProduce)
	}

	inactive, _ := createTestProduct(t, db, "下架", false, true, 1)
	if _, err := svc.GetDetail(inactive.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive product want ErrNotFound got %v", err)
	}
}

func TestCategoryProductsAndCategoryRules(t *testing.T) {
	svc, db, _ := setupProductServiceTest(t)
	categories := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	if _, err := categories.Create(ctx, "家电"); err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if _, err := categories.Create(ctx, "家电"); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("duplicate category want ErrCategoryExists got %v", err)
	}
	inactive := false
	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "冰箱", Category: "家电", IsActive: &inactive}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "洗衣机", Category: "不存在"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown category want ErrValidation got %v", err)
	}

	result, err := svc.GetCategoryProducts(ctx, "家电")
	if err != nil {
		t.Fatalf("category products failed: %v", err)
	}
	if result.Name != "家电" || len(result.Produces) != 0 {
		t.Fatalf("inactive product should be hidden, got %+v", result)
	}
	if err := categories.Delete(ctx, "家电"); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("category in use want ErrCategoryInUse got %v", err)
	}
	if _, err := svc.GetCategoryProducts(ctx, "不存在"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown category want ErrNotFound got %v", err)
	}
}

func TestVariantConflicts(t *testing.T) {
	svc, db, _ := setupProductServiceTest(t)
	product, _ := createTestProduct(t, db, "手机", true, true)
	ctx := context.Background()

	if _, err := svc.CreateVariant(ctx, product.ID, VariantInput{ChildName: "128G", Price: testMoney(3999), Order: 1}); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	if _, err := svc.CreateVariant(ctx, product.ID, VariantInput{ChildName: "128G", Price: testMoney(4299), Order: 2}); !errors.Is(err, ErrVariantConflict) {
		t.Fatalf("duplicate name want ErrVariantConflict got %v", err)
	}
	if _, err := svc.CreateVariant(ctx, product.ID, VariantInput{ChildName: "256G", Price: testMoney(4299), Order: 1}); !errors.Is(err, ErrVariantConflict) {
		t.Fatalf("duplicate slot want ErrVariantConflict got %v", err)
	}
	if _, err := svc.CreateVariant(ctx, product.ID, VariantInput{ChildName: "512G", Price: testMoney(0), Order: 3}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero price want ErrValidation got %v", err)
	}
}

func TestProductImagesAndDeleteCascade(t *testing.T) {
	svc, db, store := setupProductServiceTest(t)
	product, variants := createTestProduct(t, db, "音箱", true, false, 299)
	buyer := createTestUser(t, db, "buyer")
	ctx := context.Background()
	files := pngFileHeaders(t, 2)

	surface, err := svc.AddImage(ctx, product.ID, 0, files[0])
	if err != nil {
		t.Fatalf("add image failed: %v", err)
	}
	if surface.OrderNumber != 1 {
		t.Fatalf("first image order want 1 got %d", surface.OrderNumber)
	}
	if _, err := svc.AddImage(ctx, product.ID, 1, files[1]); !errors.Is(err, ErrImageOrderConflict) {
		t.Fatalf("taken order want ErrImageOrderConflict got %v", err)
	}

	address := createTestAddress(t, db, buyer.ID)
	createTestOrder(t, db, buyer.ID, address.ID, variants[0].ID, constants.OrderStatusShipped)
	if err := db.Create(&models.Favorite{UserID: buyer.ID, ProductID: product.ID}).Error; err != nil {
		t.Fatalf("create favorite failed: %v", err)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	var orders, favorites, images int64
	db.Model(&models.Order{}).Where("variant_id = ?", variants[0].ID).Count(&orders)
	db.Model(&models.Favorite{}).Where("product_id = ?", product.ID).Count(&favorites)
	db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&images)
	if orders != 0 || favorites != 0 || images != 0 {
		t.Fatalf("owned rows should be deleted, orders=%d favorites=%d images=%d", orders, favorites, images)
	}
	if _, err := os.Stat(storedPath(store, surface.Image)); !os.IsNotExist(err) {
		t.Fatalf("stored image should be removed, stat err=%v", err)
	}
	if err := svc.DeleteProduct(ctx, product.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete want ErrNotFound got %v", err)
	}
}

func TestProductActivationRequiresSurface(t *testing.T) {
	svc, db, _ := setupProductServiceTest(t)
	ctx := context.Background()
	listed, _ := createTestProduct(t, db, "耳机", true, true, 199)

	active := true
	if _, err := svc.CreateProduct(ctx, ProductInput{Name: "新品", Category: "数码", IsActive: &active}); !errors.Is(err, ErrSurfaceRequired) {
		t.Fatalf("active create without surface want ErrSurfaceRequired got %v", err)
	}
	created, err := svc.CreateProduct(ctx, ProductInput{Name: "新品", Category: "数码"})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if created.IsActive {
		t.Fatalf("new product should start inactive")
	}

	listing, err := svc.ListMall(ctx, 0, 0)
	if err != nil {
		t.Fatalf("mall listing should survive a product without surface: %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0].ID != listed.ID {
		t.Fatalf("listing want only [%d] got %+v", listed.ID, listing.Items)
	}

	if _, err := svc.UpdateProduct(ctx, created.ID, ProductInput{Name: "新品", Category: "数码", IsActive: &active}); !errors.Is(err, ErrSurfaceRequired) {
		t.Fatalf("activate without surface want ErrSurfaceRequired got %v", err)
	}
	if _, err := svc.AddImage(ctx, created.ID, 0, pngFileHeaders(t, 1)[0]); err != nil {
		t.Fatalf("add surface failed: %v", err)
	}
	updated, err := svc.UpdateProduct(ctx, created.ID, ProductInput{Name: "新品", Category: "数码", IsActive: &active})
	if err != nil {
		t.Fatalf("activate with surface failed: %v", err)
	}
	if !updated.IsActive {
		t.Fatalf("product should be active after update")
	}

	if err := svc.DeleteImage(ctx, created.ID, constants.SurfaceOrderNumber); !errors.Is(err, ErrSurfaceRequired) {
		t.Fatalf("deleting surface of active product want ErrSurfaceRequired got %v", err)
	}
	listing, err = svc.ListMall(ctx, 0, 0)
	if err != nil {
		t.Fatalf("mall listing failed: %v", err)
	}
	if len(listing.Items) != 2 {
		t.Fatalf("listing want 2 items got %d", len(listing.Items))
	}

	inactive := false
	if _, err := svc.UpdateProduct(ctx, created.ID, ProductInput{Name: "新品", Category: "数码", IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if err := svc.DeleteImage(ctx, created.ID, constants.SurfaceOrderNumber); err != nil {
		t.Fatalf("deleting surface of inactive product failed: %v", err)
	}
}
