package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shoppingmall/internal/cache"
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"

	"gorm.io/gorm"
)

const (
	productNameMaxLength  = 200
	variantNameMaxLength  = 30
	productImageMaxNumber = 99
)

// ProductService 商城商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	imageRepo    repository.ProductImageRepository
	adRepo       repository.AdvertisementRepository
	commentRepo  repository.ProductCommentRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	cascadeRepo  repository.CascadeRepository
	uploads      *UploadService
	cleaner      *FileCleaner
}

// ProductServiceDeps 商品服务依赖
type ProductServiceDeps struct {
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.ProductVariantRepository
	ImageRepo    repository.ProductImageRepository
	AdRepo       repository.AdvertisementRepository
	CommentRepo  repository.ProductCommentRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	CascadeRepo  repository.CascadeRepository
	Uploads      *UploadService
	Cleaner      *FileCleaner
}

// NewProductService 创建商品服务
func NewProductService(deps ProductServiceDeps) *ProductService {
	return &ProductService{
		productRepo:  deps.ProductRepo,
		variantRepo:  deps.VariantRepo,
		imageRepo:    deps.ImageRepo,
		adRepo:       deps.AdRepo,
		commentRepo:  deps.CommentRepo,
		categoryRepo: deps.CategoryRepo,
		userRepo:     deps.UserRepo,
		cascadeRepo:  deps.CascadeRepo,
		uploads:      deps.Uploads,
		cleaner:      deps.Cleaner,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name     string
	Category string
	IsActive *bool
}

// VariantInput 创建/更新规格输入
type VariantInput struct {
	ChildName string
	Price     models.Money
	Order     int
}

// ProductListing 商城列表结果
type ProductListing struct {
	Items []ProductListItem `json:"items"`
	Total int64             `json:"total"`
}

// ListMall 获取上架商品列表，未分页时读写缓存
func (s *ProductService) ListMall(ctx context.Context, page, pageSize int) (*ProductListing, error) {
	cacheable := pageSize <= 0
	if cacheable {
		var cached ProductListing
		hit, err := cache.GetListing(ctx, constants.CacheKeyMallListing, &cached)
		if err != nil {
			logger.Warnw("mall_listing_cache_read_failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	products, total, err := s.productRepo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	items, err := assembleProductListItems(s.productRepo, s.imageRepo, products)
	if err != nil {
		return nil, err
	}
	listing := &ProductListing{Items: items, Total: total}
	if cacheable {
		if err := cache.SetListing(ctx, constants.CacheKeyMallListing, listing); err != nil {
			logger.Warnw("mall_listing_cache_write_failed", "error", err)
		}
	}
	return listing, nil
}

// GetCategoryProducts 获取分类及其上架商品
func (s *ProductService) GetCategoryProducts(ctx context.Context, name string) (*CategoryProducts, error) {
	name = strings.TrimSpace(name)
	key := constants.CacheKeyCategoryPrefix + name
	var cached CategoryProducts
	hit, err := cache.GetListing(ctx, key, &cached)
	if err != nil {
		logger.Warnw("category_products_cache_read_failed", "category", name, "error", err)
	} else if hit {
		return &cached, nil
	}

	category, err := s.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	products, _, err := s.productRepo.List(repository.ProductListFilter{
		CategoryName: category.Name,
		OnlyActive:   true,
	})
	if err != nil {
		return nil, err
	}
	items, err := assembleProductListItems(s.productRepo, s.imageRepo, products)
	if err != nil {
		return nil, err
	}
	result := &CategoryProducts{Name: category.Name, Produces: items}
	if err := cache.SetListing(ctx, key, result); err != nil {
		logger.Warnw("category_products_cache_write_failed", "category", name, "error", err)
	}
	return result, nil
}

// GetDetail 获取上架商品详情
func (s *ProductService) GetDetail(productID uint) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	ids := []uint{product.ID}
	sales, err := s.productRepo.SalesCounts(ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.productRepo.CommentCounts(ids)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	variants, err := s.variantRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint, 0, len(comments))
	for _, comment := range comments {
		userIDs = append(userIDs, comment.UserID)
	}
	users, err := userBriefLookup(s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{
		ID:         product.ID,
		Name:       product.Name,
		Category:   product.CategoryName,
		SalesNum:   sales[product.ID],
		CommentNum: commentCounts[product.ID],
		Images:     buildProductImageViews(images),
		Comments:   buildProductCommentViews(comments, users),
		SubProduce: buildVariantBriefs(variants),
	}, nil
}

// ListAds 获取广告位
func (s *ProductService) ListAds() ([]AdvertisementView, error) {
	ads, err := s.adRepo.ListActive()
	if err != nil {
		return nil, err
	}
	return buildAdvertisementViews(ads), nil
}

// AdminList 管理端商品列表（含下架）
func (s *ProductService) AdminList(page, pageSize int, categoryName string) ([]AdminProductView, int64, error) {
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryName: strings.TrimSpace(categoryName),
	})
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	prices, err := s.productRepo.MinPrices(ids)
	if err != nil {
		return nil, 0, err
	}
	surfaces, err := s.imageRepo.Surfaces(ids)
	if err != nil {
		return nil, 0, err
	}
	result := make([]AdminProductView, 0, len(products))
	for _, product := range products {
		result = append(result, buildAdminProductView(&product, prices, surfaces))
	}
	return result, total, nil
}

// AdminGet 管理端商品详情，附带图片与规格
func (s *ProductService) AdminGet(productID uint) (*AdminProductView, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	ids := []uint{product.ID}
	prices, err := s.productRepo.MinPrices(ids)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	variants, err := s.variantRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	surfaces := map[uint]string{}
	for _, image := range images {
		if image.OrderNumber == constants.SurfaceOrderNumber {
			surfaces[product.ID] = image.Image
		}
	}
	view := buildAdminProductView(product, prices, surfaces)
	view.Images = buildProductImageViews(images)
	view.Variants = buildVariantBriefs(variants)
	return &view, nil
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*models.BaseProduct, error) {
	if err := s.validateProductInput(&input); err != nil {
		return nil, err
	}
	// 新商品还没有封面图，只能以下架状态创建
	if input.IsActive != nil && *input.IsActive {
		return nil, ErrSurfaceRequired
	}
	product := &models.BaseProduct{
		Name:         input.Name,
		CategoryName: input.Category,
		IsActive:     true,
	}
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		if err := repo.Create(product); err != nil {
			return err
		}
		// is_active 列默认 true，零值需要单独写回
		product.IsActive = false
		return repo.Update(product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(ctx context.Context, productID uint, input ProductInput) (*models.BaseProduct, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if err := s.validateProductInput(&input); err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.CategoryName = input.Category
	if input.IsActive != nil {
		if *input.IsActive && !product.IsActive {
			if err := s.requireSurface(product.ID); err != nil {
				return nil, err
			}
		}
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	invalidateCatalogCache(ctx)
	return product, nil
}

// DeleteProduct 级联删除商品及其规格、订单、评价、图片、收藏与广告
func (s *ProductService) DeleteProduct(ctx context.Context, productID uint) error {
	var files []string
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}
		files, err = s.cascadeRepo.WithTx(tx).DeleteProduct(product.ID)
		return err
	})
	if err != nil {
		return err
	}
	invalidateCatalogCache(ctx)
	s.cleaner.Cleanup(ctx, files, "product_deleted")
	return nil
}

// CreateVariant 为商品新增规格
func (s *ProductService) CreateVariant(ctx context.Context, productID uint, input VariantInput) (*models.ProductVariant, error) {
	if err := validateVariantInput(&input); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	variant := &models.ProductVariant{
		ProductID: product.ID,
		ChildName: input.ChildName,
		Price:     input.Price,
		SlotOrder: input.Order,
	}
	if err := s.variantRepo.Create(variant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrVariantConflict
		}
		return nil, err
	}
	invalidateCatalogCache(ctx)
	return variant, nil
}

// UpdateVariant 更新规格
func (s *ProductService) UpdateVariant(ctx context.Context, variantID uint, input VariantInput) (*models.ProductVariant, error) {
	if err := validateVariantInput(&input); err != nil {
		return nil, err
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrNotFound
	}
	variant.ChildName = input.ChildName
	variant.Price = input.Price
	variant.SlotOrder = input.Order
	variant.UpdatedAt = time.Now()
	variant.Product = nil
	if err := s.variantRepo.Update(variant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrVariantConflict
		}
		return nil, err
	}
	invalidateCatalogCache(ctx)
	return variant, nil
}

// DeleteVariant 删除规格及其订单与购物车项
func (s *ProductService) DeleteVariant(ctx context.Context, variantID uint) error {
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variant, err := s.variantRepo.WithTx(tx).GetByID(variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrNotFound
		}
		return s.cascadeRepo.WithTx(tx).DeleteVariant(variant.ID)
	})
	if err != nil {
		return err
	}
	invalidateCatalogCache(ctx)
	return nil
}

// AddImage 上传商品图片，orderNumber 为 0 时追加到末尾
func (s *ProductService) AddImage(ctx context.Context, productID uint, orderNumber int, file *multipart.FileHeader) (*ProductImageView, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if orderNumber < 0 || orderNumber > productImageMaxNumber {
		return nil, newValidationError("order_number", "range")
	}
	if orderNumber == 0 {
		max, err := s.imageRepo.MaxOrderNumber(product.ID)
		if err != nil {
			return nil, err
		}
		orderNumber = max + 1
	} else {
		existing, err := s.imageRepo.GetByProductAndOrder(product.ID, orderNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrImageOrderConflict
		}
	}

	url, err := s.uploads.SaveImage(ctx, file, constants.UploadSceneProduct)
	if err != nil {
		return nil, err
	}
	image := &models.ProductImage{
		ProductID:   product.ID,
		OrderNumber: orderNumber,
		Image:       url,
		CreatedAt:   time.Now(),
	}
	if err := s.imageRepo.Create(image); err != nil {
		s.uploads.Discard(ctx, []string{url})
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrImageOrderConflict
		}
		return nil, err
	}
	invalidateCatalogCache(ctx)
	return &ProductImageView{OrderNumber: image.OrderNumber, Image: image.Image}, nil
}

// DeleteImage 删除商品图片
func (s *ProductService) DeleteImage(ctx context.Context, productID uint, orderNumber int) error {
	image, err := s.imageRepo.GetByProductAndOrder(productID, orderNumber)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrNotFound
	}
	if orderNumber == constants.SurfaceOrderNumber {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return err
		}
		if product != nil && product.IsActive {
			return ErrSurfaceRequired
		}
	}
	if err := s.imageRepo.Delete(image.ID); err != nil {
		return err
	}
	invalidateCatalogCache(ctx)
	s.cleaner.Cleanup(ctx, []string{image.Image}, "product_image_deleted")
	return nil
}

// requireSurface 上架前确认商品已有 1 号封面图
func (s *ProductService) requireSurface(productID uint) error {
	surface, err := s.imageRepo.GetByProductAndOrder(productID, constants.SurfaceOrderNumber)
	if err != nil {
		return err
	}
	if surface == nil {
		return ErrSurfaceRequired
	}
	return nil
}

// CreateAd 上传广告图
func (s *ProductService) CreateAd(ctx context.Context, productID uint, file *multipart.FileHeader) (*AdvertisementView, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	url, err := s.uploads.SaveImage(ctx, file, constants.UploadSceneAd)
	if err != nil {
		return nil, err
	}
	ad := &models.Advertisement{ProductID: product.ID, Image: url, CreatedAt: time.Now()}
	if err := s.adRepo.Create(ad); err != nil {
		s.uploads.Discard(ctx, []string{url})
		return nil, err
	}
	return &AdvertisementView{ID: ad.ID, ProductID: ad.ProductID, Image: ad.Image}, nil
}

// DeleteAd 删除广告
func (s *ProductService) DeleteAd(ctx context.Context, adID uint) error {
	ad, err := s.adRepo.GetByID(adID)
	if err != nil {
		return err
	}
	if ad == nil {
		return ErrNotFound
	}
	if err := s.adRepo.Delete(ad.ID); err != nil {
		return err
	}
	s.cleaner.Cleanup(ctx, []string{ad.Image}, "ad_deleted")
	return nil
}

func (s *ProductService) validateProductInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return newValidationError("name", "required")
	}
	if len([]rune(input.Name)) > productNameMaxLength {
		return newValidationError("name", "max")
	}
	if input.Category == "" {
		return newValidationError("category", "required")
	}
	category, err := s.categoryRepo.GetByName(input.Category)
	if err != nil {
		return err
	}
	if category == nil {
		return newValidationError("category", "exists")
	}
	return nil
}

func validateVariantInput(input *VariantInput) error {
	input.ChildName = strings.TrimSpace(input.ChildName)
	if input.ChildName == "" {
		return newValidationError("child_name", "required")
	}
	if len([]rune(input.ChildName)) > variantNameMaxLength {
		return newValidationError("child_name", "max")
	}
	if !input.Price.Decimal.IsPositive() {
		return newValidationError("price", "gt")
	}
	if input.Order < 0 {
		return newValidationError("order", "gte")
	}
	input.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	return nil
}

// assembleProductListItems 批量查询最低价与封面图并组装列表项
func assembleProductListItems(productRepo repository.ProductRepository, imageRepo repository.ProductImageRepository, products []models.BaseProduct) ([]ProductListItem, error) {
	if len(products) == 0 {
		return []ProductListItem{}, nil
	}
	ids := make([]uint, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	prices, err := productRepo.MinPrices(ids)
	if err != nil {
		return nil, err
	}
	surfaces, err := imageRepo.Surfaces(ids)
	if err != nil {
		return nil, err
	}
	return buildProductListItems(products, prices, surfaces)
}

func buildAdminProductView(product *models.BaseProduct, prices map[uint]models.Money, surfaces map[uint]string) AdminProductView {
	view := AdminProductView{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.CategoryName,
		IsActive:  product.IsActive,
		Surface:   surfaces[product.ID],
		CreatedAt: product.CreatedAt,
	}
	if price, ok := prices[product.ID]; ok {
		p := price
		view.Price = &p
	}
	return view
}

func invalidateCatalogCache(ctx context.Context) {
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func invalidateFeedCache(ctx context.Context) {
	if err := cache.InvalidateFeed(ctx); err != nil {
		logger.Warnw("feed_cache_invalidate_failed", "error", err)
	}
}
