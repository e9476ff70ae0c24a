package service

import (
	"time"

	"github.com/shoppingmall/internal/models"
)

// VariantView 规格视图，附带所属商品名
type VariantView struct {
	ID          uint         `json:"id"`
	ProduceName string       `json:"produce_name"`
	ChildName   string       `json:"child_name"`
	Price       models.Money `json:"price"`
}

// VariantBrief 商品详情中的规格摘要
type VariantBrief struct {
	ID        uint         `json:"id"`
	ChildName string       `json:"child_name"`
	Price     models.Money `json:"price"`
	Order     int          `json:"order"`
}

// ProductImageView 商品图片视图
type ProductImageView struct {
	OrderNumber int    `json:"order_number"`
	Image       string `json:"image"`
}

// ProductCommentView 商品评价视图
type ProductCommentView struct {
	OrderID        uint       `json:"order_id"`
	User           *UserBrief `json:"user"`
	Content        string     `json:"content"`
	CommentTime    time.Time  `json:"comment_time"`
	CommentLikeNum int        `json:"comment_like_num"`
	Star           float64    `json:"star"`
}

// ProductDetail 商品详情视图
type ProductDetail struct {
	ID         uint                 `json:"id"`
	Name       string               `json:"name"`
	Category   string               `json:"category"`
	SalesNum   int64                `json:"sales_num"`
	CommentNum int64                `json:"comment_num"`
	Images     []ProductImageView   `json:"images"`
	Comments   []ProductCommentView `json:"comments"`
	SubProduce []VariantBrief       `json:"sub_produce"`
}

// ProductListItem 商品列表项，price 为规格最低价，无规格时为 null
type ProductListItem struct {
	ID      uint          `json:"id"`
	Name    string        `json:"name"`
	Price   *models.Money `json:"price"`
	Surface string        `json:"surface"`
}

// CategoryProducts 分类及其上架商品
type CategoryProducts struct {
	Name     string            `json:"name"`
	Produces []ProductListItem `json:"produces"`
}

// AdminProductView 管理端商品视图
type AdminProductView struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Category  string             `json:"category"`
	IsActive  bool               `json:"is_active"`
	Price     *models.Money      `json:"price"`
	Surface   string             `json:"surface"`
	Images    []ProductImageView `json:"images,omitempty"`
	Variants  []VariantBrief     `json:"variants,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// AdvertisementView 广告位视图
type AdvertisementView struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Image     string `json:"image"`
}

func buildVariantView(variant *models.ProductVariant) *VariantView {
	if variant == nil {
		return nil
	}
	view := &VariantView{
		ID:        variant.ID,
		ChildName: variant.ChildName,
		Price:     variant.Price,
	}
	if variant.Product != nil {
		view.ProduceName = variant.Product.Name
	}
	return view
}

func buildVariantBriefs(variants []models.ProductVariant) []VariantBrief {
	result := make([]VariantBrief, 0, len(variants))
	for _, variant := range variants {
		result = append(result, VariantBrief{
			ID:        variant.ID,
			ChildName: variant.ChildName,
			Price:     variant.Price,
			Order:     variant.SlotOrder,
		})
	}
	return result
}

func buildProductImageViews(images []models.ProductImage) []ProductImageView {
	result := make([]ProductImageView, 0, len(images))
	for _, image := range images {
		result = append(result, ProductImageView{OrderNumber: image.OrderNumber, Image: image.Image})
	}
	return result
}

func buildProductCommentViews(comments []models.ProductComment, users map[uint]*UserBrief) []ProductCommentView {
	result := make([]ProductCommentView, 0, len(comments))
	for _, comment := range comments {
		result = append(result, ProductCommentView{
			OrderID:        comment.OrderID,
			User:           users[comment.UserID],
			Content:        comment.Content,
			CommentTime:    comment.CommentTime,
			CommentLikeNum: comment.CommentLikeNum,
			Star:           comment.Star,
		})
	}
	return result
}

func buildAdvertisementViews(ads []models.Advertisement) []AdvertisementView {
	result := make([]AdvertisementView, 0, len(ads))
	for _, ad := range ads {
		result = append(result, AdvertisementView{ID: ad.ID, ProductID: ad.ProductID, Image: ad.Image})
	}
	return result
}

// buildProductListItems 组装商品列表项，任一商品缺少封面图时返回 ErrSurfaceNotFound
func buildProductListItems(products []models.BaseProduct, prices map[uint]models.Money, surfaces map[uint]string) ([]ProductListItem, error) {
	result := make([]ProductListItem, 0, len(products))
	for _, product := range products {
		surface, ok := surfaces[product.ID]
		if !ok {
			return nil, ErrSurfaceNotFound
		}
		item := ProductListItem{ID: product.ID, Name: product.Name, Surface: surface}
		if price, ok := prices[product.ID]; ok {
			p := price
			item.Price = &p
		}
		result = append(result, item)
	}
	return result, nil
}
