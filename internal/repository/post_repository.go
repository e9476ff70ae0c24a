package repository

import (
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"

	"gorm.io/gorm"
)

// PostRepository 帖子数据访问接口
type PostRepository interface {
	Create(post *models.Post) error
	Update(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	List(filter PostListFilter) ([]models.Post, int64, error)
	ListLikedByUser(userID uint) ([]models.Post, error)
	LikeCounts(postIDs []uint) (map[uint]int64, error)
	CommentCounts(postIDs []uint) (map[uint]int64, error)
	WithTx(tx *gorm.DB) *GormPostRepository
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建帖子仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostRepository) WithTx(tx *gorm.DB) *GormPostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

// Create 创建帖子
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update 更新帖子
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// GetByID 根据 ID 获取帖子（附带作者）
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	return firstOrNil[models.Post](r.db.Preload("User"), id)
}

func preloadPostUser(query *gorm.DB) *gorm.DB {
	return query.Preload("User")
}

// List 帖子列表，UserIDs 非 nil 时只查询这些作者
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.UserIDs != nil {
		if len(filter.UserIDs) == 0 {
			return []models.Post{}, 0, nil
		}
		query = query.Where("user_id IN ?", filter.UserIDs)
	}

	return findPage[models.Post](query, filter.Page, filter.PageSize, "created_at DESC, id DESC", preloadPostUser)
}

// ListLikedByUser 获取用户点赞过的可见帖子
func (r *GormPostRepository) ListLikedByUser(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Model(&models.Post{}).
		Preload("User").
		Joins("JOIN post_likes ON post_likes.post_id = posts.id").
		Where("post_likes.user_id = ? AND posts.is_active = ?", userID, true).
		Order("post_likes.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// LikeCounts 批量统计帖子点赞数
func (r *GormPostRepository) LikeCounts(postIDs []uint) (map[uint]int64, error) {
	return r.countGrouped(&models.PostLike{}, postIDs)
}

// CommentCounts 批量统计帖子评论数
func (r *GormPostRepository) CommentCounts(postIDs []uint) (map[uint]int64, error) {
	return r.countGrouped(&models.PostComment{}, postIDs)
}

func (r *GormPostRepository) countGrouped(model interface{}, postIDs []uint) (map[uint]int64, error) {
	if len(postIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []CountByID
	err := r.db.Model(model).
		Select("post_id AS id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countsToMap(rows), nil
}

// PostImageRepository 帖子图片数据访问接口
type PostImageRepository interface {
	CreateBatch(images []models.PostImage) error
	ListByPost(postID uint) ([]models.PostImage, error)
	Surfaces(postIDs []uint) (map[uint]string, error)
	WithTx(tx *gorm.DB) *GormPostImageRepository
}

// GormPostImageRepository GORM 实现
type GormPostImageRepository struct {
	db *gorm.DB
}

// NewPostImageRepository 创建帖子图片仓库
func NewPostImageRepository(db *gorm.DB) *GormPostImageRepository {
	return &GormPostImageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostImageRepository) WithTx(tx *gorm.DB) *GormPostImageRepository {
	if tx == nil {
		return r
	}
	return &GormPostImageRepository{db: tx}
}

// CreateBatch 批量写入图片
func (r *GormPostImageRepository) CreateBatch(images []models.PostImage) error {
	if len(images) == 0 {
		return nil
	}
	return normalizeError(r.db.Create(&images).Error)
}

// ListByPost 获取帖子图片，按序号排序
func (r *GormPostImageRepository) ListByPost(postID uint) ([]models.PostImage, error) {
	var images []models.PostImage
	if err := r.db.Where("post_id = ?", postID).Order("order_number ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Surfaces 批量获取帖子封面，没有封面的帖子不出现在结果中
func (r *GormPostImageRepository) Surfaces(postIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	var images []models.PostImage
	err := r.db.Where("post_id IN ? AND order_number = ?", postIDs, constants.SurfaceOrderNumber).Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, image := range images {
		result[image.PostID] = image.Image
	}
	return result, nil
}

// PostCommentRepository 帖子评论数据访问接口
type PostCommentRepository interface {
	Create(comment *models.PostComment) error
	GetByID(id uint) (*models.PostComment, error)
	ListByPost(postID uint) ([]models.PostComment, error)
	Delete(id uint) error
}

// GormPostCommentRepository GORM 实现
type GormPostCommentRepository struct {
	db *gorm.DB
}

// NewPostCommentRepository 创建帖子评论仓库
func NewPostCommentRepository(db *gorm.DB) *GormPostCommentRepository {
	return &GormPostCommentRepository{db: db}
}

// Create 创建评论
func (r *GormPostCommentRepository) Create(comment *models.PostComment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *GormPostCommentRepository) GetByID(id uint) (*models.PostComment, error) {
	return firstOrNil[models.PostComment](r.db, id)
}

// ListByPost 获取帖子评论，按时间升序
func (r *GormPostCommentRepository) ListByPost(postID uint) ([]models.PostComment, error) {
	var comments []models.PostComment
	if err := r.db.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete 删除评论
func (r *GormPostCommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.PostComment{}, id).Error
}

// PostLikeRepository 帖子点赞数据访问接口
type PostLikeRepository interface {
	Create(like *models.PostLike) error
	Delete(postID, userID uint) (int64, error)
}

// GormPostLikeRepository GORM 实现
type GormPostLikeRepository struct {
	db *gorm.DB
}

// NewPostLikeRepository 创建帖子点赞仓库
func NewPostLikeRepository(db *gorm.DB) *GormPostLikeRepository {
	return &GormPostLikeRepository{db: db}
}

// Create 点赞
func (r *GormPostLikeRepository) Create(like *models.PostLike) error {
	return normalizeError(r.db.Create(like).Error)
}

// Delete 取消点赞
func (r *GormPostLikeRepository) Delete(postID, userID uint) (int64, error) {
	result := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
	return result.RowsAffected, result.Error
}
