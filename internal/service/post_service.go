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
	postTitleMaxLength   = 20
	postCommentMaxLength = 500
)

// PostService 社区帖子服务
type PostService struct {
	postRepo    repository.PostRepository
	imageRepo   repository.PostImageRepository
	commentRepo repository.PostCommentRepository
	likeRepo    repository.PostLikeRepository
	userRepo    repository.UserRepository
	fanRepo     repository.FanRepository
	cascadeRepo repository.CascadeRepository
	uploads     *UploadService
	cleaner     *FileCleaner
	assembler   postAssembler
}

// PostServiceDeps 帖子服务依赖
type PostServiceDeps struct {
	PostRepo    repository.PostRepository
	ImageRepo   repository.PostImageRepository
	CommentRepo repository.PostCommentRepository
	LikeRepo    repository.PostLikeRepository
	UserRepo    repository.UserRepository
	FanRepo     repository.FanRepository
	CascadeRepo repository.CascadeRepository
	Uploads     *UploadService
	Cleaner     *FileCleaner
}

// NewPostService 创建帖子服务
func NewPostService(deps PostServiceDeps) *PostService {
	return &PostService{
		postRepo:    deps.PostRepo,
		imageRepo:   deps.ImageRepo,
		commentRepo: deps.CommentRepo,
		likeRepo:    deps.LikeRepo,
		userRepo:    deps.UserRepo,
		fanRepo:     deps.FanRepo,
		cascadeRepo: deps.CascadeRepo,
		uploads:     deps.Uploads,
		cleaner:     deps.Cleaner,
		assembler: postAssembler{
			userRepo:    deps.UserRepo,
			postRepo:    deps.PostRepo,
			imageRepo:   deps.ImageRepo,
			commentRepo: deps.CommentRepo,
		},
	}
}

// CreatePostInput 发帖输入
type CreatePostInput struct {
	Title   string
	Content string
	Images  []*multipart.FileHeader
}

// UpdatePostInput 更新帖子输入
type UpdatePostInput struct {
	Title    *string
	Content  *string
	IsActive *bool
}

// PostListing 帖子列表结果
type PostListing struct {
	Items []PostListItem `json:"items"`
	Total int64          `json:"total"`
}

// Create 发布帖子，图片按上传顺序编号 1..N
func (s *PostService) Create(ctx context.Context, userID uint, input CreatePostInput) (*PostDetail, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if err := validatePostText(title, content); err != nil {
		return nil, err
	}
	if len(input.Images) < constants.PostImageMinCount || len(input.Images) > constants.PostImageMaxCount {
		return nil, ErrPostImageCount
	}
	for _, file := range input.Images {
		if file == nil || file.Size <= 0 {
			return nil, ErrEmptyUpload
		}
	}
	if _, err := s.requireUser(userID); err != nil {
		return nil, err
	}

	urls, err := s.uploads.SaveImages(ctx, input.Images, constants.UploadScenePost)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		post = &models.Post{
			UserID:    userID,
			Title:     title,
			Content:   content,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.postRepo.WithTx(tx).Create(post); err != nil {
			return err
		}
		images := make([]models.PostImage, 0, len(urls))
		for i, url := range urls {
			images = append(images, models.PostImage{
				PostID:      post.ID,
				OrderNumber: i + 1,
				Image:       url,
				CreatedAt:   now,
			})
		}
		return s.imageRepo.WithTx(tx).CreateBatch(images)
	})
	if err != nil {
		s.uploads.Discard(ctx, urls)
		return nil, err
	}
	invalidateFeedCache(ctx)
	return s.assembler.detail(post)
}

// Update 作者更新帖子
func (s *PostService) Update(ctx context.Context, userID, postID uint, input UpdatePostInput) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}
	if input.Title == nil && input.Content == nil && input.IsActive == nil {
		return nil, newValidationError("title", "required")
	}
	title := post.Title
	content := post.Content
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		content = strings.TrimSpace(*input.Content)
	}
	if err := validatePostText(title, content); err != nil {
		return nil, err
	}
	post.Title = title
	post.Content = content
	if input.IsActive != nil {
		post.IsActive = *input.IsActive
	}
	post.UpdatedAt = time.Now()
	post.User = nil
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	invalidateFeedCache(ctx)
	return s.assembler.detail(post)
}

// Delete 作者删除帖子及其图片、评论、点赞
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	var files []string
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.postRepo.WithTx(tx).GetByID(postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}
		if post.UserID != userID {
			return ErrForbidden
		}
		files, err = s.cascadeRepo.WithTx(tx).DeletePost(post.ID)
		return err
	})
	if err != nil {
		return err
	}
	invalidateFeedCache(ctx)
	s.cleaner.Cleanup(ctx, files, "post_deleted")
	return nil
}

// GetDetail 获取帖子详情，未公开的帖子仅作者可见
func (s *PostService) GetDetail(viewerID, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil || (!post.IsActive && (viewerID == 0 || post.UserID != viewerID)) {
		return nil, ErrNotFound
	}
	return s.assembler.detail(post)
}

// Recommend 推荐流：全部可见帖子，未分页时读写缓存
func (s *PostService) Recommend(ctx context.Context, page, pageSize int) (*PostListing, error) {
	cacheable := pageSize <= 0
	if cacheable {
		var cached PostListing
		hit, err := cache.GetListing(ctx, constants.CacheKeyRecommendFeed, &cached)
		if err != nil {
			logger.Warnw("recommend_feed_cache_read_failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}
	posts, total, err := s.postRepo.List(repository.PostListFilter{
		Page:       page,
		PageSize:   pageSize,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	items, err := s.assembler.listItems(posts)
	if err != nil {
		return nil, err
	}
	listing := &PostListing{Items: items, Total: total}
	if cacheable {
		if err := cache.SetListing(ctx, constants.CacheKeyRecommendFeed, listing); err != nil {
			logger.Warnw("recommend_feed_cache_write_failed", "error", err)
		}
	}
	return listing, nil
}

// Subscribe 关注流：关注用户的可见帖子
func (s *PostService) Subscribe(userID uint) ([]PostListItem, error) {
	followed, err := s.fanRepo.ListFollowedIDs(userID)
	if err != nil {
		return nil, err
	}
	if followed == nil {
		followed = []uint{}
	}
	posts, _, err := s.postRepo.List(repository.PostListFilter{
		UserIDs:    followed,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	return s.assembler.listItems(posts)
}

// ListByUser 获取指定用户的可见帖子
func (s *PostService) ListByUser(userID uint) ([]PostListItem, error) {
	if _, err := s.requireUser(userID); err != nil {
		return nil, err
	}
	posts, _, err := s.postRepo.List(repository.PostListFilter{
		UserIDs:    []uint{userID},
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	return s.assembler.listItems(posts)
}

// ListMine 获取本人全部帖子（含未公开）
func (s *PostService) ListMine(userID uint) ([]PostListItem, error) {
	posts, _, err := s.postRepo.List(repository.PostListFilter{
		UserIDs: []uint{userID},
	})
	if err != nil {
		return nil, err
	}
	return s.assembler.listItems(posts)
}

// ListLiked 获取本人点赞过的可见帖子
func (s *PostService) ListLiked(userID uint) ([]PostListItem, error) {
	posts, err := s.postRepo.ListLikedByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.assembler.listItems(posts)
}

// CreateComment 评论可见帖子
func (s *PostService) CreateComment(ctx context.Context, userID, postID uint, content string) (*PostCommentView, error) {
	if postID == 0 {
		return nil, newValidationError("post_id", "required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, newValidationError("content", "required")
	}
	if len([]rune(content)) > postCommentMaxLength {
		return nil, newValidationError("content", "max")
	}
	user, err := s.requireUser(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireActivePost(postID); err != nil {
		return nil, err
	}
	comment := &models.PostComment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	invalidateFeedCache(ctx)
	return &PostCommentView{
		ID:        comment.ID,
		User:      buildUserBrief(user),
		Content:   comment.Content,
		Timestamp: comment.CreatedAt,
	}, nil
}

// DeleteComment 删除本人评论
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return err
	}
	invalidateFeedCache(ctx)
	return nil
}

// Like 点赞帖子，重复点赞返回冲突
func (s *PostService) Like(ctx context.Context, userID, postID uint) error {
	if postID == 0 {
		return newValidationError("post_id", "required")
	}
	if _, err := s.requireUser(userID); err != nil {
		return err
	}
	if _, err := s.requireActivePost(postID); err != nil {
		return err
	}
	err := s.likeRepo.Create(&models.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now()})
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrPostAlreadyLiked
	}
	if err != nil {
		return err
	}
	invalidateFeedCache(ctx)
	return nil
}

// Unlike 取消点赞
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) error {
	affected, err := s.likeRepo.Delete(postID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	invalidateFeedCache(ctx)
	return nil
}

func (s *PostService) requireUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *PostService) requireActivePost(postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsActive {
		return nil, ErrNotFound
	}
	return post, nil
}

func validatePostText(title, content string) error {
	if title == "" {
		return newValidationError("title", "required")
	}
	if len([]rune(title)) > postTitleMaxLength {
		return newValidationError("title", "max")
	}
	if content == "" {
		return newValidationError("content", "required")
	}
	return nil
}
