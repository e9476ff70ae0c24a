package service

import (
	"time"

	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

// PostListItem 帖子列表项
type PostListItem struct {
	ID         uint       `json:"id"`
	User       *UserBrief `json:"user"`
	Title      string     `json:"title"`
	LikeNum    int64      `json:"like_num"`
	CommentNum int64      `json:"comment_num"`
	Content    string     `json:"content"`
	Surface    string     `json:"surface"`
	IsActive   bool       `json:"is_active"`
	Timestamp  time.Time  `json:"timestamp"`
}

// PostImageView 帖子图片视图
type PostImageView struct {
	OrderNumber int    `json:"order_number"`
	Image       string `json:"image"`
}

// PostCommentView 帖子评论视图
type PostCommentView struct {
	ID        uint       `json:"id"`
	User      *UserBrief `json:"user"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
}

// PostDetail 帖子详情视图
type PostDetail struct {
	ID         uint              `json:"id"`
	User       *UserBrief        `json:"user"`
	Title      string            `json:"title"`
	LikeNum    int64             `json:"like_num"`
	CommentNum int64             `json:"comment_num"`
	Content    string            `json:"content"`
	IsActive   bool              `json:"is_active"`
	Timestamp  time.Time         `json:"timestamp"`
	Images     []PostImageView   `json:"images"`
	Comments   []PostCommentView `json:"comments"`
}

// postAssembler 批量组装帖子视图所需的仓库集合
type postAssembler struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	imageRepo   repository.PostImageRepository
	commentRepo repository.PostCommentRepository
}

// listItems 组装帖子列表，计数与封面图均按批查询
func (a postAssembler) listItems(posts []models.Post) ([]PostListItem, error) {
	result := make([]PostListItem, 0, len(posts))
	if len(posts) == 0 {
		return result, nil
	}
	postIDs := make([]uint, 0, len(posts))
	userIDs := make([]uint, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
		userIDs = append(userIDs, post.UserID)
	}
	likes, err := a.postRepo.LikeCounts(postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := a.postRepo.CommentCounts(postIDs)
	if err != nil {
		return nil, err
	}
	surfaces, err := a.imageRepo.Surfaces(postIDs)
	if err != nil {
		return nil, err
	}
	users, err := userBriefLookup(a.userRepo, userIDs)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		surface, ok := surfaces[post.ID]
		if !ok {
			return nil, ErrSurfaceNotFound
		}
		result = append(result, PostListItem{
			ID:         post.ID,
			User:       users[post.UserID],
			Title:      post.Title,
			LikeNum:    likes[post.ID],
			CommentNum: comments[post.ID],
			Content:    post.Content,
			Surface:    surface,
			IsActive:   post.IsActive,
			Timestamp:  post.CreatedAt,
		})
	}
	return result, nil
}

// detail 组装帖子详情
func (a postAssembler) detail(post *models.Post) (*PostDetail, error) {
	ids := []uint{post.ID}
	likes, err := a.postRepo.LikeCounts(ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := a.postRepo.CommentCounts(ids)
	if err != nil {
		return nil, err
	}
	images, err := a.imageRepo.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := a.commentRepo.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}
	userIDs := []uint{post.UserID}
	for _, comment := range comments {
		userIDs = append(userIDs, comment.UserID)
	}
	users, err := userBriefLookup(a.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{
		ID:         post.ID,
		User:       users[post.UserID],
		Title:      post.Title,
		LikeNum:    likes[post.ID],
		CommentNum: commentCounts[post.ID],
		Content:    post.Content,
		IsActive:   post.IsActive,
		Timestamp:  post.CreatedAt,
		Images:     make([]PostImageView, 0, len(images)),
		Comments:   make([]PostCommentView, 0, len(comments)),
	}
	for _, image := range images {
		detail.Images = append(detail.Images, PostImageView{OrderNumber: image.OrderNumber, Image: image.Image})
	}
	for _, comment := range comments {
		detail.Comments = append(detail.Comments, PostCommentView{
			ID:        comment.ID,
			User:      users[comment.UserID],
			Content:   comment.Content,
			Timestamp: comment.CreatedAt,
		})
	}
	return detail, nil
}
