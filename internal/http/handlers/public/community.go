package public

import (
	handlershared "github.com/shoppingmall/internal/http/handlers/shared"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/service"

	"github.com/gin-gonic/gin"
)

const postImagesFormField = "images"

// UpdatePostRequest 更新帖子请求
type UpdatePostRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=20"`
	Content  *string `json:"content"`
	IsActive *bool   `json:"is_active"`
}

// CreatePostCommentRequest 帖子评论请求
type CreatePostCommentRequest struct {
	PostID  uint   `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// LikePostRequest 帖子点赞请求
type LikePostRequest struct {
	PostID uint `json:"post_id" binding:"required"`
}

// GetRecommendPosts 推荐流，带 page_size 时分页返回
func (h *Handler) GetRecommendPosts(c *gin.Context) {
	page, pageSize, ok := handlershared.ParseOptionalPagination(c)
	if !ok {
		return
	}
	listing, err := h.PostService.Recommend(c.Request.Context(), page, pageSize)
	if err != nil {
		respondPostError(c, err, "error.query_failed")
		return
	}
	if pageSize > 0 {
		response.SuccessWithPage(c, listing.Items, response.NewPagination(page, pageSize, listing.Total))
		return
	}
	response.Success(c, listing.Items)
}

// GetPostDetail 帖子详情，未上架帖子仅作者可见
func (h *Handler) GetPostDetail(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.PostService.GetDetail(getViewerID(c), postID)
	if err != nil {
		respondPostError(c, err, "error.query_failed")
		return
	}
	response.Success(c, detail)
}

// GetSubscribedPosts 关注流
func (h *Handler) GetSubscribedPosts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	posts, err := h.PostService.Subscribe(uid)
	if err != nil {
		respondPostError(c, err, "error.query_failed")
		return
	}
	response.Success(c, posts)
}

// CreatePost 发布帖子（multipart：title、content、images）
func (h *Handler) CreatePost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	input := service.CreatePostInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Images:  form.File[postImagesFormField],
	}
	detail, err := h.PostService.Create(c.Request.Context(), uid, input)
	if err != nil {
		respondPostError(c, err, "error.save_failed")
		return
	}
	response.Success(c, detail)
}

// UpdatePost 作者更新帖子
func (h *Handler) UpdatePost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	detail, err := h.PostService.Update(c.Request.Context(), uid, postID, service.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondPostError(c, err, "error.save_failed")
		return
	}
	response.Success(c, detail)
}

// DeletePost 作者删除帖子
func (h *Handler) DeletePost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PostService.Delete(c.Request.Context(), uid, postID); err != nil {
		respondPostError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// CreatePostComment 发表帖子评论
func (h *Handler) CreatePostComment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreatePostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	comment, err := h.PostService.CreateComment(c.Request.Context(), uid, req.PostID, req.Content)
	if err != nil {
		respondPostError(c, err, "error.save_failed")
		return
	}
	response.Success(c, comment)
}

// DeletePostComment 删除本人的帖子评论
func (h *Handler) DeletePostComment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PostService.DeleteComment(c.Request.Context(), uid, commentID); err != nil {
		respondWithMappedError(c, err, commentNotFoundErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// LikePost 帖子点赞
func (h *Handler) LikePost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req LikePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.PostService.Like(c.Request.Context(), uid, req.PostID); err != nil {
		respondPostError(c, err, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"liked": true})
}

// UnlikePost 取消点赞
func (h *Handler) UnlikePost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PostService.Unlike(c.Request.Context(), uid, postID); err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.post_like_not_found"},
		}, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"liked": false})
}

// GetMyPosts 本人帖子（含未上架）
func (h *Handler) GetMyPosts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	posts, err := h.PostService.ListMine(uid)
	if err != nil {
		respondPostError(c, err, "error.query_failed")
		return
	}
	response.Success(c, posts)
}

// GetMyLikedPosts 本人点赞过的帖子
func (h *Handler) GetMyLikedPosts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	posts, err := h.PostService.ListLiked(uid)
	if err != nil {
		respondPostError(c, err, "error.query_failed")
		return
	}
	response.Success(c, posts)
}
