package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
	"github.com/shoppingmall/internal/storage"

	"gorm.io/gorm"
)

func setupPostServiceTest(t *testing.T) (*PostService, *UserService, *gorm.DB, *storage.LocalStorage) {
	t.Helper()
	db := setupServiceTestDB(t)
	uploads, store := newTestUploads(t)
	cleaner := NewFileCleaner(store, nil)
	posts := NewPostService(PostServiceDeps{
		PostRepo:    repository.NewPostRepository(db),
		ImageRepo:   repository.NewPostImageRepository(db),
		CommentRepo: repository.NewPostCommentRepository(db),
		LikeRepo:    repository.NewPostLikeRepository(db),
		UserRepo:    repository.NewUserRepository(db),
		FanRepo:     repository.NewFanRepository(db),
		CascadeRepo: repository.NewCascadeRepository(db),
		Uploads:     uploads,
		Cleaner:     cleaner,
	})
	users := NewUserService(
		repository.NewUserRepository(db),
		repository.NewFanRepository(db),
		repository.NewCascadeRepository(db),
		uploads,
		cleaner,
		nil,
	)
	return posts, users, db, store
}

func TestCreatePostImageCount(t *testing.T) {
	svc, _, db, _ := setupPostServiceTest(t)
	author := createTestUser(t, db, "author")
	ctx := context.Background()

	if _, err := svc.Create(ctx, author.ID, CreatePostInput{Title: "空图", Content: "正文"}); !errors.Is(err, ErrPostImageCount) {
		t.Fatalf("zero images want ErrPostImageCount got %v", err)
	}
	if _, err := svc.Create(ctx, author.ID, CreatePostInput{Title: "七图", Content: "正文", Images: pngFileHeaders(t, 7)}); !errors.Is(err, ErrPostImageCount) {
		t.Fatalf("seven images want ErrPostImageCount got %v", err)
	}
	if _, err := svc.Create(ctx, author.ID, CreatePostInput{Content: "正文", Images: pngFileHeaders(t, 1)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing title want ErrValidation got %v", err)
	}
	var count int64
	db.Model(&models.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected posts should not be stored, got %d", count)
	}
}

func TestCreatePostNumbersImages(t *testing.T) {
	svc, _, db, store := setupPostServiceTest(t)
	author := createTestUser(t, db, "author")
	ctx := context.Background()

	detail, err := svc.Create(ctx, author.ID, CreatePostInput{Title: "周末", Content: "出去玩", Images: pngFileHeaders(t, 3)})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if len(detail.Images) != 3 {
		t.Fatalf("images want 3 got %d", len(detail.Images))
	}
	for i, image := range detail.Images {
		if image.OrderNumber != i+1 {
			t.Fatalf("image %d order want %d got %d", i, i+1, image.OrderNumber)
		}
		if _, err := os.Stat(storedPath(store, image.Image)); err != nil {
			t.Fatalf("image should be stored: %v", err)
		}
	}

	listing, err := svc.Recommend(ctx, 0, 0)
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0].Surface != detail.Images[0].Image {
		t.Fatalf("surface should be image #1, got %+v", listing.Items)
	}
	if listing.Items[0].User == nil || listing.Items[0].User.Name != "author" {
		t.Fatalf("list item should embed author")
	}

	if err := svc.Delete(ctx, author.ID, detail.ID); err != nil {
		t.Fatalf("delete post failed: %v", err)
	}
	for _, image := range detail.Images {
		if _, err := os.Stat(storedPath(store, image.Image)); !os.IsNotExist(err) {
			t.Fatalf("image should be removed after delete, stat err=%v", err)
		}
	}
}

func TestSubscribeFeed(t *testing.T) {
	svc, users, db, _ := setupPostServiceTest(t)
	reader := createTestUser(t, db, "reader")
	writer := createTestUser(t, db, "writer")
	stranger := createTestUser(t, db, "stranger")
	createTestPost(t, db, stranger.ID, "陌生人", true)

	if err := users.Follow(reader.ID, writer.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	post := createTestPost(t, db, writer.ID, "新帖", true)

	feed, err := svc.Subscribe(reader.ID)
	if err != nil {
		t.Fatalf("subscribe feed failed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != post.ID {
		t.Fatalf("feed want [%d] got %+v", post.ID, feed)
	}

	inactive := false
	if _, err := svc.Update(context.Background(), writer.ID, post.ID, UpdatePostInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate post failed: %v", err)
	}
	feed, err = svc.Subscribe(reader.ID)
	if err != nil {
		t.Fatalf("subscribe feed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("inactive post should leave the feed, got %+v", feed)
	}

	mine, err := svc.ListMine(writer.ID)
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if len(mine) != 1 || mine[0].IsActive {
		t.Fatalf("own list should include inactive post, got %+v", mine)
	}
	if _, err := svc.GetDetail(reader.ID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive post for others want ErrNotFound got %v", err)
	}
	if _, err := svc.GetDetail(writer.ID, post.ID); err != nil {
		t.Fatalf("author should still see inactive post: %v", err)
	}
}

func TestPostOwnership(t *testing.T) {
	svc, _, db, _ := setupPostServiceTest(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	post := createTestPost(t, db, author.ID, "原标题", true)
	ctx := context.Background()

	title := "改标题"
	if _, err := svc.Update(ctx, other.ID, post.ID, UpdatePostInput{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update want ErrForbidden got %v", err)
	}
	if err := svc.Delete(ctx, other.ID, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete want ErrForbidden got %v", err)
	}
	updated, err := svc.Update(ctx, author.ID, post.ID, UpdatePostInput{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != title || updated.Content != "正文" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestPostLikesAndComments(t *testing.T) {
	svc, _, db, _ := setupPostServiceTest(t)
	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	post := createTestPost(t, db, author.ID, "点赞", true)
	hidden := createTestPost(t, db, author.ID, "隐藏", false)
	ctx := context.Background()

	if err := svc.Like(ctx, fan.ID, post.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := svc.Like(ctx, fan.ID, post.ID); !errors.Is(err, ErrPostAlreadyLiked) {
		t.Fatalf("duplicate like want ErrPostAlreadyLiked got %v", err)
	}
	if err := svc.Like(ctx, fan.ID, hidden.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("like inactive post want ErrNotFound got %v", err)
	}
	if err := svc.Like(ctx, 9999, post.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("like by unknown user want ErrUserNotFound got %v", err)
	}

	comment, err := svc.CreateComment(ctx, fan.ID, post.ID, "沙发")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if _, err := svc.CreateComment(ctx, fan.ID, hidden.ID, "看不到"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comment inactive post want ErrNotFound got %v", err)
	}

	detail, err := svc.GetDetail(0, post.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if detail.LikeNum != 1 || detail.CommentNum != 1 || len(detail.Comments) != 1 {
		t.Fatalf("counters want like=1 comment=1 got like=%d comment=%d", detail.LikeNum, detail.CommentNum)
	}

	liked, err := svc.ListLiked(fan.ID)
	if err != nil {
		t.Fatalf("list liked failed: %v", err)
	}
	if len(liked) != 1 || liked[0].ID != post.ID {
		t.Fatalf("liked posts want [%d] got %+v", post.ID, liked)
	}

	if err := svc.DeleteComment(ctx, author.ID, comment.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign comment delete want ErrForbidden got %v", err)
	}
	if err := svc.DeleteComment(ctx, fan.ID, comment.ID); err != nil {
		t.Fatalf("delete comment failed: %v", err)
	}
	if err := svc.Unlike(ctx, fan.ID, post.ID); err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if err := svc.Unlike(ctx, fan.ID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second unlike want ErrNotFound got %v", err)
	}
}
