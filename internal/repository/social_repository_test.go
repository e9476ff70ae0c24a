package repository

import (
	"testing"

	"github.com/shoppingmall/internal/models"
)

func TestFanCountsAndLists(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewFanRepository(db)
	alice := createRepoUser(t, db, "alice")
	bob := createRepoUser(t, db, "bob")
	carol := createRepoUser(t, db, "carol")

	for _, fan := range []models.Fan{
		{UserID: alice.ID, FanID: bob.ID},
		{UserID: alice.ID, FanID: carol.ID},
		{UserID: bob.ID, FanID: alice.ID},
	} {
		fan := fan
		if err := repo.Create(&fan); err != nil {
			t.Fatalf("create fan failed: %v", err)
		}
	}
	if err := repo.Create(&models.Fan{UserID: alice.ID, FanID: bob.ID}); !IsDuplicate(err) {
		t.Fatalf("duplicate follow should be rejected, got %v", err)
	}

	fans, err := repo.CountFans([]uint{alice.ID, bob.ID, carol.ID})
	if err != nil {
		t.Fatalf("count fans failed: %v", err)
	}
	if fans[alice.ID] != 2 || fans[bob.ID] != 1 || fans[carol.ID] != 0 {
		t.Fatalf("unexpected fan counts: %+v", fans)
	}
	subs, err := repo.CountSubscriptions([]uint{alice.ID, carol.ID})
	if err != nil {
		t.Fatalf("count subscriptions failed: %v", err)
	}
	if subs[alice.ID] != 1 || subs[carol.ID] != 1 {
		t.Fatalf("unexpected subscription counts: %+v", subs)
	}

	followers, err := repo.ListFans(alice.ID)
	if err != nil {
		t.Fatalf("list fans failed: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("fans want 2 got %d", len(followers))
	}
	followed, err := repo.ListFollowedIDs(carol.ID)
	if err != nil {
		t.Fatalf("list followed ids failed: %v", err)
	}
	if len(followed) != 1 || followed[0] != alice.ID {
		t.Fatalf("followed ids want [%d] got %v", alice.ID, followed)
	}
}

func TestPostLikeUniqueAndCounts(t *testing.T) {
	db := setupRepositoryTestDB(t)
	postRepo := NewPostRepository(db)
	likeRepo := NewPostLikeRepository(db)
	author := createRepoUser(t, db, "author")
	reader := createRepoUser(t, db, "reader")

	post := &models.Post{UserID: author.ID, Title: "标题", Content: "内容", IsActive: true}
	if err := postRepo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := likeRepo.Create(&models.PostLike{PostID: post.ID, UserID: reader.ID}); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := likeRepo.Create(&models.PostLike{PostID: post.ID, UserID: reader.ID}); !IsDuplicate(err) {
		t.Fatalf("duplicate like should be rejected, got %v", err)
	}
	if err := NewPostCommentRepository(db).Create(&models.PostComment{PostID: post.ID, UserID: reader.ID, Content: "好"}); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	likes, err := postRepo.LikeCounts([]uint{post.ID})
	if err != nil {
		t.Fatalf("like counts failed: %v", err)
	}
	if likes[post.ID] != 1 {
		t.Fatalf("like count want 1 got %d", likes[post.ID])
	}
	comments, err := postRepo.CommentCounts([]uint{post.ID})
	if err != nil {
		t.Fatalf("comment counts failed: %v", err)
	}
	if comments[post.ID] != 1 {
		t.Fatalf("comment count want 1 got %d", comments[post.ID])
	}

	liked, err := postRepo.ListLikedByUser(reader.ID)
	if err != nil {
		t.Fatalf("list liked failed: %v", err)
	}
	if len(liked) != 1 || liked[0].ID != post.ID {
		t.Fatalf("liked posts want [%d] got %+v", post.ID, liked)
	}
}

func TestPostListByAuthors(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewPostRepository(db)
	author := createRepoUser(t, db, "writer")
	other := createRepoUser(t, db, "other")
	for _, post := range []*models.Post{
		{UserID: author.ID, Title: "a", Content: "a", IsActive: true},
		{UserID: other.ID, Title: "b", Content: "b", IsActive: true},
	} {
		if err := repo.Create(post); err != nil {
			t.Fatalf("create post failed: %v", err)
		}
	}

	posts, _, err := repo.List(PostListFilter{UserIDs: []uint{author.ID}, OnlyActive: true})
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].UserID != author.ID {
		t.Fatalf("posts by author want 1 got %+v", posts)
	}
	none, total, err := repo.List(PostListFilter{UserIDs: []uint{}, OnlyActive: true})
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if len(none) != 0 || total != 0 {
		t.Fatalf("empty author set should return nothing, got %d", len(none))
	}
}
