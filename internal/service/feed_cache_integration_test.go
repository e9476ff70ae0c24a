package service

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shoppingmall/internal/cache"
	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/constants"
)

func setupRedisForTest(t *testing.T) {
	t.Helper()
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("skip redis integration test: TEST_REDIS_ADDR is empty")
	}
	host, rawPort, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("invalid TEST_REDIS_ADDR %q: %v", addr, err)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		t.Fatalf("invalid redis port %q: %v", rawPort, err)
	}
	if err := cache.InitRedis(&config.RedisConfig{
		Enabled: true,
		Host:    host,
		Port:    port,
		Prefix:  fmt.Sprintf("mall-test-%d", time.Now().UnixNano()),
	}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	if err := cache.Ping(context.Background()); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}
}

func TestRecommendFeedCacheTracksSocialWrites(t *testing.T) {
	setupRedisForTest(t)
	posts, users, db, _ := setupPostServiceTest(t)
	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	post := createTestPost(t, db, author.ID, "缓存", true)
	ctx := context.Background()

	recommend := func() PostListItem {
		t.Helper()
		listing, err := posts.Recommend(ctx, 0, 0)
		if err != nil {
			t.Fatalf("recommend failed: %v", err)
		}
		if len(listing.Items) != 1 {
			t.Fatalf("recommend want 1 item got %d", len(listing.Items))
		}
		return listing.Items[0]
	}

	if item := recommend(); item.LikeNum != 0 || item.CommentNum != 0 {
		t.Fatalf("fresh feed want zero counters got like=%d comment=%d", item.LikeNum, item.CommentNum)
	}
	if err := posts.Like(ctx, fan.ID, post.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if item := recommend(); item.LikeNum != 1 {
		t.Fatalf("feed after like want like_num=1 got %d", item.LikeNum)
	}
	comment, err := posts.CreateComment(ctx, fan.ID, post.ID, "沙发")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if item := recommend(); item.CommentNum != 1 {
		t.Fatalf("feed after comment want comment_num=1 got %d", item.CommentNum)
	}
	if err := posts.DeleteComment(ctx, fan.ID, comment.ID); err != nil {
		t.Fatalf("delete comment failed: %v", err)
	}
	if err := posts.Unlike(ctx, fan.ID, post.ID); err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if item := recommend(); item.LikeNum != 0 || item.CommentNum != 0 {
		t.Fatalf("feed after undo want zero counters got like=%d comment=%d", item.LikeNum, item.CommentNum)
	}

	phone := "13700000000"
	if _, err := users.UpdateProfile(ctx, author.ID, UpdateProfileInput{Phone: &phone}); err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	hit, err := cache.GetListing(ctx, constants.CacheKeyRecommendFeed, &PostListing{})
	if err != nil {
		t.Fatalf("read feed cache failed: %v", err)
	}
	if hit {
		t.Fatalf("profile update should drop the cached feed")
	}
}
