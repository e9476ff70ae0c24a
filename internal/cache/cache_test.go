package cache

import (
	"context"
	"testing"

	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	if Client() != nil {
		t.Fatalf("client should be nil when disabled")
	}
	ctx := context.Background()
	if err := SetListing(ctx, "mall:listing", []string{"a"}); err != nil {
		t.Fatalf("set listing should be noop, got %v", err)
	}
	var dest []string
	hit, err := GetListing(ctx, "mall:listing", &dest)
	if err != nil || hit {
		t.Fatalf("get listing want miss got hit=%v err=%v", hit, err)
	}
	if err := InvalidateCatalog(ctx); err != nil {
		t.Fatalf("invalidate should be noop, got %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping should succeed when disabled, got %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	old := redisPrefix
	t.Cleanup(func() { redisPrefix = old })
	redisPrefix = "mall"
	if got := buildKey(" auth:user:1 "); got != "mall:auth:user:1" {
		t.Fatalf("key want mall:auth:user:1 got %s", got)
	}
	if got := buildKey(""); got != "mall" {
		t.Fatalf("key want mall got %s", got)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should build nil state")
	}
	state := BuildUserAuthState(&models.User{ID: 3, Name: "alice", TokenVersion: 2})
	if state.UserID != 3 || state.TokenVersion != 2 || state.Name != "alice" {
		t.Fatalf("unexpected state: %+v", state)
	}
}
