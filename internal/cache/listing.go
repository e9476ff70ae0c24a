package cache

import (
	"context"
	"time"

	"github.com/shoppingmall/internal/constants"
)

var listingTTL = time.Minute

// SetListingTTL 设置列表缓存时长
func SetListingTTL(ttl time.Duration) {
	if ttl > 0 {
		listingTTL = ttl
	}
}

// GetListing 读取列表缓存
func GetListing(ctx context.Context, key string, dest interface{}) (bool, error) {
	return GetJSON(ctx, key, dest)
}

// SetListing 写入列表缓存
func SetListing(ctx context.Context, key string, value interface{}) error {
	return SetJSON(ctx, key, value, listingTTL)
}

// InvalidateCatalog 商品目录变更后清理商城列表缓存
func InvalidateCatalog(ctx context.Context) error {
	if err := Del(ctx, constants.CacheKeyMallListing); err != nil {
		return err
	}
	return DelByPrefix(ctx, constants.CacheKeyCategoryPrefix)
}

// InvalidateFeed 帖子变更后清理推荐流缓存
func InvalidateFeed(ctx context.Context) error {
	return Del(ctx, constants.CacheKeyRecommendFeed)
}
