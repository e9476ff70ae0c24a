package public

import "github.com/shoppingmall/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器仅用于游客与用户侧 API，管理接口见 admin 包。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
