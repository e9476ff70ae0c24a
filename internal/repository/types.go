package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryName string
	OnlyActive   bool
}

// PostListFilter 查询帖子列表的过滤条件
type PostListFilter struct {
	Page       int
	PageSize   int
	UserIDs    []uint
	OnlyActive bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Name        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CountByID 分组计数结果
type CountByID struct {
	ID    uint
	Count int64
}

func countsToMap(rows []CountByID) map[uint]int64 {
	result := make(map[uint]int64, len(rows))
	for _, row := range rows {
		result[row.ID] = row.Count
	}
	return result
}
