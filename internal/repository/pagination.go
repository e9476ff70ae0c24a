package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，与接口层 page_size 上限一致
const maxPageSize = 100

// findPage 先统计总数再按排序取出当前页。
// pageSize 为 0 时返回全部记录（商城首页与个人帖子的全量列表）；
// 页码超出范围时不再查询，直接返回空页与总数。
// prepare 只作用于取数阶段，用于 Preload 关联。
func findPage[T any](query *gorm.DB, page, pageSize int, order string, prepare ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		offset := (page - 1) * pageSize
		if int64(offset) >= total {
			return items, total, nil
		}
		query = query.Limit(pageSize).Offset(offset)
	}
	for _, fn := range prepare {
		query = fn(query)
	}
	if err := query.Order(order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
