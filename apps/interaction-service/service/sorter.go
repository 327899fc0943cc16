package service

import (
	"sort"
	"time"

	"collide-social/apps/interaction-service/model"
)

// SortInteractions 按时间字段稳定排序
// 空时间视为最小值：降序时排在末尾，升序时排在开头
func SortInteractions(items []*model.Interaction, orderBy, orderDirection string) {
	pick := func(i *model.Interaction) *time.Time { return i.CreateTime }
	if orderBy == model.OrderByUpdateTime {
		pick = func(i *model.Interaction) *time.Time { return i.UpdateTime }
	}
	desc := orderDirection != model.OrderAsc

	sort.SliceStable(items, func(i, j int) bool {
		c := compareTime(pick(items[i]), pick(items[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

// Paginate 对已排序的完整列表做内存分页
func Paginate(items []*model.Interaction, page, size int) *model.PageResult {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = model.DefaultPageSize
	}

	total := len(items)
	result := &model.PageResult{
		Records:     []*model.Interaction{},
		Total:       int64(total),
		CurrentPage: page,
		PageSize:    size,
		TotalPages:  (total + size - 1) / size,
	}

	if page > result.TotalPages {
		return result
	}
	offset := (page - 1) * size
	end := offset + size
	if end > total {
		end = total
	}
	result.Records = append(result.Records, items[offset:end]...)
	return result
}
