package dao

import (
	"context"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/database"
)

// followDAO 关注关系数据访问实现
type followDAO struct {
	db *database.PostgreSQL
}

// NewFollowDAO 创建关注DAO实例
func NewFollowDAO(db *database.PostgreSQL) FollowDAO {
	return &followDAO{db: db}
}

// CheckFollowStatus 检查followerID是否关注了followeeID
func (d *followDAO) CheckFollowStatus(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var count int64
	err := d.db.GetDB().WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ? AND status = ?", followerID, followeeID, model.FollowStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
