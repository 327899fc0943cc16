package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/database"
)

// likeDAO 点赞数据访问实现
type likeDAO struct {
	db *database.PostgreSQL
}

// NewLikeDAO 创建点赞DAO实例
func NewLikeDAO(db *database.PostgreSQL) LikeDAO {
	return &likeDAO{db: db}
}

// FindUserLikes 查询用户发出的点赞，按创建时间倒序
func (d *likeDAO) FindUserLikes(ctx context.Context, page model.PageRequest, userID int64, likeType, status string) ([]*model.Like, int64, error) {
	query := d.db.GetDB().WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ?", userID)
	return d.findPage(query, page, likeType, status)
}

// FindAuthorLikes 查询作者作品收到的点赞，按创建时间倒序
func (d *likeDAO) FindAuthorLikes(ctx context.Context, page model.PageRequest, authorID int64, likeType, status string) ([]*model.Like, int64, error) {
	query := d.db.GetDB().WithContext(ctx).Model(&model.Like{}).
		Where("target_author_id = ?", authorID)
	return d.findPage(query, page, likeType, status)
}

// findPage 追加可选过滤条件后分页查询
func (d *likeDAO) findPage(query *gorm.DB, page model.PageRequest, likeType, status string) ([]*model.Like, int64, error) {
	if likeType != "" {
		query = query.Where("like_type = ?", likeType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*model.Like{}, 0, nil
	}

	var likes []*model.Like
	err := query.Order("create_time DESC").Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&likes).Error
	return likes, total, err
}

// CheckLikeStatus 检查用户是否点赞了目标
func (d *likeDAO) CheckLikeStatus(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error) {
	var count int64
	err := d.db.GetDB().WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND like_type = ? AND target_id = ? AND status = ?",
			userID, likeType, targetID, model.LikeStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountTargetLikes 统计目标的有效点赞数
func (d *likeDAO) CountTargetLikes(ctx context.Context, targetID int64, likeType string) (int64, error) {
	var count int64
	err := d.db.GetDB().WithContext(ctx).Model(&model.Like{}).
		Where("target_id = ? AND like_type = ? AND status = ?", targetID, likeType, model.LikeStatusActive).
		Count(&count).Error
	return count, err
}

// GetLike 获取点赞记录（包含已取消的）
func (d *likeDAO) GetLike(ctx context.Context, userID int64, likeType string, targetID int64) (*model.Like, error) {
	var like model.Like
	err := d.db.GetDB().WithContext(ctx).
		Where("user_id = ? AND like_type = ? AND target_id = ?", userID, likeType, targetID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrLikeNotFound
		}
		return nil, err
	}
	return &like, nil
}

// SaveLike 新建点赞或重新激活已取消的点赞，返回状态是否发生变化
func (d *likeDAO) SaveLike(ctx context.Context, like *model.Like) (bool, error) {
	changed := false
	err := d.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Like
		err := tx.Where("user_id = ? AND like_type = ? AND target_id = ?", like.UserID, like.LikeType, like.TargetID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			like.Status = model.LikeStatusActive
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			changed = true
			return nil
		case err != nil:
			return err
		}

		*like = existing
		if existing.Status == model.LikeStatusActive {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&model.Like{}).Where("id = ?", existing.ID).
			Updates(map[string]interface{}{"status": model.LikeStatusActive, "update_time": now}).Error; err != nil {
			return err
		}
		like.Status = model.LikeStatusActive
		like.UpdateTime = &now
		changed = true
		return nil
	})
	return changed, err
}

// CancelLike 取消点赞，返回是否有记录被更新
func (d *likeDAO) CancelLike(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error) {
	result := d.db.GetDB().WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND like_type = ? AND target_id = ? AND status = ?",
			userID, likeType, targetID, model.LikeStatusActive).
		Updates(map[string]interface{}{"status": model.LikeStatusCancelled, "update_time": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
