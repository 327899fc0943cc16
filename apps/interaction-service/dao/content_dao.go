package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/database"
)

// contentDAO 内容数据访问实现
type contentDAO struct {
	db *database.PostgreSQL
}

// NewContentDAO 创建内容DAO实例
func NewContentDAO(db *database.PostgreSQL) ContentDAO {
	return &contentDAO{db: db}
}

// GetContentSummary 获取内容摘要，不存在时返回 model.ErrContentNotFound
func (d *contentDAO) GetContentSummary(ctx context.Context, contentID int64) (*model.ContentSummary, error) {
	var content model.Content
	err := d.db.GetDB().WithContext(ctx).
		Select("id", "title", "description", "cover_url", "author_id", "author_nickname", "author_avatar").
		Where("id = ?", contentID).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrContentNotFound
		}
		return nil, err
	}

	return &model.ContentSummary{
		ID:             content.ID,
		Title:          content.Title,
		Description:    content.Description,
		CoverURL:       content.CoverURL,
		AuthorID:       content.AuthorID,
		AuthorNickname: content.AuthorNickname,
		AuthorAvatar:   content.AuthorAvatar,
	}, nil
}
