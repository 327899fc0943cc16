package dao

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/database"
)

// commentDAO 评论数据访问实现
type commentDAO struct {
	db *database.PostgreSQL
}

// NewCommentDAO 创建评论DAO实例
func NewCommentDAO(db *database.PostgreSQL) CommentDAO {
	return &commentDAO{db: db}
}

// FindUserComments 查询用户发出的评论
func (d *commentDAO) FindUserComments(ctx context.Context, page model.PageRequest, userID int64, commentType, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error) {
	query := d.db.GetDB().WithContext(ctx).Model(&model.Comment{}).
		Where("user_id = ?", userID)
	if commentType != "" {
		query = query.Where("comment_type = ?", commentType)
	}
	return d.findPage(query, page, status, order, includeDeleted)
}

// FindUserReplies 查询回复给用户的评论（不含用户回复自己的）
func (d *commentDAO) FindUserReplies(ctx context.Context, page model.PageRequest, userID int64, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error) {
	query := d.db.GetDB().WithContext(ctx).Model(&model.Comment{}).
		Where("reply_to_user_id = ? AND user_id <> ?", userID, userID)
	return d.findPage(query, page, status, order, includeDeleted)
}

// findPage 追加状态过滤与排序后分页查询
func (d *commentDAO) findPage(query *gorm.DB, page model.PageRequest, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error) {
	if status != "" {
		query = query.Where("status = ?", status)
	} else if !includeDeleted {
		query = query.Where("status <> ?", model.CommentStatusDelete)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*model.Comment{}, 0, nil
	}

	var comments []*model.Comment
	err := query.Order(orderClause(order)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&comments).Error
	return comments, total, err
}

// orderClause 将排序条件映射为白名单内的SQL排序子句
func orderClause(order model.SortOrder) string {
	column := "create_time"
	if order.OrderBy == model.OrderByUpdateTime {
		column = "update_time"
	}
	direction := "DESC"
	if order.Direction == model.OrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}
