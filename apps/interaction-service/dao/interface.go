package dao

import (
	"context"

	"collide-social/apps/interaction-service/model"
)

// LikeDAO 点赞数据访问接口
type LikeDAO interface {
	// 聚合数据源
	FindUserLikes(ctx context.Context, page model.PageRequest, userID int64, likeType, status string) ([]*model.Like, int64, error)
	FindAuthorLikes(ctx context.Context, page model.PageRequest, authorID int64, likeType, status string) ([]*model.Like, int64, error)

	// 状态与计数
	CheckLikeStatus(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error)
	CountTargetLikes(ctx context.Context, targetID int64, likeType string) (int64, error)

	// 写操作
	GetLike(ctx context.Context, userID int64, likeType string, targetID int64) (*model.Like, error)
	SaveLike(ctx context.Context, like *model.Like) (bool, error)
	CancelLike(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error)
}

// CommentDAO 评论数据访问接口
type CommentDAO interface {
	FindUserComments(ctx context.Context, page model.PageRequest, userID int64, commentType, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error)
	FindUserReplies(ctx context.Context, page model.PageRequest, userID int64, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error)
}

// ContentDAO 内容数据访问接口
type ContentDAO interface {
	GetContentSummary(ctx context.Context, contentID int64) (*model.ContentSummary, error)
}

// FollowDAO 关注关系数据访问接口
type FollowDAO interface {
	CheckFollowStatus(ctx context.Context, followerID, followeeID int64) (bool, error)
}
