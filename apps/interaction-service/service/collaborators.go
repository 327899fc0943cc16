package service

import (
	"context"

	"collide-social/apps/interaction-service/model"
)

// ContentReader 内容摘要读取
type ContentReader interface {
	GetContentSummary(ctx context.Context, contentID int64) (*model.ContentSummary, error)
}

// FollowChecker 关注状态检查
type FollowChecker interface {
	CheckFollowStatus(ctx context.Context, followerID, followeeID int64) (bool, error)
}

// LikeChecker 点赞状态检查
type LikeChecker interface {
	CheckLikeStatus(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error)
}

// LikeCounter 目标点赞数统计
type LikeCounter interface {
	CountTargetLikes(ctx context.Context, targetID int64, likeType string) (int64, error)
}

// LikeRowSource 点赞记录数据源
type LikeRowSource interface {
	FindUserLikes(ctx context.Context, page model.PageRequest, userID int64, likeType, status string) ([]*model.Like, int64, error)
	FindAuthorLikes(ctx context.Context, page model.PageRequest, authorID int64, likeType, status string) ([]*model.Like, int64, error)
}

// CommentRowSource 评论记录数据源
type CommentRowSource interface {
	FindUserComments(ctx context.Context, page model.PageRequest, userID int64, commentType, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error)
	FindUserReplies(ctx context.Context, page model.PageRequest, userID int64, status string, order model.SortOrder, includeDeleted bool) ([]*model.Comment, int64, error)
}

// LikeWriter 点赞写操作
type LikeWriter interface {
	SaveLike(ctx context.Context, like *model.Like) (bool, error)
	CancelLike(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error)
}

// LikeCountInvalidator 点赞数缓存失效
type LikeCountInvalidator interface {
	Invalidate(ctx context.Context, likeType string, targetID int64) error
}

// EventPublisher 事件发布（Kafka生产者）
type EventPublisher interface {
	SendMessage(topic string, key, value []byte) error
}

// Deps 服务依赖，未配置的可选依赖保持nil
type Deps struct {
	Contents   ContentReader
	Follows    FollowChecker
	LikeStatus LikeChecker
	LikeCounts LikeCounter
	Likes      LikeRowSource
	Comments   CommentRowSource

	// 写路径，可选
	LikeWriter  LikeWriter
	CountCache  LikeCountInvalidator
	Events      EventPublisher
	EventsTopic string
}
