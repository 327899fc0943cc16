package model

import (
	"fmt"
	"time"
)

// Like 点赞记录表
type Like struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	LikeType       string     `json:"like_type" gorm:"type:varchar(20);not null;uniqueIndex:uk_user_target,priority:2;index:idx_target,priority:2"`
	TargetID       int64      `json:"target_id" gorm:"not null;uniqueIndex:uk_user_target,priority:3;index:idx_target,priority:1"`
	UserID         int64      `json:"user_id" gorm:"not null;uniqueIndex:uk_user_target,priority:1"`
	TargetTitle    string     `json:"target_title" gorm:"type:varchar(200)"`
	TargetAuthorID int64      `json:"target_author_id" gorm:"index"`
	UserNickname   string     `json:"user_nickname" gorm:"type:varchar(100)"`
	UserAvatar     string     `json:"user_avatar" gorm:"type:varchar(500)"`
	Status         string     `json:"status" gorm:"type:varchar(20);not null;default:active;index"`
	CreateTime     *time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime     *time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

// TableName .
func (Like) TableName() string {
	return "t_like"
}

// Comment 评论表
type Comment struct {
	ID                  int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	CommentType         string     `json:"comment_type" gorm:"type:varchar(20);not null;index:idx_user_type,priority:2"`
	TargetID            int64      `json:"target_id" gorm:"not null;index"`
	ParentCommentID     int64      `json:"parent_comment_id" gorm:"default:0"`
	Content             string     `json:"content" gorm:"type:text"`
	UserID              int64      `json:"user_id" gorm:"not null;index:idx_user_type,priority:1"`
	UserNickname        string     `json:"user_nickname" gorm:"type:varchar(100)"`
	UserAvatar          string     `json:"user_avatar" gorm:"type:varchar(500)"`
	ReplyToUserID       int64      `json:"reply_to_user_id" gorm:"index"`
	ReplyToUserNickname string     `json:"reply_to_user_nickname" gorm:"type:varchar(100)"`
	ReplyToUserAvatar   string     `json:"reply_to_user_avatar" gorm:"type:varchar(500)"`
	Status              string     `json:"status" gorm:"type:varchar(20);not null;default:NORMAL"`
	LikeCount           int64      `json:"like_count" gorm:"default:0"`
	ReplyCount          int64      `json:"reply_count" gorm:"default:0"`
	CreateTime          *time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime          *time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

// TableName .
func (Comment) TableName() string {
	return "t_comment"
}

// Content 内容表（只读取互动聚合需要的字段）
type Content struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title          string     `json:"title" gorm:"type:varchar(200)"`
	Description    string     `json:"description" gorm:"type:text"`
	ContentType    string     `json:"content_type" gorm:"type:varchar(20)"`
	CoverURL       string     `json:"cover_url" gorm:"column:cover_url;type:text"`
	AuthorID       int64      `json:"author_id" gorm:"index"`
	AuthorNickname string     `json:"author_nickname" gorm:"type:varchar(100)"`
	AuthorAvatar   string     `json:"author_avatar" gorm:"type:varchar(500)"`
	Status         string     `json:"status" gorm:"type:varchar(20)"`
	LikeCount      int64      `json:"like_count" gorm:"default:0"`
	CommentCount   int64      `json:"comment_count" gorm:"default:0"`
	CreateTime     *time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime     *time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

// TableName .
func (Content) TableName() string {
	return "t_content"
}

// Follow 关注关系表
type Follow struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerID int64      `json:"follower_id" gorm:"not null;uniqueIndex:uk_follower_followee,priority:1"`
	FolloweeID int64      `json:"followee_id" gorm:"not null;uniqueIndex:uk_follower_followee,priority:2"`
	Status     string     `json:"status" gorm:"type:varchar(20);not null;default:active"`
	CreateTime *time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime *time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

// TableName .
func (Follow) TableName() string {
	return "t_follow"
}

// ContentSummary 内容摘要，互动补全只依赖这些字段
type ContentSummary struct {
	ID             int64
	Title          string
	Description    string
	CoverURL       string
	AuthorID       int64
	AuthorNickname string
	AuthorAvatar   string
}

// LikeEvent 点赞事件（Kafka消息）
type LikeEvent struct {
	EventType string    `json:"event_type"`
	UserID    int64     `json:"user_id"`
	LikeType  string    `json:"like_type"`
	TargetID  int64     `json:"target_id"`
	Timestamp time.Time `json:"timestamp"`
}

// InteractionStatistics 用户互动统计
type InteractionStatistics struct {
	UserID          int64 `json:"userId"`
	LikesGiven      int64 `json:"likesGiven"`
	LikesReceived   int64 `json:"likesReceived"`
	CommentsGiven   int64 `json:"commentsGiven"`
	RepliesReceived int64 `json:"repliesReceived"`
}

// GetLikeCountKey 获取目标点赞数缓存键
func GetLikeCountKey(likeType string, targetID int64) string {
	return fmt.Sprintf("%s:%s:%d", CacheKeyLikeCount, likeType, targetID)
}
