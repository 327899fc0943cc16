package model

import "time"

// Interaction 统一的互动视图（点赞或评论），每次请求临时构建，不落库
type Interaction struct {
	ID              int64  `json:"id"`
	InteractionType string `json:"interactionType"`
	SubType         string `json:"subType"`
	TargetID        int64  `json:"targetId"`

	// 目标内容及作者
	Title              string   `json:"title"`
	AuthorID           int64    `json:"authorId,omitempty"`
	AuthorNickname     string   `json:"authorNickname,omitempty"`
	AuthorAvatar       string   `json:"authorAvatar,omitempty"`
	IsFollowingAuthor  bool     `json:"isFollowingAuthor"`
	ContentLikeCount   int64    `json:"contentLikeCount"`
	IsLike             bool     `json:"isLike"`
	ContentCoverURLs   []string `json:"contentCoverUrls"`
	ContentDescription string   `json:"contentDescription,omitempty"`

	// 发起互动的用户
	UserID       int64  `json:"userId"`
	UserNickname string `json:"userNickname,omitempty"`
	UserAvatar   string `json:"userAvatar,omitempty"`

	// 仅评论
	CommentContent      string `json:"commentContent,omitempty"`
	ParentCommentID     int64  `json:"parentCommentId,omitempty"`
	ReplyToUserID       int64  `json:"replyToUserId,omitempty"`
	ReplyToUserNickname string `json:"replyToUserNickname,omitempty"`
	LikeCount           int64  `json:"likeCount,omitempty"`
	ReplyCount          int64  `json:"replyCount,omitempty"`

	Status     string     `json:"status"`
	CreateTime *time.Time `json:"createTime"`
	UpdateTime *time.Time `json:"updateTime"`

	// 点赞记录上冗余的目标标题，内容无法解析时作为兜底
	StoredTitle string `json:"-"`
}

// IsOwnLike 是否为当前用户自己的点赞记录
func (i *Interaction) IsOwnLike(currentUserID int64) bool {
	return i.InteractionType == InteractionTypeLike && i.UserID == currentUserID
}

// InteractionQueryRequest 互动查询请求
type InteractionQueryRequest struct {
	UserID          int64  `json:"userId" form:"userId"`
	InteractionType string `json:"interactionType" form:"interactionType"` // ALL / LIKES / COMMENTS
	LikeType        string `json:"likeType" form:"likeType"`               // CONTENT / COMMENT，为空表示全部
	CommentType     string `json:"commentType" form:"commentType"`         // CONTENT / DYNAMIC，为空表示全部
	Direction       string `json:"direction" form:"direction"`             // ALL / GIVE / RECEIVE
	OrderBy         string `json:"orderBy" form:"orderBy"`                 // createTime / updateTime
	OrderDirection  string `json:"orderDirection" form:"orderDirection"`   // ASC / DESC
	CurrentPage     int    `json:"currentPage" form:"currentPage"`
	PageSize        int    `json:"pageSize" form:"pageSize"`
}

// PageRequest 分页请求
type PageRequest struct {
	Page int
	Size int
}

// Offset 计算偏移量
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// FirstPage 从第一页读取size条
func FirstPage(size int) PageRequest {
	return PageRequest{Page: 1, Size: size}
}

// SortOrder 排序条件
type SortOrder struct {
	OrderBy   string
	Direction string
}

// PageResult 分页结果
type PageResult struct {
	Records     []*Interaction `json:"records"`
	Total       int64          `json:"total"`
	CurrentPage int            `json:"currentPage"`
	PageSize    int            `json:"pageSize"`
	TotalPages  int            `json:"totalPages"`
}
