package converter

import (
	"time"

	"collide-social/apps/interaction-service/model"
)

// TimeLayout 响应中的时间格式
const TimeLayout = "2006-01-02 15:04:05"

// InteractionVO 互动响应对象
type InteractionVO struct {
	ID              int64  `json:"id"`
	InteractionType string `json:"interactionType"`
	SubType         string `json:"subType"`
	TargetID        int64  `json:"targetId"`

	Title              string   `json:"title"`
	AuthorID           int64    `json:"authorId,omitempty"`
	AuthorNickname     string   `json:"authorNickname,omitempty"`
	AuthorAvatar       string   `json:"authorAvatar,omitempty"`
	IsFollowingAuthor  bool     `json:"isFollowingAuthor"`
	ContentLikeCount   int64    `json:"contentLikeCount"`
	IsLike             bool     `json:"isLike"`
	ContentCoverURLs   []string `json:"contentCoverUrls"`
	ContentDescription string   `json:"contentDescription,omitempty"`

	UserID       int64  `json:"userId"`
	UserNickname string `json:"userNickname,omitempty"`
	UserAvatar   string `json:"userAvatar,omitempty"`

	CommentContent      string `json:"commentContent,omitempty"`
	ParentCommentID     int64  `json:"parentCommentId,omitempty"`
	ReplyToUserID       int64  `json:"replyToUserId,omitempty"`
	ReplyToUserNickname string `json:"replyToUserNickname,omitempty"`
	LikeCount           int64  `json:"likeCount,omitempty"`
	ReplyCount          int64  `json:"replyCount,omitempty"`

	Status     string `json:"status"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// PageVO 分页响应对象
type PageVO struct {
	Records     []*InteractionVO `json:"records"`
	Total       int64            `json:"total"`
	CurrentPage int              `json:"currentPage"`
	PageSize    int              `json:"pageSize"`
	TotalPages  int              `json:"totalPages"`
}

// LikeVO 点赞响应对象
type LikeVO struct {
	ID         int64  `json:"id"`
	LikeType   string `json:"likeType"`
	TargetID   int64  `json:"targetId"`
	UserID     int64  `json:"userId"`
	Status     string `json:"status"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// Converter 转换器，提供Model到响应对象的转换
type Converter struct{}

// NewConverter 创建转换器实例
func NewConverter() *Converter {
	return &Converter{}
}

// InteractionModelToVO 将互动Model转换为响应对象
func (c *Converter) InteractionModelToVO(interaction *model.Interaction) *InteractionVO {
	if interaction == nil {
		return nil
	}

	covers := interaction.ContentCoverURLs
	if covers == nil {
		covers = []string{}
	}

	return &InteractionVO{
		ID:                  interaction.ID,
		InteractionType:     interaction.InteractionType,
		SubType:             interaction.SubType,
		TargetID:            interaction.TargetID,
		Title:               interaction.Title,
		AuthorID:            interaction.AuthorID,
		AuthorNickname:      interaction.AuthorNickname,
		AuthorAvatar:        interaction.AuthorAvatar,
		IsFollowingAuthor:   interaction.IsFollowingAuthor,
		ContentLikeCount:    interaction.ContentLikeCount,
		IsLike:              interaction.IsLike,
		ContentCoverURLs:    covers,
		ContentDescription:  interaction.ContentDescription,
		UserID:              interaction.UserID,
		UserNickname:        interaction.UserNickname,
		UserAvatar:          interaction.UserAvatar,
		CommentContent:      interaction.CommentContent,
		ParentCommentID:     interaction.ParentCommentID,
		ReplyToUserID:       interaction.ReplyToUserID,
		ReplyToUserNickname: interaction.ReplyToUserNickname,
		LikeCount:           interaction.LikeCount,
		ReplyCount:          interaction.ReplyCount,
		Status:              interaction.Status,
		CreateTime:          FormatTime(interaction.CreateTime),
		UpdateTime:          FormatTime(interaction.UpdateTime),
	}
}

// InteractionModelsToVO 将互动Model列表转换为响应对象列表
func (c *Converter) InteractionModelsToVO(interactions []*model.Interaction) []*InteractionVO {
	result := make([]*InteractionVO, 0, len(interactions))
	for _, interaction := range interactions {
		if vo := c.InteractionModelToVO(interaction); vo != nil {
			result = append(result, vo)
		}
	}
	return result
}

// PageResultToVO 将分页结果转换为响应对象
func (c *Converter) PageResultToVO(page *model.PageResult) *PageVO {
	if page == nil {
		return &PageVO{Records: []*InteractionVO{}}
	}
	return &PageVO{
		Records:     c.InteractionModelsToVO(page.Records),
		Total:       page.Total,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
	}
}

// LikeModelToVO 将点赞Model转换为响应对象
func (c *Converter) LikeModelToVO(like *model.Like) *LikeVO {
	if like == nil {
		return nil
	}
	return &LikeVO{
		ID:         like.ID,
		LikeType:   like.LikeType,
		TargetID:   like.TargetID,
		UserID:     like.UserID,
		Status:     like.Status,
		CreateTime: FormatTime(like.CreateTime),
		UpdateTime: FormatTime(like.UpdateTime),
	}
}

// FormatTime 格式化时间，nil返回空字符串
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimeLayout)
}
