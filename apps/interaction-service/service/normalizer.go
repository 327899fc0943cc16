package service

import (
	"strings"

	"collide-social/apps/interaction-service/model"
)

// LikeToInteraction 将点赞记录转换为统一互动视图
// subType为空时取记录自身的点赞类型
func LikeToInteraction(like *model.Like, subType string) *model.Interaction {
	if subType == "" {
		subType = like.LikeType
	}
	return &model.Interaction{
		ID:               like.ID,
		InteractionType:  model.InteractionTypeLike,
		SubType:          subType,
		TargetID:         like.TargetID,
		Title:            like.TargetTitle,
		AuthorID:         like.TargetAuthorID,
		IsLike:           true,
		ContentCoverURLs: []string{},
		UserID:           like.UserID,
		UserNickname:     like.UserNickname,
		UserAvatar:       like.UserAvatar,
		Status:           like.Status,
		CreateTime:       like.CreateTime,
		UpdateTime:       like.UpdateTime,
		StoredTitle:      like.TargetTitle,
	}
}

// CommentToInteraction 将评论记录转换为统一互动视图
// subType为空时取记录自身的评论类型（收到的回复）
func CommentToInteraction(comment *model.Comment, subType string) *model.Interaction {
	if subType == "" {
		subType = comment.CommentType
	}
	return &model.Interaction{
		ID:                  comment.ID,
		InteractionType:     model.InteractionTypeComment,
		SubType:             subType,
		TargetID:            comment.TargetID,
		ContentCoverURLs:    []string{},
		UserID:              comment.UserID,
		UserNickname:        comment.UserNickname,
		UserAvatar:          comment.UserAvatar,
		CommentContent:      comment.Content,
		ParentCommentID:     comment.ParentCommentID,
		ReplyToUserID:       comment.ReplyToUserID,
		ReplyToUserNickname: comment.ReplyToUserNickname,
		LikeCount:           comment.LikeCount,
		ReplyCount:          comment.ReplyCount,
		Status:              comment.Status,
		CreateTime:          comment.CreateTime,
		UpdateTime:          comment.UpdateTime,
	}
}

// SplitCoverURLs 拆分逗号分隔的封面地址，去除空白项
func SplitCoverURLs(raw string) []string {
	urls := []string{}
	for _, part := range strings.Split(raw, ",") {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func likesToInteractions(likes []*model.Like, subType string) []*model.Interaction {
	items := make([]*model.Interaction, 0, len(likes))
	for _, like := range likes {
		if like != nil {
			items = append(items, LikeToInteraction(like, subType))
		}
	}
	return items
}

func commentsToInteractions(comments []*model.Comment, subType string) []*model.Interaction {
	items := make([]*model.Interaction, 0, len(comments))
	for _, comment := range comments {
		if comment != nil {
			items = append(items, CommentToInteraction(comment, subType))
		}
	}
	return items
}
