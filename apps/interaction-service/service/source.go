package service

import (
	"context"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/logger"
)

// sourceKind 互动数据源
type sourceKind int

const (
	sourceGivenContentLikes    sourceKind = iota // 我点赞的内容
	sourceGivenCommentLikes                      // 我点赞的评论
	sourceReceivedCommentLikes                   // 我的评论收到的点赞
	sourceGivenContentComments                   // 我对内容的评论
	sourceGivenDynamicComments                   // 我对动态的评论
	sourceReceivedReplies                        // 回复我的评论
)

var sourceNames = map[sourceKind]string{
	sourceGivenContentLikes:    "given_content_likes",
	sourceGivenCommentLikes:    "given_comment_likes",
	sourceReceivedCommentLikes: "received_comment_likes",
	sourceGivenContentComments: "given_content_comments",
	sourceGivenDynamicComments: "given_dynamic_comments",
	sourceReceivedReplies:      "received_replies",
}

func (k sourceKind) String() string {
	return sourceNames[k]
}

// allViewSources 全部互动视图固定使用的数据源
var allViewSources = []sourceKind{
	sourceGivenContentLikes,
	sourceGivenCommentLikes,
	sourceGivenContentComments,
	sourceGivenDynamicComments,
	sourceReceivedReplies,
}

// sourceQuery 数据源查询参数
type sourceQuery struct {
	userID int64
	order  model.SortOrder
}

// selectSources 根据过滤条件选择需要查询的数据源，顺序固定
// commentType 只限定我发出的评论，收到的回复不按评论类型过滤
func selectSources(q *normalizedQuery) []sourceKind {
	wantLikes := q.interactionType == model.FilterAll || q.interactionType == model.FilterLikes
	wantComments := q.interactionType == model.FilterAll || q.interactionType == model.FilterComments
	give := q.direction == model.DirectionAll || q.direction == model.DirectionGive
	receive := q.direction == model.DirectionAll || q.direction == model.DirectionReceive

	var kinds []sourceKind
	if wantLikes && give {
		if q.likeType == "" || q.likeType == model.SubTypeContent {
			kinds = append(kinds, sourceGivenContentLikes)
		}
		if q.likeType == "" || q.likeType == model.SubTypeComment {
			kinds = append(kinds, sourceGivenCommentLikes)
		}
	}
	if wantLikes && receive {
		if q.likeType == "" || q.likeType == model.SubTypeComment {
			kinds = append(kinds, sourceReceivedCommentLikes)
		}
	}
	if wantComments && give {
		if q.commentType == "" || q.commentType == model.SubTypeContent {
			kinds = append(kinds, sourceGivenContentComments)
		}
		if q.commentType == "" || q.commentType == model.SubTypeDynamic {
			kinds = append(kinds, sourceGivenDynamicComments)
		}
	}
	if wantComments && receive {
		kinds = append(kinds, sourceReceivedReplies)
	}
	return kinds
}

// fetchSources 并发查询数据源并按声明顺序合并
// 单个数据源失败只记录日志，贡献空结果
func (s *Service) fetchSources(ctx context.Context, q sourceQuery, kinds []sourceKind) []*model.Interaction {
	slots := make([][]*model.Interaction, len(kinds))
	forEachBounded(ctx, s.logger, "fetch_source", s.cfg.SourceConcurrency, len(kinds), func(ctx context.Context, i int) {
		items, err := s.fetchSource(ctx, kinds[i], q)
		if err != nil {
			s.logger.Warn(ctx, "Interaction source query failed",
				logger.F("source", kinds[i].String()),
				logger.F("user_id", q.userID),
				logger.F("error", err.Error()))
			return
		}
		slots[i] = items
	})

	total := 0
	for _, slot := range slots {
		total += len(slot)
	}
	merged := make([]*model.Interaction, 0, total)
	for _, slot := range slots {
		merged = append(merged, slot...)
	}
	return merged
}

// fetchSource 查询单个数据源并转换为互动视图
func (s *Service) fetchSource(ctx context.Context, kind sourceKind, q sourceQuery) ([]*model.Interaction, error) {
	page := model.FirstPage(s.cfg.FetchLimit)

	switch kind {
	case sourceGivenContentLikes, sourceGivenCommentLikes:
		likeType := model.SubTypeContent
		if kind == sourceGivenCommentLikes {
			likeType = model.SubTypeComment
		}
		likes, _, err := s.deps.Likes.FindUserLikes(ctx, page, q.userID, likeType, model.LikeStatusActive)
		if err != nil {
			return nil, err
		}
		return likesToInteractions(likes, likeType), nil

	case sourceReceivedCommentLikes:
		likes, _, err := s.deps.Likes.FindAuthorLikes(ctx, page, q.userID, model.SubTypeComment, model.LikeStatusActive)
		if err != nil {
			return nil, err
		}
		return likesToInteractions(likes, model.SubTypeComment), nil

	case sourceGivenContentComments, sourceGivenDynamicComments:
		commentType := model.SubTypeContent
		if kind == sourceGivenDynamicComments {
			commentType = model.SubTypeDynamic
		}
		comments, _, err := s.deps.Comments.FindUserComments(ctx, page, q.userID, commentType, model.CommentStatusNormal, q.order, true)
		if err != nil {
			return nil, err
		}
		return commentsToInteractions(comments, commentType), nil

	case sourceReceivedReplies:
		comments, _, err := s.deps.Comments.FindUserReplies(ctx, page, q.userID, model.CommentStatusNormal, q.order, true)
		if err != nil {
			return nil, err
		}
		return commentsToInteractions(comments, ""), nil
	}
	return nil, nil
}
