package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/logger"
	"collide-social/pkg/telemetry"
)

// GetInteractionStatistics 获取用户互动统计
// 每项统计取对应数据源的总数，单项失败记为0
func (s *Service) GetInteractionStatistics(ctx context.Context, userID int64) (*model.InteractionStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "interaction.service.GetInteractionStatistics")
	defer span.End()

	if userID <= 0 {
		span.SetStatus(codes.Error, "invalid user ID")
		return nil, model.ErrInvalidUserID
	}
	span.SetAttributes(attribute.Int64("interaction.user_id", userID))

	page := model.FirstPage(1)
	order := model.SortOrder{OrderBy: model.OrderByCreateTime, Direction: model.OrderDesc}
	counters := []struct {
		name  string
		count func(ctx context.Context) (int64, error)
	}{
		{"likes_given", func(ctx context.Context) (int64, error) {
			_, total, err := s.deps.Likes.FindUserLikes(ctx, page, userID, "", model.LikeStatusActive)
			return total, err
		}},
		{"likes_received", func(ctx context.Context) (int64, error) {
			_, total, err := s.deps.Likes.FindAuthorLikes(ctx, page, userID, "", model.LikeStatusActive)
			return total, err
		}},
		{"comments_given", func(ctx context.Context) (int64, error) {
			_, total, err := s.deps.Comments.FindUserComments(ctx, page, userID, "", model.CommentStatusNormal, order, true)
			return total, err
		}},
		{"replies_received", func(ctx context.Context) (int64, error) {
			_, total, err := s.deps.Comments.FindUserReplies(ctx, page, userID, model.CommentStatusNormal, order, true)
			return total, err
		}},
	}

	totals := make([]int64, len(counters))
	forEachBounded(ctx, s.logger, "statistics", s.cfg.SourceConcurrency, len(counters), func(ctx context.Context, i int) {
		total, err := counters[i].count(ctx)
		if err != nil {
			s.logger.Warn(ctx, "Failed to count interactions",
				logger.F("counter", counters[i].name),
				logger.F("user_id", userID),
				logger.F("error", err.Error()))
			return
		}
		totals[i] = total
	})

	stats := &model.InteractionStatistics{
		UserID:          userID,
		LikesGiven:      totals[0],
		LikesReceived:   totals[1],
		CommentsGiven:   totals[2],
		RepliesReceived: totals[3],
	}
	span.SetAttributes(
		attribute.Int64("interaction.likes_given", stats.LikesGiven),
		attribute.Int64("interaction.likes_received", stats.LikesReceived),
		attribute.Int64("interaction.comments_given", stats.CommentsGiven),
		attribute.Int64("interaction.replies_received", stats.RepliesReceived),
	)
	span.SetStatus(codes.Ok, "")
	return stats, nil
}
