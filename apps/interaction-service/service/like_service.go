package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"collide-social/apps/interaction-service/model"
	tracecontext "collide-social/pkg/context"
	"collide-social/pkg/logger"
	"collide-social/pkg/telemetry"
)

// ErrLikeWriteUnavailable 未配置点赞写存储
var ErrLikeWriteUnavailable = errors.New("点赞写操作不可用")

// DoLike 点赞，重复点赞幂等；已取消的点赞会被重新激活
func (s *Service) DoLike(ctx context.Context, userID int64, likeType string, targetID int64, targetTitle string, targetAuthorID int64) (*model.Like, error) {
	ctx, span := telemetry.StartSpan(ctx, "interaction.service.DoLike")
	defer span.End()

	likeType, err := s.validateLike(userID, likeType, targetID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ctx = tracecontext.WithUserID(ctx, userID)
	span.SetAttributes(
		attribute.Int64("like.user_id", userID),
		attribute.String("like.type", likeType),
		attribute.Int64("like.target_id", targetID),
	)

	like := &model.Like{
		UserID:         userID,
		LikeType:       likeType,
		TargetID:       targetID,
		TargetTitle:    targetTitle,
		TargetAuthorID: targetAuthorID,
		Status:         model.LikeStatusActive,
	}
	changed, err := s.deps.LikeWriter.SaveLike(ctx, like)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save like")
		return nil, fmt.Errorf("点赞失败: %w", err)
	}

	if changed {
		s.invalidateLikeCount(ctx, likeType, targetID)
		s.publishLikeEvent(ctx, model.LikeEventDo, userID, likeType, targetID)
	}
	span.SetAttributes(attribute.Bool("like.changed", changed))
	span.SetStatus(codes.Ok, "")
	return like, nil
}

// CancelLike 取消点赞，返回是否确实取消了一条有效点赞
func (s *Service) CancelLike(ctx context.Context, userID int64, likeType string, targetID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "interaction.service.CancelLike")
	defer span.End()

	likeType, err := s.validateLike(userID, likeType, targetID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	ctx = tracecontext.WithUserID(ctx, userID)
	span.SetAttributes(
		attribute.Int64("like.user_id", userID),
		attribute.String("like.type", likeType),
		attribute.Int64("like.target_id", targetID),
	)

	cancelled, err := s.deps.LikeWriter.CancelLike(ctx, userID, likeType, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to cancel like")
		return false, fmt.Errorf("取消点赞失败: %w", err)
	}

	if cancelled {
		s.invalidateLikeCount(ctx, likeType, targetID)
		s.publishLikeEvent(ctx, model.LikeEventCancel, userID, likeType, targetID)
	}
	span.SetAttributes(attribute.Bool("like.changed", cancelled))
	span.SetStatus(codes.Ok, "")
	return cancelled, nil
}

// validateLike 校验点赞参数，返回规范化的点赞类型
func (s *Service) validateLike(userID int64, likeType string, targetID int64) (string, error) {
	if s.deps.LikeWriter == nil {
		return "", ErrLikeWriteUnavailable
	}
	if userID <= 0 {
		return "", model.ErrInvalidUserID
	}
	likeType = strings.ToUpper(strings.TrimSpace(likeType))
	if targetID <= 0 || !model.ValidateLikeType(likeType) {
		return "", model.ErrInvalidTarget
	}
	return likeType, nil
}

// invalidateLikeCount 删除目标点赞数缓存
func (s *Service) invalidateLikeCount(ctx context.Context, likeType string, targetID int64) {
	if s.deps.CountCache == nil {
		return
	}
	if err := s.deps.CountCache.Invalidate(ctx, likeType, targetID); err != nil {
		s.logger.Warn(ctx, "Failed to invalidate like count cache",
			logger.F("like_type", likeType),
			logger.F("target_id", targetID),
			logger.F("error", err.Error()))
	}
}

// publishLikeEvent 异步发布点赞事件到消息队列
func (s *Service) publishLikeEvent(ctx context.Context, eventType string, userID int64, likeType string, targetID int64) {
	if s.deps.Events == nil {
		return
	}

	event := &model.LikeEvent{
		EventType: eventType,
		UserID:    userID,
		LikeType:  likeType,
		TargetID:  targetID,
		Timestamp: time.Now(),
	}
	eventData, err := json.Marshal(event)
	if err != nil {
		s.logger.Error(ctx, "Failed to marshal like event",
			logger.F("error", err.Error()),
			logger.F("event_type", eventType))
		return
	}

	topic := s.deps.EventsTopic
	key := fmt.Sprintf("%s:%d", likeType, targetID)
	go func() {
		if err := s.deps.Events.SendMessage(topic, []byte(key), eventData); err != nil {
			s.logger.Error(context.Background(), "Failed to send like event",
				logger.F("error", err.Error()),
				logger.F("topic", topic),
				logger.F("key", key))
		}
	}()
}
