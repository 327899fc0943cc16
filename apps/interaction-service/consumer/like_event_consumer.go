package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/kafka"
	"collide-social/pkg/logger"
)

// CountInvalidator 点赞数缓存失效
type CountInvalidator interface {
	Invalidate(ctx context.Context, likeType string, targetID int64) error
}

// LikeEventConsumer 点赞事件消费者，收到事件后删除目标点赞数缓存
type LikeEventConsumer struct {
	invalidator CountInvalidator
	logger      logger.Logger
	consumer    *kafka.Consumer
}

// NewLikeEventConsumer 创建点赞事件消费者
func NewLikeEventConsumer(invalidator CountInvalidator, log logger.Logger) *LikeEventConsumer {
	return &LikeEventConsumer{
		invalidator: invalidator,
		logger:      log,
	}
}

// Start 启动消费者
func (l *LikeEventConsumer) Start(ctx context.Context, brokers []string, groupID, topic string) error {
	cfg := kafka.KafkaConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topics:  []string{topic},
	}

	consumer, err := kafka.InitConsumer(cfg, l, l.logger)
	if err != nil {
		return err
	}
	l.consumer = consumer
	l.consumer.StartConsuming(ctx)

	l.logger.Info(ctx, "Like event consumer started",
		logger.F("topic", topic),
		logger.F("group_id", groupID))
	return nil
}

// Stop 停止消费者
func (l *LikeEventConsumer) Stop() error {
	if l.consumer == nil {
		return nil
	}
	return l.consumer.Close()
}

// HandleMessage 实现 kafka.ConsumerHandler 接口
// 无法解析的消息记录日志后跳过；缓存删除失败返回错误，不提交位点
func (l *LikeEventConsumer) HandleMessage(msg *sarama.ConsumerMessage) (err error) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(ctx, "Recovered panic while handling like event",
				logger.F("offset", msg.Offset),
				logger.F("panic", fmt.Sprint(r)))
			err = nil
		}
	}()

	var event model.LikeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.logger.Warn(ctx, "Skipping malformed like event",
			logger.F("topic", msg.Topic),
			logger.F("offset", msg.Offset),
			logger.F("error", err.Error()))
		return nil
	}
	if event.TargetID <= 0 || !model.ValidateLikeType(event.LikeType) {
		l.logger.Warn(ctx, "Skipping like event with invalid target",
			logger.F("offset", msg.Offset),
			logger.F("like_type", event.LikeType),
			logger.F("target_id", event.TargetID))
		return nil
	}

	switch event.EventType {
	case model.LikeEventDo, model.LikeEventCancel:
	default:
		l.logger.Warn(ctx, "Skipping unknown like event type",
			logger.F("offset", msg.Offset),
			logger.F("event_type", event.EventType))
		return nil
	}

	if err := l.invalidator.Invalidate(ctx, event.LikeType, event.TargetID); err != nil {
		return fmt.Errorf("删除点赞数缓存失败: %w", err)
	}

	l.logger.Debug(ctx, "Like count cache invalidated",
		logger.F("event_type", event.EventType),
		logger.F("like_type", event.LikeType),
		logger.F("target_id", event.TargetID))
	return nil
}
