package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"collide-social/pkg/logger"
)

// KafkaConfig 消费者配置
type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// Producer 异步生产者
type Producer struct {
	asyncProducer sarama.AsyncProducer
	logger        logger.Logger
	wg            sync.WaitGroup
}

// defaultRetryBackoff 消息处理失败后重新加入消费者组前的等待时间
const defaultRetryBackoff = time.Second

// ConsumerHandler 消息处理器，返回nil时提交位点
type ConsumerHandler interface {
	HandleMessage(msg *sarama.ConsumerMessage) error
}

// Consumer 消费者组
type Consumer struct {
	group     sarama.ConsumerGroup
	topics    []string
	ready     chan struct{}
	readyOnce sync.Once
	handler   ConsumerHandler
	logger    logger.Logger
	cancel    context.CancelFunc
	done      chan struct{}

	retryBackoff time.Duration
}

// InitProducer 初始化生产者
func InitProducer(brokers []string, log logger.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = false
	config.Producer.Return.Errors = true
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("创建Kafka生产者失败: %w", err)
	}

	p := &Producer{asyncProducer: producer, logger: log}
	p.wg.Add(1)
	go p.drainErrors()
	return p, nil
}

// drainErrors 消费发送失败事件，避免阻塞生产者
func (p *Producer) drainErrors() {
	defer p.wg.Done()
	for perr := range p.asyncProducer.Errors() {
		p.logger.Error(context.Background(), "Kafka produce failed",
			logger.F("topic", perr.Msg.Topic),
			logger.F("error", perr.Err.Error()))
	}
}

// SendMessage 发送消息，key决定分区
func (p *Producer) SendMessage(topic string, key, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(value),
	}
	if len(key) > 0 {
		msg.Key = sarama.ByteEncoder(key)
	}
	p.asyncProducer.Input() <- msg
	return nil
}

// Close 关闭生产者，等待错误通道排空
func (p *Producer) Close() error {
	err := p.asyncProducer.Close()
	p.wg.Wait()
	return err
}

// InitConsumer 初始化消费者
func InitConsumer(cfg KafkaConfig, handler ConsumerHandler, log logger.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = false

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, config)
	if err != nil {
		return nil, fmt.Errorf("创建Kafka消费者组失败: %w", err)
	}

	return &Consumer{
		group:   group,
		topics:  cfg.Topics,
		ready:   make(chan struct{}),
		handler:      handler,
		logger:       log,
		done:         make(chan struct{}),
		retryBackoff: defaultRetryBackoff,
	}, nil
}

// StartConsuming 后台启动消费循环，立即返回；首次分配分区后 Ready 关闭
func (c *Consumer) StartConsuming(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		defer close(c.done)
		for {
			if err := c.group.Consume(ctx, c.topics, c); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.logger.Error(ctx, "Kafka consume failed", logger.F("error", err.Error()))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

// Ready 首次分配分区后关闭
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Close 停止消费并关闭消费者组
func (c *Consumer) Close() error {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	return c.group.Close()
}

// Setup sarama.ConsumerGroupHandler
func (c *Consumer) Setup(_ sarama.ConsumerGroupSession) error {
	c.readyOnce.Do(func() { close(c.ready) })
	return nil
}

// Cleanup sarama.ConsumerGroupHandler
func (c *Consumer) Cleanup(_ sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim 消费消息，处理成功才标记位点
// 处理失败时停止本分区消费并返回错误，会话结束后从最后提交的位点重新投递
func (c *Consumer) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := c.handler.HandleMessage(msg); err != nil {
			c.logger.Warn(sess.Context(), "Kafka message handling failed, will retry from last committed offset",
				logger.F("topic", msg.Topic),
				logger.F("partition", msg.Partition),
				logger.F("offset", msg.Offset),
				logger.F("error", err.Error()))

			select {
			case <-time.After(c.retryBackoff):
			case <-sess.Context().Done():
			}
			return fmt.Errorf("处理消息失败 %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
