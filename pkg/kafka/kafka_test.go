package kafka

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/IBM/sarama"

	"collide-social/pkg/logger"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func claimOf(offsets ...int64) *fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(offsets))
	for _, o := range offsets {
		ch <- &sarama.ConsumerMessage{Topic: "like-events", Partition: 0, Offset: o}
	}
	close(ch)
	return &fakeClaim{messages: ch}
}

type failingHandler struct {
	failAt  int64
	handled []int64
}

func (h *failingHandler) HandleMessage(msg *sarama.ConsumerMessage) error {
	h.handled = append(h.handled, msg.Offset)
	if msg.Offset == h.failAt {
		return errors.New("cache unavailable")
	}
	return nil
}

func newTestConsumer(handler ConsumerHandler, backoff time.Duration) *Consumer {
	return &Consumer{handler: handler, logger: logger.NewNopLogger(), retryBackoff: backoff}
}

func TestConsumeClaimMarksHandledMessages(t *testing.T) {
	handler := &failingHandler{failAt: -1}
	sess := &fakeSession{ctx: context.Background()}

	if err := newTestConsumer(handler, time.Millisecond).ConsumeClaim(sess, claimOf(0, 1, 2)); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if !reflect.DeepEqual(sess.marked, []int64{0, 1, 2}) {
		t.Fatalf("marked = %v, want [0 1 2]", sess.marked)
	}
}

func TestConsumeClaimStopsAtFailedMessage(t *testing.T) {
	handler := &failingHandler{failAt: 1}
	sess := &fakeSession{ctx: context.Background()}

	err := newTestConsumer(handler, time.Millisecond).ConsumeClaim(sess, claimOf(0, 1, 2))
	if err == nil {
		t.Fatal("expected an error for the failed message")
	}
	if !reflect.DeepEqual(sess.marked, []int64{0}) {
		t.Fatalf("marked = %v, offsets after the failure must stay uncommitted", sess.marked)
	}
	if !reflect.DeepEqual(handler.handled, []int64{0, 1}) {
		t.Fatalf("handled = %v, later messages must wait for redelivery", handler.handled)
	}
}

func TestConsumeClaimBackoffEndsWithSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess := &fakeSession{ctx: ctx}

	start := time.Now()
	err := newTestConsumer(&failingHandler{failAt: 0}, time.Hour).ConsumeClaim(sess, claimOf(0))
	if err == nil {
		t.Fatal("expected an error for the failed message")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("backoff must not outlive the session")
	}
}
