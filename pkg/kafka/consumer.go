package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries bounds handler attempts per message; after that the
// message is committed and skipped so a poison pill cannot wedge the group.
const maxHandlerRetries = 3

// Handler processes one decoded event.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer settings.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

// Consumer wraps a kafka-go reader driving a Handler.
type Consumer struct {
	reader    *kafka.Reader
	logger    *slog.Logger
	handler   Handler
	closeOnce sync.Once
}

// NewConsumer creates a consumer for one topic and group.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 << 20
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})

	return &Consumer{reader: r, logger: logger, handler: handler}
}

// Start consumes messages until the context is canceled. Handler failures are
// retried with a short backoff; messages that keep failing are committed and
// skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started",
		slog.String("topic", c.reader.Config().Topic),
		slog.String("group", c.reader.Config().GroupID),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.reader.Config().Topic))
				return c.Close()
			}
			c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		event, err := UnmarshalEvent(msg.Value)
		if err != nil {
			c.logger.Error("failed to unmarshal event",
				slog.String("error", err.Error()),
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
			)
			c.commit(ctx, msg)
			continue
		}

		var lastErr error
		for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
			lastErr = c.handler(ctx, event)
			if lastErr == nil {
				break
			}

			c.logger.Warn("handler failed",
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.String("error", lastErr.Error()),
				slog.Int("attempt", attempt),
			)

			if attempt < maxHandlerRetries {
				select {
				case <-ctx.Done():
					return c.Close()
				case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
				}
			}
		}

		if lastErr != nil {
			c.logger.Error("handler failed after all retries, skipping message",
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", lastErr.Error()),
			)
		}

		c.commit(ctx, msg)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
	}
}

// Close closes the reader. Safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
