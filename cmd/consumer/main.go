// The consumer binary tails the service's domain events and writes an audit
// log entry per event. It exists so registrations and report activity can be
// followed without access to the database.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avetrov/reporthub/pkg/kafka"
	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/config"
	"github.com/avetrov/reporthub/internal/event"
)

const groupID = "reporthub-audit"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.ServiceName+"-consumer", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumers := []*kafka.Consumer{
		newConsumer(cfg, kafka.Topic("user", "registered"), handleUserRegistered(log), log),
		newConsumer(cfg, kafka.Topic("report", "created"), handleReportCreated(log), log),
	}

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *kafka.Consumer) {
			defer wg.Done()
			if err := c.Start(ctx); err != nil {
				log.Error("consumer stopped", slog.String("error", err.Error()))
			}
		}(c)
	}

	<-ctx.Done()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			log.Error("close consumer", slog.String("error", err.Error()))
		}
	}
	wg.Wait()

	log.Info("stopped")
}

func newConsumer(cfg config.Config, topic string, handler kafka.Handler, log *slog.Logger) *kafka.Consumer {
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: groupID,
		Topic:   topic,
	}, handler, log)
}

func handleUserRegistered(log *slog.Logger) kafka.Handler {
	return func(ctx context.Context, evt *kafka.Event) error {
		var payload event.UserRegistered
		if err := evt.UnmarshalData(&payload); err != nil {
			return err
		}
		log.Info("user registered",
			slog.String("event_id", evt.EventID),
			slog.String("correlation_id", evt.CorrelationID),
			slog.Int64("user_id", payload.UserID),
			slog.String("login", payload.Login),
			slog.String("role", payload.Role),
		)
		return nil
	}
}

func handleReportCreated(log *slog.Logger) kafka.Handler {
	return func(ctx context.Context, evt *kafka.Event) error {
		var payload event.ReportCreated
		if err := evt.UnmarshalData(&payload); err != nil {
			return err
		}
		log.Info("report created",
			slog.String("event_id", evt.EventID),
			slog.String("correlation_id", evt.CorrelationID),
			slog.Int64("report_id", payload.ReportID),
			slog.Int64("user_id", payload.UserID),
			slog.String("name", payload.Name),
		)
		return nil
	}
}
