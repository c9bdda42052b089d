package event

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/avetrov/reporthub/pkg/kafka"
	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/domain"
)

const source = "reporthub"

var (
	topicUserRegistered = kafka.Topic("user", "registered")
	topicReportCreated  = kafka.Topic("report", "created")
)

// UserRegistered is the payload of the user.registered event.
type UserRegistered struct {
	UserID    int64     `json:"userId"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReportCreated is the payload of the report.created event.
type ReportCreated struct {
	ReportID  int64     `json:"reportId"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publisher emits domain events to Kafka. A nil Publisher is a no-op, which
// keeps the service layer testable without a broker.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewPublisher(producer *kafka.Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

// PublishUserRegistered emits a user.registered event. Failures are logged,
// not returned: registration must not fail because the broker is down.
func (p *Publisher) PublishUserRegistered(ctx context.Context, user *domain.User, role string) {
	if p == nil || p.producer == nil {
		return
	}
	payload := UserRegistered{
		UserID:    user.ID,
		Login:     user.Login,
		Role:      role,
		CreatedAt: user.CreatedAt,
	}
	p.publish(ctx, topicUserRegistered, "user.registered", strconv.FormatInt(user.ID, 10), "user", payload)
}

// PublishReportCreated emits a report.created event.
func (p *Publisher) PublishReportCreated(ctx context.Context, report *domain.Report) {
	if p == nil || p.producer == nil {
		return
	}
	payload := ReportCreated{
		ReportID:  report.ID,
		UserID:    report.UserID,
		Name:      report.Name,
		CreatedAt: report.CreatedAt,
	}
	p.publish(ctx, topicReportCreated, "report.created", strconv.FormatInt(report.ID, 10), "report", payload)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.log(ctx).Error("build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	evt = evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.log(ctx).Error("publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

func (p *Publisher) log(ctx context.Context) *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return logger.WithContext(ctx, p.logger)
}
