package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"maturity-service/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusChangeQueue receives one event per evaluation status change.
const StatusChangeQueue = "maturity_status_events"

// StatusChangedEvent is the payload published on every evaluation status change.
type StatusChangedEvent struct {
	EvaluationID   string    `json:"evaluation_id"`
	ServiceID      string    `json:"service_id"`
	MeasurementID  string    `json:"measurement_id"`
	CampaignID     string    `json:"campaign_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NotificationPublisher publishes evaluation events to RabbitMQ.
type NotificationPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
}

// NewNotificationPublisher creates a new evaluation event publisher.
func NewNotificationPublisher(conn *RabbitMQConnection) *NotificationPublisher {
	return &NotificationPublisher{conn: conn}
}

// PublishStatusChanged publishes one status-change event.
func (p *NotificationPublisher) PublishStatusChanged(ctx context.Context, evaluation *models.Evaluation, previous, next models.EvaluationStatus) error {
	event := StatusChangedEvent{
		EvaluationID:   evaluation.ID.String(),
		ServiceID:      evaluation.ServiceID.String(),
		MeasurementID:  evaluation.MeasurementID.String(),
		CampaignID:     evaluation.CampaignID.String(),
		PreviousStatus: string(previous),
		NewStatus:      string(next),
		OccurredAt:     time.Now(),
	}

	_, err := p.conn.Channel.QueueDeclare(
		StatusChangeQueue, // queue name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                // exchange
		StatusChangeQueue, // routing key (queue name)
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	p.messagesPublished++

	slog.Info("Status change event published",
		"queue", StatusChangeQueue,
		"evaluation_id", event.EvaluationID,
		"new_status", event.NewStatus,
	)

	return nil
}
