package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	mu         sync.Mutex
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewPublisher creates a publisher that sends insight events to exchange with routingKey
func NewPublisher(conn *Connection, exchange, routingKey string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("[RABBITMQ] failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("[RABBITMQ] failed to declare exchange: %w", err)
	}

	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

// InsightsRefreshedEvent is published after a scan changed a user's insights
type InsightsRefreshedEvent struct {
	UserID          string    `json:"user_id"`
	Kind            string    `json:"kind"`
	RecordID        string    `json:"record_id"`
	TotalDevices    int       `json:"total_devices"`
	TotalBills      int       `json:"total_bills"`
	LatestBillTotal *float64  `json:"latest_bill_total"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// PublishInsightsRefreshed publishes an insights refreshed event
func (p *Publisher) PublishInsightsRefreshed(ctx context.Context, event InsightsRefreshedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.GeneratedAt,
		},
	)
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("[RABBITMQ] failed to publish event: %w", err)
	}

	p.logger.Debug("published insights refreshed event",
		zap.String("routing_key", p.routingKey),
		zap.String("user_id", event.UserID),
		zap.String("kind", event.Kind),
	)

	return nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
