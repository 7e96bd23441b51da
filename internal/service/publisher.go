// Package service publishes domain events to RabbitMQ. Errors are returned
// so callers can log them and carry on without interrupting the request
// that produced the event.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/queue"
)

// Publisher sends pick.recorded events. Each publish dials its own
// connection; the pick path is low volume.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	now         func() time.Time
}

// DefaultDialTimeout bounds the TCP connect and AMQP handshake.
const DefaultDialTimeout = 3 * time.Second

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, dialTimeout: DefaultDialTimeout, now: time.Now}
}

// dial connects within dialTimeout, cut short by ctx's deadline.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(timeout),
	})
}

// PickRecordedEvent builds the event for a stored record.
func PickRecordedEvent(rec *model.PickRecord, at time.Time) queue.PickRecordedEvent {
	ev := queue.PickRecordedEvent{
		PickRecordID:   rec.ID.String(),
		PickerID:       rec.PickerID.String(),
		OrchardBlockID: rec.OrchardBlockID.String(),
		AppleVariety:   rec.AppleVariety,
		BinsPicked:     rec.BinsPicked,
		BinRate:        rec.BinRate.StringFixed(model.MoneyPlaces),
		TotalAmount:    rec.TotalAmount().StringFixed(model.MoneyPlaces),
		PickDate:       rec.PickDate.String(),
		RecordedAt:     at.UTC().Format(time.RFC3339),
	}
	if rec.HoursWorked.Valid {
		ev.HoursWorked = rec.HoursWorked.Decimal.StringFixed(model.HoursPlaces)
	}
	return ev
}

// PublishPickRecorded publishes a persistent JSON message to the
// pick.recorded queue, declaring it first.
func (p *Publisher) PublishPickRecorded(ctx context.Context, rec *model.PickRecord) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.PickRecordedQueue, // name
		true,                    // durable
		false,                   // autoDelete
		false,                   // exclusive
		false,                   // noWait
		nil,                     // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	now := p.now()
	body, err := json.Marshal(PickRecordedEvent(rec, now))
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		MessageId:    rec.ID.String(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                      // default exchange
		queue.PickRecordedQueue, // routing key = queue name
		false,                   // mandatory
		false,                   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
