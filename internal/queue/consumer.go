// Package queue contains the background consumer that listens to the
// pick.recorded queue and writes one line per event to logs/picks.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PickLogFile is the file, inside the consumer's directory, that events are
// appended to.
const PickLogFile = "picks.log"

// Consumer drains pick.recorded into a log file.
type Consumer struct {
	URL    string // AMQP broker URL
	LogDir string // directory holding PickLogFile
	Logger *log.Logger
}

// NewConsumer returns a consumer writing under logDir.
func NewConsumer(url, logDir string) *Consumer {
	return &Consumer{URL: url, LogDir: logDir, Logger: log.New("pick-consumer")}
}

// Run connects to the broker, declares the queue (durable) and consumes
// until ctx is cancelled. Dial failures back off exponentially up to 30s;
// a dropped connection is re-established after a short pause.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Logger.Warnf("failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Logger.Warnf("consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warnf("set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(PickRecordedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, PickRecordedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.HandleMessage(d.Body); err != nil {
			c.Logger.Errorf("handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleMessage decodes one event and appends it to the log file.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev PickRecordedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, PickLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders an event as a single newline-terminated log line.
func FormatLine(ev PickRecordedEvent) string {
	hours := ev.HoursWorked
	if hours == "" {
		hours = "-"
	}
	return fmt.Sprintf("[%s] Pick recorded | pick_record_id=%s | picker_id=%s | block_id=%s | variety=%q | bins=%d | rate=%s | total=%s | hours=%s | date=%s\n",
		ev.RecordedAt, ev.PickRecordID, ev.PickerID, ev.OrchardBlockID, ev.AppleVariety,
		ev.BinsPicked, ev.BinRate, ev.TotalAmount, hours, ev.PickDate)
}
