package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/dance-studio-admin/internal/logger"
)

// ActivityConsumer appends one line per studio event to an activity log.
type ActivityConsumer struct {
	URL     string
	Queue   string
	LogPath string
}

// NewActivityConsumer returns a consumer for the studio events queue that
// writes to logPath.
func NewActivityConsumer(url, logPath string) *ActivityConsumer {
	return &ActivityConsumer{URL: url, Queue: QueueName, LogPath: logPath}
}

// Run connects, consumes and reconnects with exponential backoff (capped at
// 30s) until ctx is cancelled.  Messages that cannot be handled are rejected
// without requeue so a bad payload cannot loop forever.
func (a *ActivityConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := dial(ctx, a.URL)
		if err != nil {
			logger.LogWarn("activity consumer: dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.LogWarn("activity consumer: consume loop ended, reconnecting", "error", err)
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

func (a *ActivityConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.LogWarn("activity consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(a.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(a.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := a.handleMessage(d.Body); err != nil {
				logger.LogError("activity consumer: handle message failed", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *ActivityConsumer) handleMessage(body []byte) error {
	var ev StudioEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return AppendActivity(a.LogPath, ev)
}

// AppendActivity writes the activity line of ev to path, creating the file
// and its directory when needed.
func AppendActivity(path string, ev StudioEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatActivityLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatActivityLine renders ev on a single line, details sorted by key:
//   [2026-10-19T07:00:00Z] student.created | id=stu_4 | name="Ana" | classes=1 | monthly_fee=19
func FormatActivityLine(ev StudioEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | id=%s | name=%q", ev.OccurredAt, ev.Type, ev.EntityID, ev.Name)
	keys := make([]string, 0, len(ev.Details))
	for k := range ev.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " | %s=%v", k, ev.Details[k])
	}
	b.WriteByte('\n')
	return b.String()
}
