package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
)

// Dispatcher hands overdue-loan notices to the delivery pipeline. Delivery
// is fire-and-forget: callers get their response as soon as the projection
// is computed, and actual sending happens in the background.
type Dispatcher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher over an optional Kafka writer. With a
// nil writer the dispatcher only logs, which keeps the notify endpoint
// functional without a broker.
func NewDispatcher(writer *kafka.Writer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		writer: writer,
		logger: logger,
	}
}

// DispatchOverdueNotices publishes one message per notice in the background.
// Transient broker failures are retried with exponential backoff before the
// batch is dropped and logged.
func (d *Dispatcher) DispatchOverdueNotices(notices []model.OverdueNotice) {
	if len(notices) == 0 {
		return
	}
	if d.writer == nil {
		d.logger.Info("overdue notice dispatch skipped, no broker configured",
			zap.Int("notices", len(notices)))
		return
	}

	go d.publish(notices)
}

func (d *Dispatcher) publish(notices []model.OverdueNotice) {
	messages := make([]kafka.Message, 0, len(notices))
	for _, notice := range notices {
		payload, err := json.Marshal(notice)
		if err != nil {
			d.logger.Error("failed to marshal overdue notice", zap.Error(err))
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(notice.Email),
			Value: payload,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err := backoff.Retry(func() error {
		return d.writer.WriteMessages(ctx, messages...)
	}, policy)

	if err != nil {
		d.logger.Error("failed to dispatch overdue notices",
			zap.Error(err), zap.Int("notices", len(messages)))
		return
	}

	d.logger.Info("dispatched overdue notices", zap.Int("notices", len(messages)))
}
