// Package worker runs background jobs of the battle service.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"monster-clicker/internal/messaging"
	"monster-clicker/shared/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	DefaultRelayInterval  = 2 * time.Second
	DefaultRelayBatchSize = 50

	// Аренда пачки: после нее необработанные события может забрать другой релей
	claimLease = 5 * time.Minute
)

var outboxPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "battle_outbox_events_total",
		Help: "Total number of outbox events handled by the relay, by result.",
	},
	[]string{"result"},
)

// OutboxRelay периодически переносит события из outbox в брокер.
type OutboxRelay struct {
	tx        interfaces.Transactor
	outbox    interfaces.OutboxRepository
	publisher messaging.EventPublisher
	interval  time.Duration
	batchSize int
	clock     func() time.Time
	logger    *zap.Logger

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// NewOutboxRelay создает воркер. Нулевые interval и batchSize заменяются значениями по умолчанию.
func NewOutboxRelay(
	tx interfaces.Transactor,
	outbox interfaces.OutboxRepository,
	publisher messaging.EventPublisher,
	interval time.Duration,
	batchSize int,
	logger *zap.Logger,
) *OutboxRelay {
	if interval <= 0 {
		interval = DefaultRelayInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultRelayBatchSize
	}
	return &OutboxRelay{
		tx:           tx,
		outbox:       outbox,
		publisher:    publisher,
		interval:     interval,
		batchSize:    batchSize,
		clock:        time.Now,
		logger:       logger.Named("OutboxRelay"),
		shutdownChan: make(chan struct{}),
	}
}

// Start запускает цикл публикации в отдельной горутине.
func (r *OutboxRelay) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.shutdownChan:
				r.logger.Info("Остановка outbox relay...")
				return
			case <-ctx.Done():
				r.logger.Info("Контекст outbox relay отменен")
				return
			case <-ticker.C:
				if _, err := r.RelayOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
					r.logger.Error("Ошибка цикла outbox relay", zap.Error(err))
				}
			}
		}
	}()
	r.logger.Info("Outbox relay запущен", zap.Duration("interval", r.interval), zap.Int("batchSize", r.batchSize))
}

// Stop останавливает цикл и ждет завершения текущей итерации.
func (r *OutboxRelay) Stop() {
	r.stopOnce.Do(func() { close(r.shutdownChan) })
	r.wg.Wait()
}

// RelayOnce публикует одну пачку событий и возвращает число опубликованных.
// Пачка арендуется на claimLease, публикация идет вне транзакции хранилища.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	events, err := r.outbox.ClaimPending(ctx, nil, r.batchSize, r.clock().UTC(), claimLease)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	results := make([]error, len(events))
	for i, event := range events {
		results[i] = r.publisher.PublishEvent(ctx, event)
	}

	published := 0
	err = r.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		published = 0
		for i, event := range events {
			pubErr := results[i]
			if pubErr != nil {
				if err := r.outbox.MarkFailed(ctx, tx, event.ID, pubErr.Error()); err != nil {
					return err
				}
				continue
			}
			if err := r.outbox.MarkPublished(ctx, tx, event.ID, r.clock().UTC()); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i, event := range events {
		if pubErr := results[i]; pubErr != nil {
			outboxPublishedTotal.WithLabelValues("failed").Inc()
			r.logger.Warn("Не удалось опубликовать событие",
				zap.Stringer("eventID", event.ID),
				zap.String("eventType", event.EventType),
				zap.Int("attempts", event.Attempts+1),
				zap.Error(pubErr))
			continue
		}
		outboxPublishedTotal.WithLabelValues("published").Inc()
	}
	if published > 0 {
		r.logger.Debug("События опубликованы", zap.Int("count", published))
	}
	return published, nil
}
