// Package messaging publishes battle events to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"monster-clicker/shared/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishTimeout  = 10 * time.Second
	publishAttempts = 3
	appID           = "monster-clicker"
)

// EventPublisher публикует событие из outbox.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.OutboxEvent) error
}

// RabbitMQPublisher публикует события в durable-очередь через exchange по умолчанию.
type RabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

var _ EventPublisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher открывает канал и объявляет очередь.
// Очередь объявляется здесь, чтобы порядок запуска сервисов не имел значения.
func NewRabbitMQPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("event publisher: не удалось открыть канал: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("event publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	logger = logger.Named("EventPublisher")
	logger.Info("Очередь событий объявлена", zap.String("queue", queueName))
	return &RabbitMQPublisher{channel: ch, queueName: queueName, logger: logger}, nil
}

// PublishEvent отправляет payload события как тело сообщения, тип события - в поле Type.
func (p *RabbitMQPublisher) PublishEvent(ctx context.Context, event models.OutboxEvent) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Type:         event.EventType,
		Body:         event.Payload,
		Timestamp:    event.CreatedAt,
		AppId:        appID,
	}

	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			msg,
		)
		if err == nil {
			break
		}
		p.logger.Warn("Ошибка публикации события",
			zap.Int("attempt", attempt),
			zap.String("eventType", event.EventType),
			zap.Stringer("eventID", event.ID),
			zap.Error(err))
		if attempt == publishAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("публикация события %s прервана: %w", event.ID, ctx.Err())
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	if err != nil {
		return fmt.Errorf("ошибка публикации в очередь %s после retries: %w", p.queueName, err)
	}
	p.logger.Debug("Событие опубликовано",
		zap.String("queue", p.queueName),
		zap.String("eventType", event.EventType),
		zap.Stringer("eventID", event.ID))
	return nil
}

// Close закрывает канал публикации.
func (p *RabbitMQPublisher) Close() error {
	if p.channel == nil {
		return nil
	}
	return p.channel.Close()
}

// LogPublisher используется без брокера: события только пишутся в лог.
type LogPublisher struct {
	logger *zap.Logger
}

var _ EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("LogPublisher")}
}

func (p *LogPublisher) PublishEvent(_ context.Context, event models.OutboxEvent) error {
	p.logger.Info("Событие (брокер не настроен)",
		zap.String("eventType", event.EventType),
		zap.Stringer("eventID", event.ID),
		zap.ByteString("payload", event.Payload))
	return nil
}
