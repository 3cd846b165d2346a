package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

// PublishMessage публикует сообщение в RabbitMQ в формате JSON.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Dialer открывает новое соединение с брокером.
type Dialer func() (*amqp.Connection, error)

// Publisher ставит письма в очередь MailQueue. Закрытый брокером канал
// или соединение открываются заново при следующей публикации.
type Publisher struct {
	mu     sync.Mutex
	log    *slog.Logger
	dial   Dialer
	queues []QueueConfig

	conn       *amqp.Connection
	ch         *amqp.Channel
	connClosed chan *amqp.Error
	chClosed   chan *amqp.Error
}

// NewPublisher подключается к брокеру и объявляет очереди.
func NewPublisher(log *slog.Logger, dial Dialer, queues []QueueConfig) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"

	p := &Publisher{log: log, dial: dial, queues: queues}
	if err := p.reopen(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func closed(c chan *amqp.Error) bool {
	if c == nil {
		return true
	}
	select {
	case <-c:
		return true
	default:
		return false
	}
}

// reopen восстанавливает соединение и канал. Вызывается под p.mu.
func (p *Publisher) reopen() error {
	if p.conn == nil || closed(p.connClosed) {
		conn, err := p.dial()
		if err != nil {
			return err
		}
		p.conn = conn
		p.connClosed = conn.NotifyClose(make(chan *amqp.Error, 1))
		p.ch = nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}

	ch, err := SetupChannel(p.conn, p.queues)
	if err != nil {
		return err
	}
	p.ch = ch
	p.chClosed = ch.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

// Publish отправляет письмо в очередь.
func (p *Publisher) Publish(ctx context.Context, msg models.MailMessage) error {
	const op = "rabbitmq.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || closed(p.chClosed) || closed(p.connClosed) {
		p.log.Warn("amqp channel closed, reopening")
		if err := p.reopen(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	err := PublishMessage(p.ch, Exchange, MailQueue.RoutingKey, msg)
	if errors.Is(err, amqp.ErrClosed) {
		// закрытие могло прийти между проверкой и публикацией
		if err := p.reopen(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		err = PublishMessage(p.ch, Exchange, MailQueue.RoutingKey, msg)
	}
	return err
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
