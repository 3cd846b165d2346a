package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

const maxInFlight = 10

// ConsumerMessage запускает чтение очереди. Сообщения обрабатываются
// параллельно, не более maxInFlight одновременно. При ошибке обработчика
// requeue решает, вернуть ли сообщение в очередь; отвергнутое сообщение
// удаляется брокером.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error, requeue func(error) bool) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					settle(log, d, handler, requeue)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// settle обрабатывает одно сообщение и подтверждает его брокеру.
func settle(log *slog.Logger, d amqp.Delivery, handler func([]byte) error, requeue func(error) bool) {
	err := handler(d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
		return
	}

	again := requeue == nil || requeue(err)
	if again {
		log.Error("handler failed, requeue", sl.Err(err))
	} else {
		log.Error("handler failed permanently, message dropped", sl.Err(err))
	}
	if nackErr := d.Nack(false, again); nackErr != nil {
		log.Error("failed to nack message", sl.Err(nackErr))
	}
}
