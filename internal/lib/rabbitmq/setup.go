package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange direct-обменник, через который идут все уведомления.
const Exchange = "notifications"

// QueueConfig очередь и ключ маршрутизации, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// MailQueue очередь писем, которую читает воркер рассылки.
var MailQueue = QueueConfig{QueueName: "notifications.mail", RoutingKey: "mail"}

// GetNotificationQueues возвращает все очереди уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{MailQueue}
}

// SetupChannel открывает канал и объявляет обменник и очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
