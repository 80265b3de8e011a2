package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Event — событие аутентификации, публикуемое в exchange.
type Event struct {
	Name       string    `json:"name"`     // Имя события, например user.registered
	UserUID    string    `json:"user_uid"` // Идентификатор пользователя
	Email      string    `json:"email"`    // Email пользователя
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher публикует события аутентификации в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает новый Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish публикует событие с routing key, равным имени события.
func (p *Publisher) Publish(event Event) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		event.Name,
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
