package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
)

// requeueDelay пауза перед возвратом сообщения в очередь после первой ошибки.
const requeueDelay = time.Second

// ConsumerMessage запускает обработку сообщений очереди queueName.
// Сообщение подтверждается при успешной обработке. После первой ошибки оно
// возвращается в очередь с паузой, после ошибки повторной доставки отбрасывается.
// Одновременно обрабатывается не более 10 сообщений.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
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

	log = log.With(slog.String("queue", queueName))
	sem := make(chan struct{}, 10)
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
					handleDelivery(ctx, log, d, handler, requeueDelay)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// handleDelivery обрабатывает одно сообщение и подтверждает, возвращает или отбрасывает его.
func handleDelivery(ctx context.Context, log *slog.Logger, d amqp.Delivery, handler func([]byte) error, delay time.Duration) {
	err := handler(d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
		return
	}

	if d.Redelivered {
		log.Error("message handling failed after redelivery, dropping", sl.Err(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}

	log.Warn("message handling failed, requeue", sl.Err(err))
	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
	case <-timer.C:
	}
	if nackErr := d.Nack(false, true); nackErr != nil {
		log.Error("failed to nack message", sl.Err(nackErr))
	}
}
