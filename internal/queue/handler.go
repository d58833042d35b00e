package queue

import (
	"context"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// Retries reads the x-retries header of a delivery.
func Retries(headers amqp091.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// HandleProcessingError moves a failed delivery to the retry queue, or to
// the dead-letter queue once it has been retried MaxRetries times. The
// delivery is acked after a successful republish and requeued otherwise.
func HandleProcessingError(ctx context.Context, ch Publisher, msg amqp091.Delivery, queueName string) {
	retries := Retries(msg.Headers)

	target := RetryQueue(queueName)
	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	if retries >= MaxRetries {
		target = DeadLetterQueue(queueName)
		logger.Warn("[Queue] Sending message to DLQ", "dlq", target, "retries", retries)
	} else {
		headers["x-retries"] = int32(retries + 1)
	}

	err := ch.PublishWithContext(ctx, "", target, false, false, amqp091.Publishing{
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers:      headers,
		DeliveryMode: amqp091.Persistent,
	})
	if err != nil {
		logger.Error("[Queue] Failed to republish message", "queue", target, "err", err)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}

// Handler processes one message body.
type Handler func(ctx context.Context, body []byte) error

// Consume delivers messages from deliveries to handle one at a time until
// ctx is done or the channel closes. Failed messages go through
// HandleProcessingError.
func Consume(ctx context.Context, ch Publisher, queueName string, deliveries <-chan amqp091.Delivery, handle Handler) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("[Queue] Stopping consumer", "queue", queueName)
			return
		case msg, ok := <-deliveries:
			if !ok {
				logger.Info("[Queue] Message channel closed", "queue", queueName)
				return
			}

			start := time.Now()
			logger.Info("[Queue] Received message", "queue", queueName)
			if err := handle(ctx, msg.Body); err != nil {
				logger.Error("[Queue] Error processing message", "queue", queueName, "err", err)
				HandleProcessingError(ctx, ch, msg, queueName)
				continue
			}
			if err := msg.Ack(false); err != nil {
				logger.Error("[Queue] Failed to ack message", "err", err)
			}
			logger.Info("[Queue] Message processed", "queue", queueName, "duration", time.Since(start).Round(time.Millisecond))
		}
	}
}
