package messaging

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/observability/metrics"
)

type Handler func(ctx context.Context, body []byte) error

// Run feeds deliveries to handle until ctx is done or the channel closes.
// A nil result acks the message; any error rejects it without requeue.
func Run(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handle Handler, log *logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Warnf("consumer [%s]: delivery channel closed", queue)
				return
			}
			process(ctx, queue, d, handle, log)
		}
	}
}

func process(ctx context.Context, queue string, d amqp.Delivery, handle Handler, log *logger.Logger) {
	if err := handle(ctx, d.Body); err != nil {
		log.WithFields(ctx, logger.Fields{
			"queue":        queue,
			"delivery_tag": d.DeliveryTag,
			"action":       "event_rejected",
		}).Warnf("event handling failed: %v", err)
		metrics.UserEventsConsumed.WithLabelValues(queue, "rejected").Inc()
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Errorf("consumer [%s]: nack failed: %v", queue, nackErr)
		}
		return
	}

	metrics.UserEventsConsumed.WithLabelValues(queue, "acked").Inc()
	if ackErr := d.Ack(false); ackErr != nil {
		log.Errorf("consumer [%s]: ack failed: %v", queue, ackErr)
	}
}
