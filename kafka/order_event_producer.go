package kafka

import (
	"context"
	"encoding/json"

	"github.com/sohan0019/PlantNet/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderEventProducer publishes order lifecycle events, keyed by order
// id so events for one order stay in partition order.
type OrderEventProducer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewOrderEventProducer(brokers []string, topic string, logger *zap.Logger) *OrderEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Kafka order event producer initialized",
		zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &OrderEventProducer{writer: w, topic: topic, logger: logger}
}

func (p *OrderEventProducer) PublishOrderEvent(event models.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Warn("Failed to write order event",
			zap.String("order_id", event.OrderID), zap.Error(err))
		return err
	}

	p.logger.Info("Order event published",
		zap.String("type", event.Type), zap.String("order_id", event.OrderID))
	return nil
}

func (p *OrderEventProducer) Close() {
	_ = p.writer.Close()
	p.logger.Info("Kafka order event producer closed")
}
