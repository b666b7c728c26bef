// Package events publishes payment results to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/IBM/sarama"
	"github.com/rookgm/paygateway/internal/models"
)

// DefaultTopic is topic for payment events
const DefaultTopic = "payment-events"

// NewProducer creates Kafka sync producer
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return producer, nil
}

// KafkaPublisher publishes payment events keyed by order number
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher creates new KafkaPublisher instance
func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends event, events of one order go to one partition
func (kp *KafkaPublisher) Publish(_ context.Context, event models.PaymentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: kp.topic,
		Key:   sarama.StringEncoder(event.OrderNumber),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	}

	if _, _, err := kp.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// Close closes producer
func (kp *KafkaPublisher) Close() error {
	return kp.producer.Close()
}

// NopPublisher drops events, it is used when no brokers are configured
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, models.PaymentEvent) error {
	return nil
}
