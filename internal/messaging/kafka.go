package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
)

// KafkaPublisher writes events to a single topic, keyed by event type.
type KafkaPublisher struct {
	conn  sarama.SyncProducer
	topic string
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	saramaConf := sarama.NewConfig()
	saramaConf.Producer.Return.Successes = true
	saramaConf.Producer.Return.Errors = true
	saramaConf.Producer.RequiredAcks = sarama.WaitForAll

	client, err := sarama.NewClient(brokers, saramaConf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	conn, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	log.Printf("connected to Kafka, publishing to topic %s", topic)
	return &KafkaPublisher{conn: conn, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("event serialization error: %w", err)
	}
	_, _, err = p.conn.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.RoutingKey()),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("event publish error: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.conn.Close() }

// Fanout publishes every event to each of its publishers.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, evt Event) error {
	var errList []error
	for _, p := range f {
		errList = append(errList, p.Publish(ctx, evt))
	}
	return errors.Join(errList...)
}

func (f Fanout) Close() error {
	var errList []error
	for _, p := range f {
		errList = append(errList, p.Close())
	}
	return errors.Join(errList...)
}
