package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/IBM/sarama"

	"dispatcherhub/internal/domain"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes load status events to Kafka, keyed by load id.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a Producer. It returns nil when Kafka is not configured.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewProducerWith(p, topic), nil
}

// NewProducerWith wraps an existing sarama producer.
func NewProducerWith(p sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: p, topic: topic}
}

// Publish sends e and waits for the broker acknowledgement.
func (p *Producer) Publish(ctx context.Context, e domain.LoadStatusChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(FromDomain(e))
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(e.LoadID, 10)),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("kafka: publish load %d: %w", e.LoadID, err)
	}
	return nil
}

// Close flushes and closes the producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
