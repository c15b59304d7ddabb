package repository

import (
	"context"
	"fmt"

	"PulseCast/internal/domain/models"
	domrepo "PulseCast/internal/domain/repository"
	pkgkafka "PulseCast/pkg/kafka"
)

// KafkaForecastPublisher ships forecasts to a Kafka topic, keyed by symbol so
// per-symbol ordering survives partitioning.
type KafkaForecastPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.ForecastPublisher = (*KafkaForecastPublisher)(nil)

// NewKafkaForecastPublisher creates the publisher on an existing producer.
func NewKafkaForecastPublisher(producer *pkgkafka.Producer, topic string) *KafkaForecastPublisher {
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

// Publish sends one forecast. The indicator table is stripped first: topic
// consumers want the composite result, not 25 rows of display text.
func (p *KafkaForecastPublisher) Publish(ctx context.Context, f *models.Forecast) error {
	lean := *f
	lean.Indicators = nil
	if err := p.producer.Publish(ctx, p.topic, []byte(f.Symbol), &lean); err != nil {
		return fmt.Errorf("publish forecast %s: %w", f.Symbol, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaForecastPublisher) Close() error {
	return p.producer.Close()
}
