package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/nguyentranbao-ct/product-catalog/internal/config"
	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
	"github.com/nguyentranbao-ct/product-catalog/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Publisher emits product change events.
type Publisher interface {
	Publish(ctx context.Context, event models.ProductEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *prometheus.HistogramVec
	log      *zap.SugaredLogger
}

// NewPublisher returns a sarama backed publisher, or a no-op one when events
// are disabled.
func NewPublisher(cfg *config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = cfg.ClientID
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3
	saramaCfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}
	return NewSyncPublisher(producer, cfg.Topic)
}

func NewSyncPublisher(producer sarama.SyncProducer, topic string) (Publisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_published", "status", "topic", "type")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		log:      logger.MustNamed("kafka"),
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event models.ProductEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ProductID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
		Timestamp: event.OccurredAt,
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	duration := time.Since(start)

	code := getCode(err)
	p.metrics.
		WithLabelValues(code.String(), p.topic, string(event.Type)).
		Observe(duration.Seconds())

	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	p.log.Debugw("event published",
		"type", event.Type,
		"product_id", event.ProductID,
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"duration_ms", duration.Milliseconds(),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unavailable
}

// noopPublisher is used when events are disabled
type noopPublisher struct{}

func (*noopPublisher) Publish(context.Context, models.ProductEvent) error {
	return nil
}

func (*noopPublisher) Close() error {
	return nil
}
