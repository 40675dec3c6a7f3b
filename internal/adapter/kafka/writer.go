package kafka

import (
	"context"
	"log/slog"

	"github.com/roadwatch/dgt-situation-etl/internal/config"
	"github.com/roadwatch/dgt-situation-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces extracted situations to the sink Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes the situations from one extraction
// cycle in a single WriteMessages call.
func (w *Writer) PublishBatch(ctx context.Context, situations []domain.Situation) error {
	if len(situations) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(situations))
	for i := range situations {
		event, err := domain.SerializeSituation(situations[i])
		if err != nil {
			return err
		}
		msgs[i] = toMessage(event)
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts a serialized output event into a Kafka message.
func toMessage(event domain.OutputEvent) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(event.Headers))
	for k, v := range event.Headers {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
