package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/angelmondragon/mercadito-backend/pkg/config"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
)

const defaultWriteTimeout = 10 * time.Second

// Message is a broker-agnostic record handed to Publish.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type dialFunc func(ctx context.Context, network, address string) (*kafkago.Conn, error)

// Writer publishes records to Kafka. Topic is chosen per message.
type Writer struct {
	writer  messageWriter
	brokers []string
	timeout time.Duration
	dial    dialFunc
}

// NewWriter builds a writer for the configured brokers.
func NewWriter(cfg config.KafkaConfig, logg *logger.Logger) (*Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	}
	if logg != nil {
		logg.Info(logg.WithField(context.Background(), "brokers", cfg.Brokers), "kafka writer configured")
	}
	return &Writer{writer: w, brokers: cfg.Brokers, timeout: timeout, dial: kafkago.DialContext}, nil
}

// Publish writes one message and waits for the broker acknowledgement.
func (w *Writer) Publish(ctx context.Context, msg Message) error {
	if w == nil || w.writer == nil {
		return errors.New("kafka writer not initialized")
	}
	if msg.Topic == "" {
		return errors.New("kafka topic is required")
	}
	record := kafkago.Message{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: msg.Value,
		Time:  time.Now().UTC(),
	}
	for k, v := range msg.Headers {
		record.Headers = append(record.Headers, kafkago.Header{Key: k, Value: []byte(v)})
	}

	writeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.writer.WriteMessages(writeCtx, record); err != nil {
		return fmt.Errorf("write kafka message to %s: %w", msg.Topic, err)
	}
	return nil
}

// Ping dials the first reachable broker.
func (w *Writer) Ping(ctx context.Context) error {
	if w == nil {
		return errors.New("kafka writer not initialized")
	}
	var lastErr error
	for _, broker := range w.brokers {
		conn, err := w.dial(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	if lastErr == nil {
		lastErr = errors.New("no kafka brokers configured")
	}
	return fmt.Errorf("dial kafka: %w", lastErr)
}

// Close flushes pending writes and releases connections.
func (w *Writer) Close() error {
	if w == nil || w.writer == nil {
		return nil
	}
	return w.writer.Close()
}
