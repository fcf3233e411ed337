// Package kafka carries ledger change notifications over a Kafka topic,
// as an alternative to the AMQP transport.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"finances/internal/events"
	"finances/internal/log"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	topic  string
	logger *log.Logger
}

func NewPublisher(brokers []string, topic string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
		topic:  topic,
		logger: logger.WithComponent(log.ComponentKafka),
	}
}

// PublishLedgerChange writes the change keyed by its id.
func (p *Publisher) PublishLedgerChange(ctx context.Context, change *events.LedgerChange) error {
	data, err := change.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(change.ID),
		Value: data,
		Time:  change.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("write message to %s: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "Published ledger change",
		"id", change.ID,
		"topic", p.topic,
		log.FieldOperation, string(change.Operation))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

type Consumer struct {
	reader     messageReader
	topic      string
	retryDelay time.Duration
	logger     *log.Logger
}

func NewConsumer(brokers []string, topic, groupID string, logger *log.Logger) *Consumer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
		topic:      topic,
		retryDelay: time.Second,
		logger:     logger.WithComponent(log.ComponentKafka),
	}
}

// ConsumeLedgerChanges fetches messages until ctx is done. A message is
// committed once handler accepts it; a failing handler is retried on the
// same message. Undecodable messages are committed and skipped.
func (c *Consumer) ConsumeLedgerChanges(ctx context.Context, handler events.Handler) error {
	c.logger.InfoContext(ctx, "Started consuming ledger changes", "topic", c.topic)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.process(ctx, msg, handler); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message, handler events.Handler) error {
	change, err := events.LedgerChangeFromJSON(msg.Value)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode message",
			log.FieldError, err,
			"offset", msg.Offset)
		return nil
	}

	for {
		err := handler(ctx, change)
		if err == nil {
			return nil
		}
		c.logger.ErrorContext(ctx, "Failed to handle message, retrying",
			log.FieldError, err,
			"id", change.ID,
			"offset", msg.Offset)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
