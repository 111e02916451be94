package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	perr "rephraser/internal/platform/errors"
	dom "rephraser/internal/services/reports/domain"

	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 10 * time.Second

// messageWriter is the part of *kafka.Writer the sink uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each report as one JSON message keyed by report id
type KafkaSink struct {
	w     messageWriter
	topic string
}

// kafkaAcks maps the configured acks name onto the writer setting
var kafkaAcks = map[string]kafka.RequiredAcks{
	"none": kafka.RequireNone,
	"one":  kafka.RequireOne,
	"all":  kafka.RequireAll,
}

// NewKafkaSink creates a synchronous writer for topic on brokers
// acks is none, one or all, anything else means one
func NewKafkaSink(brokers []string, topic, acks string) *KafkaSink {
	ra, ok := kafkaAcks[strings.ToLower(acks)]
	if !ok {
		ra = kafka.RequireOne
	}
	return &KafkaSink{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           ra,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           kafkaWriteTimeout,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

// Name implements domain.Sink
func (k *KafkaSink) Name() string { return "kafka" }

// Topic returns the destination topic
func (k *KafkaSink) Topic() string { return k.topic }

// Write implements domain.Sink
func (k *KafkaSink) Write(ctx context.Context, rep dom.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode report")
	}
	ctx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()
	msg := kafka.Message{
		Key:   []byte(rep.ID),
		Value: payload,
		Time:  rep.At,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "publish report %s", rep.ID)
	}
	return nil
}

// Close flushes and closes the writer
func (k *KafkaSink) Close() error { return k.w.Close() }
