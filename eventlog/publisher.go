package eventlog

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	amino "github.com/tendermint/go-amino"
	"github.com/waynedobson/remittance/errors"
)

// Publisher forwards records outside of the node.
type Publisher interface {
	Publish(ctx context.Context, records ...Record) error
	Close() error
}

// MultiPublisher publishes to all publishers in order, stopping at the
// first failure.
type MultiPublisher []Publisher

var _ Publisher = MultiPublisher(nil)

func (m MultiPublisher) Publish(ctx context.Context, records ...Record) error {
	for _, p := range m {
		if err := p.Publish(ctx, records...); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all publishers and returns all failures.
func (m MultiPublisher) Close() error {
	var errs error
	for _, p := range m {
		errs = errors.Append(errs, p.Close())
	}
	return errs
}

// WriterPublisher writes each record as a single line of JSON.
type WriterPublisher struct {
	mu  sync.Mutex
	w   io.Writer
	cdc *amino.Codec
}

var _ Publisher = (*WriterPublisher)(nil)

// NewWriterPublisher returns a publisher writing JSON lines to w.
func NewWriterPublisher(w io.Writer, cdc *amino.Codec) *WriterPublisher {
	return &WriterPublisher{w: w, cdc: cdc}
}

func (p *WriterPublisher) Publish(_ context.Context, records ...Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range records {
		raw, err := p.cdc.MarshalJSON(records[i])
		if err != nil {
			return errors.Wrapf(errors.ErrType, "encode record: %s", err)
		}
		if _, err := p.w.Write(append(raw, '\n')); err != nil {
			return errors.Wrapf(errors.ErrInput, "write record: %s", err)
		}
	}
	return nil
}

// Close is a noop, the writer is owned by the caller.
func (p *WriterPublisher) Close() error {
	return nil
}

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// KafkaPublisher writes each record as a JSON message keyed by the
// message path.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	cdc    *amino.Codec
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher returns a publisher writing to the configured topic.
// Brokers are contacted only when the first records are published.
func NewKafkaPublisher(cfg KafkaConfig, cdc *amino.Codec) (*KafkaPublisher, error) {
	var brokers []string
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "kafka publisher requires at least one broker")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, errors.Wrap(errors.ErrInput, "kafka publisher requires a topic")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaPublisher{writer: writer, topic: topic, cdc: cdc}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, records ...Record) error {
	msgs, err := kafkaMessages(p.cdc, p.topic, records)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "kafka: %s", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func kafkaMessages(cdc *amino.Codec, topic string, records []Record) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(records))
	for i := range records {
		raw, err := cdc.MarshalJSON(records[i])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrType, "encode record: %s", err)
		}
		msgs = append(msgs, kafka.Message{
			Topic: topic,
			Key:   []byte(records[i].Path),
			Value: raw,
			Time:  records[i].Time.Time(),
		})
	}
	return msgs, nil
}
