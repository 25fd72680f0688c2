package auditlog

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"gopkg.in/matryer/try.v1"
)

const (
	kafkaPartition    = 0
	maxRetries        = 30
	reconnectInterval = time.Second
)

func init() {
	try.MaxRetries = maxRetries
}

type KafkaLog struct {
	ctx    context.Context
	writer *kafka.Conn
	reader *kafka.Reader

	kafkaEndpoint string
	kafkaTopic    string

	producerCreds *KafkaAuthCredentials
	consumerCreds *KafkaAuthCredentials
	tlsConfig     *tls.Config
}

type KafkaAuthCredentials struct {
	Username string
	Password string
}

func GetTLSConfig(trustStorePath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(trustStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trustStorePath: %w", err)
	}

	caCertPool := x509.NewCertPool()
	caCertPool.AppendCertsFromPEM(caCert)

	config := &tls.Config{
		RootCAs: caCertPool,
	}
	return config, nil
}

func NewKafkaLog(ctx context.Context, kafkaEndpoint string, kafkaTopic string, tlsConfig *tls.Config, producerCreds, consumerCreds *KafkaAuthCredentials) (Log, error) {
	l := &KafkaLog{
		ctx:           ctx,
		kafkaEndpoint: kafkaEndpoint,
		kafkaTopic:    kafkaTopic,
		tlsConfig:     tlsConfig,
		producerCreds: producerCreds,
		consumerCreds: consumerCreds,
	}

	if err := l.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return l, nil
}

func (l *KafkaLog) Append(event Event) (Event, error) {
	event.ID = uuid.New().String()
	if event.At.IsZero() {
		event.At = time.Now()
	}

	err := try.Do(func(attempt int) (bool, error) {
		var err error
		event, err = l.append(event)
		if err != nil {
			log.Printf("failed while trying to append event (%v), trying to reconnect", err)
			if err := l.connect(); err != nil {
				log.Printf("failed to reconnect (%v), %d retries left", err, try.MaxRetries-attempt)
			}
			time.Sleep(reconnectInterval)
		}

		return attempt < try.MaxRetries, err
	})

	return event, err
}

func (l *KafkaLog) append(event Event) (Event, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return event, fmt.Errorf("failed to marshal an event %v: %v", event, err)
	}

	if err := l.writer.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
		return event, fmt.Errorf("failed to SetWriteDeadline: %w", err)
	}

	if _, err := l.writer.WriteMessages(kafka.Message{Key: []byte(event.ID), Value: data}); err != nil {
		return event, fmt.Errorf("failed to WriteMessages: %w", err)
	}

	return event, nil
}

func (l *KafkaLog) Read(offset uint64) (events []Event, err error) {
	err = try.Do(func(attempt int) (bool, error) {
		var err error
		events, err = l.read(offset)
		if err != nil {
			log.Printf("failed while trying to read events (%v), trying to reconnect", err)
			if err := l.connect(); err != nil {
				log.Printf("failed to reconnect (%v), %d retries left", err, try.MaxRetries-attempt)
			}
			time.Sleep(reconnectInterval)
		}

		return attempt < try.MaxRetries, err
	})

	return events, err
}

func (l *KafkaLog) read(offset uint64) ([]Event, error) {
	if err := l.reader.SetOffset(int64(offset)); err != nil {
		return nil, fmt.Errorf("failed to SetOffset: %w", err)
	}

	lag, err := l.reader.ReadLag(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to ReadLag: %w", err)
	}
	var (
		event  Event
		events []Event
		i      int64
	)
	for i = 0; i < lag; i++ {
		kafkaMessage, err := l.reader.ReadMessage(context.Background())
		if err != nil {
			break
		}

		if err = json.Unmarshal(kafkaMessage.Value, &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal an event %s: %v",
				string(kafkaMessage.Value), err)
		}

		event.Offset = uint64(kafkaMessage.Offset)
		events = append(events, event)
	}

	return events, nil
}

func (l *KafkaLog) Close() error {
	if l.writer != nil {
		if err := l.writer.Close(); err != nil {
			return fmt.Errorf("failed to close writer: %w", err)
		}
	}

	if l.reader != nil {
		if err := l.reader.Close(); err != nil {
			return fmt.Errorf("failed to close reader: %w", err)
		}
	}

	return nil
}

func (l *KafkaLog) connect() error {
	_ = l.Close()

	mechanismProducer := plain.Mechanism{Username: l.producerCreds.Username, Password: l.producerCreds.Password}
	mechanismConsumer := plain.Mechanism{Username: l.consumerCreds.Username, Password: l.consumerCreds.Password}

	dialerProducer := &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           l.tlsConfig,
		SASLMechanism: mechanismProducer,
	}
	dialerConsumer := &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           l.tlsConfig,
		SASLMechanism: mechanismConsumer,
	}

	conn, err := dialerProducer.DialLeader(l.ctx, "tcp", l.kafkaEndpoint, l.kafkaTopic, kafkaPartition)
	if err != nil {
		return fmt.Errorf("failed to init Kafka client: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{l.kafkaEndpoint},
		Topic:     l.kafkaTopic,
		Partition: kafkaPartition,
		MaxWait:   time.Second,
		Dialer:    dialerConsumer,
	})

	l.writer, l.reader = conn, reader

	return nil
}
