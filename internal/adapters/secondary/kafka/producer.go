package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/xdg-go/scram"
)

// ActionRashiCalculated значение заголовка action для событий расчёта
const ActionRashiCalculated = "rashi_calculated"

// ErrProducerClosed публикация после Close
var ErrProducerClosed = errors.New("kafka producer closed")

// Producer реализация Kafka producer
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

// NewProducer подключается к брокерам; события уходят синхронно с подтверждением всех реплик
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config, err := saramaConfig(cfg)
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.GetBrokers(),
		"topic", cfg.Topic,
	)

	return newProducer(producer, cfg, log), nil
}

// saramaConfig поддерживаются PLAINTEXT, SASL_PLAINTEXT и SASL_SSL с механизмами PLAIN и SCRAM
func saramaConfig(cfg *Config) (*sarama.Config, error) {
	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	switch cfg.SecurityProtocol {
	case "", "PLAINTEXT":
		return config, nil
	case "SASL_PLAINTEXT", "SASL_SSL":
	default:
		return nil, fmt.Errorf("unsupported kafka security protocol %q", cfg.SecurityProtocol)
	}

	config.Net.SASL.Enable = true
	config.Net.SASL.User = cfg.SASLUsername
	config.Net.SASL.Password = cfg.SASLPassword
	config.Net.TLS.Enable = cfg.SecurityProtocol == "SASL_SSL"

	switch cfg.SASLMechanism {
	case "", "PLAIN":
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	case "SCRAM-SHA-256":
		config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		config.Net.SASL.SCRAMClientGeneratorFunc = newSCRAMClient(scram.SHA256)
	case "SCRAM-SHA-512":
		config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		config.Net.SASL.SCRAMClientGeneratorFunc = newSCRAMClient(scram.SHA512)
	default:
		return nil, fmt.Errorf("unsupported kafka sasl mechanism %q", cfg.SASLMechanism)
	}

	return config, nil
}

func newProducer(producer sarama.SyncProducer, cfg *Config, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// PublishCalculation отправляет тело успешного ответа, ключ сообщения - request_id.
// Ожидание подтверждения ограничено PublishTimeout; отправка, не успевшая за это время,
// завершается в фоне, Close её дожидается.
func (p *Producer) PublishCalculation(ctx context.Context, requestID uuid.UUID, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	p.inflight.Add(1)
	p.mu.RUnlock()

	if p.cfg.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.PublishTimeout)
		defer cancel()
	}

	key := requestID.String()
	msg := p.calculationMessage(key, payload)

	done := make(chan sendResult, 1)
	go func() {
		defer p.inflight.Done()
		partition, offset, err := p.producer.SendMessage(msg)
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	var res sendResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil {
		p.log.Debug("kafka send failed",
			"error", res.err,
			"topic", p.cfg.Topic,
			"key", key,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w",
			p.cfg.Topic, key, res.err)
	}

	p.log.Debug("message sent to kafka",
		"topic", p.cfg.Topic,
		"partition", res.partition,
		"offset", res.offset,
		"key", key,
	)

	return nil
}

func (p *Producer) calculationMessage(key string, payload []byte) *sarama.ProducerMessage {
	return &sarama.ProducerMessage{
		Topic: p.cfg.Topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("action"), Value: []byte(ActionRashiCalculated)},
			{Key: []byte("request_id"), Value: []byte(key)},
		},
		Timestamp: p.now(),
	}
}

// Close дожидается начатых отправок и закрывает producer
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.inflight.Wait()
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
