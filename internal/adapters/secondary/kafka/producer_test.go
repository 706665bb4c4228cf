package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.Enabled())
	assert.False(t, (&Config{Brokers: "  "}).Enabled())
	assert.True(t, (&Config{Brokers: "kafka:9092"}).Enabled())

	assert.Equal(t, []string{"localhost:9092"}, (&Config{}).GetBrokers())
	assert.Equal(t, []string{"a:9092", "b:9092"}, (&Config{Brokers: "a:9092, b:9092"}).GetBrokers())
}

func TestProducer_PublishCalculation(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)

	requestID := uuid.New()
	payload := []byte(`{"success":true}`)

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "rashi_calculations", msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, requestID.String(), string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		assert.Equal(t, payload, value)

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[string(h.Key)] = string(h.Value)
		}
		assert.Equal(t, map[string]string{
			"action":     ActionRashiCalculated,
			"request_id": requestID.String(),
		}, headers)
		return nil
	})

	p := newProducer(sp, &Config{Topic: "rashi_calculations"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, p.PublishCalculation(context.Background(), requestID, payload))
	require.NoError(t, p.Close())
}

func TestProducer_PublishCalculationFails(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(sp, &Config{Topic: "rashi_calculations"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := p.PublishCalculation(context.Background(), uuid.New(), []byte(`{}`))
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	assert.ErrorContains(t, err, "topic=rashi_calculations")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishCalculation(ctx, uuid.New(), nil), context.Canceled)

	require.NoError(t, p.Close())
}

func TestSaramaConfig(t *testing.T) {
	plain, err := saramaConfig(&Config{ClientID: "rashi-api"})
	require.NoError(t, err)
	assert.Equal(t, "rashi-api", plain.ClientID)
	assert.False(t, plain.Net.SASL.Enable)
	assert.Equal(t, sarama.WaitForAll, plain.Producer.RequiredAcks)

	scram, err := saramaConfig(&Config{
		SecurityProtocol: "SASL_SSL",
		SASLMechanism:    "SCRAM-SHA-256",
		SASLUsername:     "user",
		SASLPassword:     "pass",
	})
	require.NoError(t, err)
	assert.True(t, scram.Net.SASL.Enable)
	assert.True(t, scram.Net.TLS.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA256), scram.Net.SASL.Mechanism)
	require.NotNil(t, scram.Net.SASL.SCRAMClientGeneratorFunc)
	require.NoError(t, scram.Validate())

	scram512, err := saramaConfig(&Config{
		SecurityProtocol: "SASL_PLAINTEXT",
		SASLMechanism:    "SCRAM-SHA-512",
		SASLUsername:     "user",
		SASLPassword:     "pass",
	})
	require.NoError(t, err)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA512), scram512.Net.SASL.Mechanism)
	require.NoError(t, scram512.Validate())

	saslPlain, err := saramaConfig(&Config{SecurityProtocol: "SASL_PLAINTEXT", SASLUsername: "user", SASLPassword: "pass"})
	require.NoError(t, err)
	require.NoError(t, saslPlain.Validate())
	assert.False(t, saslPlain.Net.TLS.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypePlaintext), saslPlain.Net.SASL.Mechanism)

	_, err = saramaConfig(&Config{SecurityProtocol: "SSL"})
	assert.ErrorContains(t, err, "security protocol")

	_, err = saramaConfig(&Config{SecurityProtocol: "SASL_SSL", SASLMechanism: "GSSAPI"})
	assert.ErrorContains(t, err, "sasl mechanism")
}

func TestSCRAMClient_Begin(t *testing.T) {
	cfg, err := saramaConfig(&Config{
		SecurityProtocol: "SASL_SSL",
		SASLMechanism:    "SCRAM-SHA-256",
	})
	require.NoError(t, err)

	client := cfg.Net.SASL.SCRAMClientGeneratorFunc()
	require.NoError(t, client.Begin("user", "pass", ""))

	first, err := client.Step("")
	require.NoError(t, err)
	assert.Contains(t, first, "n=user")
	assert.False(t, client.Done())
}

// blockingProducer держит SendMessage до закрытия release
type blockingProducer struct {
	sarama.SyncProducer
	release chan struct{}
	sent    chan struct{}
	closed  bool
}

func (b *blockingProducer) SendMessage(*sarama.ProducerMessage) (int32, int64, error) {
	<-b.release
	close(b.sent)
	return 0, 1, nil
}

func (b *blockingProducer) Close() error {
	b.closed = true
	return nil
}

func TestProducer_PublishTimeout(t *testing.T) {
	bp := &blockingProducer{release: make(chan struct{}), sent: make(chan struct{})}
	p := newProducer(bp, &Config{Topic: "rashi_calculations", PublishTimeout: 20 * time.Millisecond},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	start := time.Now()
	err := p.PublishCalculation(context.Background(), uuid.New(), []byte(`{}`))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	// Close ждёт зависшую отправку
	closeErr := make(chan error, 1)
	go func() { closeErr <- p.Close() }()

	select {
	case <-closeErr:
		t.Fatal("Close returned before in-flight send finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(bp.release)
	require.NoError(t, <-closeErr)
	<-bp.sent
	assert.True(t, bp.closed)
}

func TestProducer_PublishAfterClose(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)

	p := newProducer(sp, &Config{Topic: "rashi_calculations"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.PublishCalculation(context.Background(), uuid.New(), []byte(`{}`)), ErrProducerClosed)
}
