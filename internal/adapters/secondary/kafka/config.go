package kafka

import (
	"strings"
	"time"
)

// Config конфигурация Kafka producer событий расчёта
type Config struct {
	Brokers          string `envconfig:"BROKERS"`                            // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC" default:"rashi_calculations"` // название топика
	ClientID         string `envconfig:"CLIENT_ID" default:"rashi-api"`
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"` // "SASL_SSL", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`    // "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
	// PublishTimeout сколько ответ ждёт подтверждения брокера, 0 - без ограничения
	PublishTimeout time.Duration `envconfig:"PUBLISH_TIMEOUT" default:"2s"`
}

// Enabled события отправляются, только если заданы брокеры
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.Brokers) != ""
}

// GetBrokers возвращает список брокеров из строки
func (c *Config) GetBrokers() []string {
	if c.Brokers == "" {
		return []string{"localhost:9092"}
	}
	brokers := strings.Split(c.Brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}
