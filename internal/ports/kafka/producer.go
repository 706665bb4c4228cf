package kafka

import (
	"context"

	"github.com/google/uuid"
)

// IKafkaProducer интерфейс для отправки событий расчёта в Kafka
type IKafkaProducer interface {
	// PublishCalculation отправляет результат успешного расчёта
	PublishCalculation(ctx context.Context, requestID uuid.UUID, payload []byte) error
	// Close закрывает producer
	Close() error
}
