package queue

import (
	"fmt"
	"strings"

	"github.com/costwatch/costwatch/internal/config"
)

// NewPublisher creates a Publisher based on configuration.
// Default is NATS if type is not specified
func NewPublisher(cfg config.AlertsConfig) (Publisher, error) {
	queueType := Type(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = TypeNATS
	}

	switch queueType {
	case TypeNATS:
		return NewNATSQueue(NATSConfig{
			URL:           cfg.URL,
			Username:      cfg.Username,
			Password:      cfg.Password,
			SubjectPrefix: cfg.SubjectPrefix,
		})

	case TypeRedis:
		return NewRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.SubjectPrefix,
		})

	case TypeKafka:
		return NewKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
		})

	case TypeMemory:
		return NewMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}
