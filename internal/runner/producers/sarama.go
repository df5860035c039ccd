package producers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/mealplanner/internal/models"
	"go.uber.org/zap"
)

type SaramaProducer struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      *zap.Logger
}

func newSaramaConfig(config *models.Config) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if config.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second
	}
	return saramaConfig
}

func NewSaramaProducer(config *models.Config, logger *zap.Logger) (*SaramaProducer, error) {
	brokerList := strings.Split(config.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, newSaramaConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.Info("sarama producer created", zap.Strings("brokers", brokerList))
	return NewSaramaProducerFrom(producer, config.KafkaTopicPrefix, logger), nil
}

// NewSaramaProducerFrom wraps an existing SyncProducer.
func NewSaramaProducerFrom(producer sarama.SyncProducer, topicPrefix string, logger *zap.Logger) *SaramaProducer {
	return &SaramaProducer{producer: producer, topicPrefix: topicPrefix, logger: logger}
}

func (s *SaramaProducer) topic(name string) string {
	if s.topicPrefix == "" {
		return name
	}
	return s.topicPrefix + "." + name
}

func (s *SaramaProducer) WriteMessage(topic string, msg []byte) error {
	if s.producer == nil {
		return errors.New("sarama producer is not initialized")
	}

	fullTopic := s.topic(topic)
	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: fullTopic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		s.logger.Error("failed to send message", zap.String("topic", fullTopic), zap.Error(err))
		return fmt.Errorf("send to %s: %w", fullTopic, err)
	}

	s.logger.Debug("message sent",
		zap.String("topic", fullTopic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
