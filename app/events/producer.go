package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	ResultApproved    = "approved"
	ResultDisapproved = "disapproved"
)

// Writer is the subset of kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ResetTokenMessage struct {
	User  *dto.UserResponse `json:"user"`
	Token string            `json:"token"`
}

type ValidationResultMessage struct {
	User   *dto.UserResponse `json:"user"`
	Result string            `json:"result"`
}

type Producer struct {
	writer          Writer
	resetTokenTopic string
	validationTopic string
}

func NewProducer(brokers []string, resetTokenTopic, validationTopic string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewProducerWithWriter(w, resetTokenTopic, validationTopic)
}

func NewProducerWithWriter(w Writer, resetTokenTopic, validationTopic string) *Producer {
	return &Producer{
		writer:          w,
		resetTokenTopic: resetTokenTopic,
		validationTopic: validationTopic,
	}
}

func (p *Producer) PublishResetToken(ctx context.Context, user *dto.UserResponse, token string) error {
	return p.publish(ctx, p.resetTokenTopic, user.SecureID, ResetTokenMessage{User: user, Token: token})
}

func (p *Producer) PublishValidationResult(ctx context.Context, user *dto.UserResponse, result string) error {
	return p.publish(ctx, p.validationTopic, user.SecureID, ValidationResultMessage{User: user, Result: result})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func (p *Producer) publish(ctx context.Context, topic, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", topic, err)
	}

	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: payload}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"topic": topic,
			"key":   key,
		}).Error("Kafka write failed")
		return err
	}

	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
	logrus.WithFields(logrus.Fields{
		"topic": topic,
		"key":   key,
	}).Debug("Kafka message published")
	return nil
}
