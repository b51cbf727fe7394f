package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"fastcart-api/internal/model"
)

type MediaCleanupPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewMediaCleanupPublisher(conn *amqp.Connection, queueName string) *MediaCleanupPublisher {
	return &MediaCleanupPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *MediaCleanupPublisher) Publish(ctx context.Context, job model.MediaCleanupJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal cleanup job failed: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			MessageId:    job.CategoryID,
		},
	); err != nil {
		return fmt.Errorf("publish cleanup job failed: %w", err)
	}
	return nil
}
