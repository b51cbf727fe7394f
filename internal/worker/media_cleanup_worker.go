package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"fastcart-api/internal/model"
	"fastcart-api/internal/platform/rabbitmq"
)

// MediaDeleter is the part of the media host the worker needs.
type MediaDeleter interface {
	Delete(ctx context.Context, publicID string) error
}

// Delivery is the subset of amqp.Delivery the worker acks against.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// MediaCleanupWorker consumes cleanup jobs published on category deletion
// and removes the hosted images. Every job is attempted once.
type MediaCleanupWorker struct {
	conn      *amqp.Connection
	media     MediaDeleter
	queueName string
	timeout   time.Duration
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMediaCleanupWorker(conn *amqp.Connection, media MediaDeleter, queueName string, timeout time.Duration, logger *slog.Logger) *MediaCleanupWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MediaCleanupWorker{
		conn:      conn,
		media:     media,
		queueName: queueName,
		timeout:   timeout,
		logger:    logger.With("component", "media_cleanup_worker"),
	}
}

func (w *MediaCleanupWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.logger.Warn("delivery channel closed")
					return
				}
				w.Handle(workerCtx, d.Body, &d)
			}
		}
	}()

	w.logger.Info("media cleanup worker started", "queue", w.queueName)
	return nil
}

// Handle processes one job body and settles the delivery. Failed jobs are
// dropped, not requeued.
func (w *MediaCleanupWorker) Handle(ctx context.Context, body []byte, d Delivery) {
	var job model.MediaCleanupJob
	if err := json.Unmarshal(body, &job); err != nil || job.PublicID == "" {
		w.logger.ErrorContext(ctx, "decode cleanup job failed", "error", err, "body", string(body))
		_ = d.Nack(false, false)
		return
	}

	deleteCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.media.Delete(deleteCtx, job.PublicID); err != nil {
		w.logger.ErrorContext(ctx, "media deletion failed",
			"category_id", job.CategoryID, "public_id", job.PublicID, "error", err)
		_ = d.Nack(false, false)
		return
	}

	w.logger.InfoContext(ctx, "deleted media", "category_id", job.CategoryID, "public_id", job.PublicID)
	_ = d.Ack(false)
}

func (w *MediaCleanupWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
