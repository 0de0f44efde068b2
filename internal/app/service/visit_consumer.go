package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/app/repository"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// VisitConsumer consumes visit events from NATS JetStream and persists
// them as raw click records.
type VisitConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	clicks repository.ClickRepository
	urls   repository.URLRepository
}

// NewVisitConsumer creates a new visit event consumer
func NewVisitConsumer(js nats.JetStreamContext, logger *zap.Logger, clicks repository.ClickRepository, urls repository.URLRepository) *VisitConsumer {
	return &VisitConsumer{js: js, logger: logger, clicks: clicks, urls: urls}
}

// Start begins consuming visit events
func (c *VisitConsumer) Start() error {
	// Create stream if not exists
	_, err := c.js.StreamInfo(model.VisitStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.VisitStreamName,
			Subjects: []string{model.VisitStreamSubject},
			MaxBytes: model.VisitStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	// Create consumer if not exists
	_, err = c.js.ConsumerInfo(model.VisitStreamName, model.VisitConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.VisitStreamName, &nats.ConsumerConfig{
			Durable:   model.VisitConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	// Subscribe to consume messages
	sub, err := c.js.PullSubscribe(model.VisitStreamSubject, model.VisitConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *VisitConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.VisitEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal visit event", zap.Error(err))
				msg.Nak()
				continue
			}

			if err := c.record(ctx, event); err != nil {
				msg.Nak()
				continue
			}
			msg.Ack()
		}
	}
}

// record resolves the short code and stores the click. A visit against a
// URL deleted in the meantime is dropped, not retried.
func (c *VisitConsumer) record(ctx context.Context, event model.VisitEvent) error {
	url, err := c.urls.GetByShortURL(ctx, event.ShortURL)
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			c.logger.Debug("visit for missing url dropped",
				zap.String("short_url", event.ShortURL))
			return nil
		}
		c.logger.Error("failed to resolve visited url",
			zap.String("short_url", event.ShortURL), zap.Error(err))
		return err
	}

	click := &model.Click{
		ID:      event.ID,
		URLID:   url.ID,
		City:    event.City,
		Country: event.Country,
		Device:  event.Device,
	}
	if err := c.clicks.Create(ctx, click); err != nil {
		c.logger.Error("failed to store click record",
			zap.String("id", event.ID),
			zap.String("short_url", event.ShortURL),
			zap.Error(err))
		return err
	}

	c.logger.Debug("visit recorded",
		zap.String("id", event.ID),
		zap.String("short_url", event.ShortURL),
		zap.Time("timestamp", event.Timestamp),
	)
	return nil
}
