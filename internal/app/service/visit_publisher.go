package service

import (
	"encoding/json"
	"time"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// VisitPublisher publishes redirect visits to NATS JetStream
type VisitPublisher struct {
	js nats.JetStreamContext
}

// NewVisitPublisher creates a new visit event publisher
func NewVisitPublisher(js nats.JetStreamContext) *VisitPublisher {
	return &VisitPublisher{js: js}
}

// Publish publishes a visit event to the stream
func (p *VisitPublisher) Publish(shortURL, city, country, device string) error {
	event := model.VisitEvent{
		ID:        uuid.New().String(),
		ShortURL:  shortURL,
		City:      city,
		Country:   country,
		Device:    device,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.VisitStreamSubject, data)
	return err
}
