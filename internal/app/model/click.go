package model

import "time"

// Click is a raw visit record for a short URL. Clicks are written once and
// never updated; they are removed only when their URL is deleted.
type Click struct {
	ID        string    `db:"id" gorm:"primaryKey;size:36" json:"id"`
	URLID     string    `db:"url_id" gorm:"size:36;not null;index" json:"url_id"`
	City      string    `db:"city" gorm:"size:100" json:"city"`
	Country   string    `db:"country" gorm:"size:100" json:"country"`
	Device    string    `db:"device" gorm:"size:255" json:"device"`
	CreatedAt time.Time `db:"created_at" gorm:"autoCreateTime" json:"created_at"`
}

// VisitEvent is the wire form of a redirect visit published to JetStream.
// The consumer resolves the short code and persists a Click.
type VisitEvent struct {
	ID        string    `json:"id"`
	ShortURL  string    `json:"short_url"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	VisitStreamName     = "CLICKS"
	VisitStreamSubject  = "clicks.visits"
	VisitConsumerName   = "click-recorder"
	VisitStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
