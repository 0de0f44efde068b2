package model

import "time"

// URL maps a globally unique short code to its original destination.
// Every URL is owned by exactly one user; ownership gates all non-public
// operations on the record and, transitively, on its clicks.
type URL struct {
	ID          string    `db:"id" gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `db:"user_id" gorm:"size:36;not null;index" json:"user_id"`
	Title       string    `db:"title" gorm:"size:200;not null" json:"title"`
	OriginalURL string    `db:"original_url" gorm:"type:text;not null" json:"original_url"`
	ShortURL    string    `db:"short_url" gorm:"size:64;uniqueIndex;not null" json:"short_url"`
	CreatedAt   time.Time `db:"created_at" gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" gorm:"autoUpdateTime" json:"updated_at"`
}
