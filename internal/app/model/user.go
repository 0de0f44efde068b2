package model

import "time"

// User is an account that owns short URLs. RefreshToken holds the single
// currently-valid refresh token; an empty string means logged out.
type User struct {
	ID           string    `db:"id" gorm:"primaryKey;size:36" json:"id"`
	Name         string    `db:"name" gorm:"size:100;not null" json:"name"`
	Email        string    `db:"email" gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `db:"password_hash" gorm:"size:255;not null" json:"-"`
	RefreshToken string    `db:"refresh_token" gorm:"type:text" json:"-"`
	CreatedAt    time.Time `db:"created_at" gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" gorm:"autoUpdateTime" json:"updated_at"`
}
