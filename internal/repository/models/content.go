package models

import (
	"database/sql"
	"time"
)

type CurrentAffair struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Summary     sql.NullString `db:"summary"`
	Content     string         `db:"content"`
	Category    sql.NullString `db:"category"`
	Tags        StringSlice    `db:"tags"`
	ImageURL    sql.NullString `db:"image_url"`
	IsPremium   bool           `db:"is_premium"`
	TokenPrice  int            `db:"token_price"`
	PublishedAt time.Time      `db:"published_at"`
}

type Advertisement struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	ImageURL  sql.NullString `db:"image_url"`
	TargetURL sql.NullString `db:"target_url"`
	Placement string         `db:"placement"`
	IsActive  bool           `db:"is_active"`
}

type ContentUnlock struct {
	UserID      string    `db:"user_id"`
	ContentType string    `db:"content_type"`
	ContentID   string    `db:"content_id"`
	TokensSpent int       `db:"tokens_spent"`
	UnlockedAt  time.Time `db:"unlocked_at"`
}
