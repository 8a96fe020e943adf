package models

import (
	"database/sql"
	"time"
)

// Profile maps the profiles table.
type Profile struct {
	ID                string         `db:"id"`
	GoogleID          string         `db:"google_id"`
	Email             string         `db:"email"`
	Name              sql.NullString `db:"name"`
	ProfilePictureURL sql.NullString `db:"profile_picture_url"`
	Tokens            int            `db:"tokens"`
	LastCoinClaim     sql.NullTime   `db:"last_coin_claim"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}
