package domain

import "time"

// Profile is the authenticated user's record. Tokens is only changed through the token ledger.
type Profile struct {
	ID                string
	GoogleID          string
	Email             string
	Name              string
	ProfilePictureURL string
	Tokens            int
	LastCoinClaim     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanClaim reports whether the daily token claim is available at now.
func (p *Profile) CanClaim(now time.Time, interval time.Duration) bool {
	if p.LastCoinClaim == nil {
		return true
	}
	return !now.Before(p.LastCoinClaim.Add(interval))
}
