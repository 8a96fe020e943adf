package dto

import "time"

// CurrentAffairListRequest is bound from query parameters.
type CurrentAffairListRequest struct {
	Category string `query:"category"`
	Pagination
}

// CurrentAffairResponse omits the body of locked premium articles.
type CurrentAffairResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPremium   bool      `json:"is_premium"`
	TokenPrice  int       `json:"token_price,omitempty"`
	Locked      bool      `json:"locked"`
	PublishedAt time.Time `json:"published_at"`
}
