package domain

import "time"

// Content types that can be unlocked with tokens.
const (
	ContentTypeQuiz          = "quiz"
	ContentTypeCurrentAffair = "current_affair"
)

// Advertisement placements.
const (
	PlacementQuiz           = "quiz"
	PlacementDashboard      = "dashboard"
	PlacementResults        = "results"
	PlacementCurrentAffairs = "current_affairs"
)

// IsValidPlacement reports whether p names a known advertisement placement.
func IsValidPlacement(p string) bool {
	switch p {
	case PlacementQuiz, PlacementDashboard, PlacementResults, PlacementCurrentAffairs:
		return true
	}
	return false
}

type CurrentAffair struct {
	ID          string
	Title       string
	Summary     string
	Content     string
	Category    string
	Tags        []string
	ImageURL    string
	IsPremium   bool
	TokenPrice  int
	PublishedAt time.Time
}

// Locked returns a copy with the premium body removed.
func (c *CurrentAffair) Locked() *CurrentAffair {
	cp := *c
	cp.Content = ""
	return &cp
}

type Advertisement struct {
	ID        string
	Title     string
	ImageURL  string
	TargetURL string
	Placement string
	IsActive  bool
}

// ContentUnlock records that a user paid for a premium item.
type ContentUnlock struct {
	UserID      string
	ContentType string
	ContentID   string
	TokensSpent int
	UnlockedAt  time.Time
}
