package battle

import (
	"crypto/rand"
	"time"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	minPlayers   = 2
)

type Player struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Ready    bool      `json:"ready"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// Room is a simulated battle lobby. Players are kept in join order and the
// first one is the creator until they leave.
type Room struct {
	Code        string     `json:"code"`
	QuizID      string     `json:"quiz_id,omitempty"`
	CreatorID   string     `json:"creator_id"`
	Status      Status     `json:"status"`
	MaxPlayers  int        `json:"max_players"`
	Players     []Player   `json:"players"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r *Room) playerIndex(userID string) int {
	for i, p := range r.Players {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

func (r *Room) HasPlayer(userID string) bool {
	return r.playerIndex(userID) >= 0
}

func (r *Room) Full() bool {
	return len(r.Players) >= r.MaxPlayers
}

// AllReady reports whether the room has enough players and every one is ready.
func (r *Room) AllReady() bool {
	if len(r.Players) < minPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// removePlayer drops userID and hands the room to the next player when the creator leaves.
func (r *Room) removePlayer(userID string) bool {
	i := r.playerIndex(userID)
	if i < 0 {
		return false
	}
	r.Players = append(r.Players[:i], r.Players[i+1:]...)
	if r.CreatorID == userID && len(r.Players) > 0 {
		r.CreatorID = r.Players[0].UserID
	}
	return true
}

// NewRoomCode returns a random uppercase code without look-alike characters.
func NewRoomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
