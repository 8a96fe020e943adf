package dto

import "time"

// CreateRoomRequest optionally names the quiz the room will play.
type CreateRoomRequest struct {
	QuizID     string `json:"quiz_id"`
	MaxPlayers int    `json:"max_players"`
}

type ReadyRequest struct {
	Ready bool `json:"ready"`
}

type PlayerResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Ready    bool      `json:"ready"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomResponse is a simulated battle room.
// @Description Mock battle room state
type RoomResponse struct {
	Code       string           `json:"code"`
	QuizID     string           `json:"quiz_id,omitempty"`
	CreatorID  string           `json:"creator_id"`
	Status     string           `json:"status"`
	MaxPlayers int              `json:"max_players"`
	Players    []PlayerResponse `json:"players"`
	CreatedAt  time.Time        `json:"created_at"`
	Simulated  bool             `json:"simulated"`
}
