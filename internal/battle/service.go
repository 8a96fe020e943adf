package battle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
)

const maxCodeAttempts = 5

// Service runs mock battle rooms. There is no real-time play: the room only
// tracks who joined, who is ready and the lobby status.
type Service interface {
	CreateRoom(ctx context.Context, userID string, req dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetRoom(ctx context.Context, code string) (*dto.RoomResponse, error)
	JoinRoom(ctx context.Context, userID, code string) (*dto.RoomResponse, error)
	SetReady(ctx context.Context, userID, code string, ready bool) (*dto.RoomResponse, error)
	StartRoom(ctx context.Context, userID, code string) (*dto.RoomResponse, error)
	// LeaveRoom returns nil once the last player left and the room is gone.
	LeaveRoom(ctx context.Context, userID, code string) (*dto.RoomResponse, error)
}

type serviceImpl struct {
	store    RoomStore
	profiles domain.ProfileRepository
	cfg      config.BattleConfig
	now      func() time.Time
	newCode  func() (string, error)

	// mu serializes read-modify-write cycles on rooms.
	mu sync.Mutex
}

// NewService accepts a nil profile repository; players are then named by id.
func NewService(store RoomStore, profiles domain.ProfileRepository, cfg config.BattleConfig) Service {
	if cfg.MaxPlayers < minPlayers {
		cfg.MaxPlayers = 10
	}
	return &serviceImpl{
		store:    store,
		profiles: profiles,
		cfg:      cfg,
		now:      time.Now,
		newCode:  NewRoomCode,
	}
}

func (s *serviceImpl) playerName(ctx context.Context, userID string) string {
	if s.profiles == nil {
		return userID
	}
	p, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil || p == nil || p.Name == "" {
		return userID
	}
	return p.Name
}

func (s *serviceImpl) CreateRoom(ctx context.Context, userID string, req dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	maxPlayers := s.cfg.MaxPlayers
	if req.MaxPlayers != 0 {
		if req.MaxPlayers < minPlayers || req.MaxPlayers > s.cfg.MaxPlayers {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("max_players must be between %d and %d", minPlayers, s.cfg.MaxPlayers))
		}
		maxPlayers = req.MaxPlayers
	}

	now := s.now()
	room := &Room{
		QuizID:     strings.TrimSpace(req.QuizID),
		CreatorID:  userID,
		Status:     StatusWaiting,
		MaxPlayers: maxPlayers,
		Players:    []Player{{UserID: userID, Name: s.playerName(ctx, userID), JoinedAt: now}},
		CreatedAt:  now,
	}

	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return nil, domain.NewInternalError("failed to generate room code", err)
		}
		room.Code = code
		created, err := s.store.Create(ctx, room)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Get().Info("Battle room created", zap.String("code", code), zap.String("userID", userID))
			return toRoomResponse(room), nil
		}
	}
	return nil, domain.NewInternalError("could not allocate a free room code", nil)
}

func (s *serviceImpl) load(ctx context.Context, code string) (*Room, error) {
	room, err := s.store.Get(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.NewRoomNotFoundError(code)
	}
	return room, nil
}

func (s *serviceImpl) GetRoom(ctx context.Context, code string) (*dto.RoomResponse, error) {
	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

func (s *serviceImpl) JoinRoom(ctx context.Context, userID, code string) (*dto.RoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.HasPlayer(userID) {
		return toRoomResponse(room), nil
	}
	if room.Status != StatusWaiting {
		return nil, domain.NewRoomStateError("room is no longer accepting players")
	}
	if room.Full() {
		return nil, domain.NewRoomFullError(room.Code, room.MaxPlayers)
	}

	room.Players = append(room.Players, Player{UserID: userID, Name: s.playerName(ctx, userID), JoinedAt: s.now()})
	if err := s.store.Save(ctx, room); err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

func (s *serviceImpl) SetReady(ctx context.Context, userID, code string, ready bool) (*dto.RoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	i := room.playerIndex(userID)
	if i < 0 {
		return nil, domain.NewForbiddenError("not a member of this room")
	}
	if room.Status != StatusWaiting {
		return nil, domain.NewRoomStateError("ready state can only change while waiting")
	}
	room.Players[i].Ready = ready
	if err := s.store.Save(ctx, room); err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

func (s *serviceImpl) StartRoom(ctx context.Context, userID, code string) (*dto.RoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.CreatorID != userID {
		return nil, domain.NewForbiddenError("only the room creator can start the battle")
	}
	if room.Status != StatusWaiting {
		return nil, domain.NewRoomStateError("battle already started")
	}
	if !room.AllReady() {
		return nil, domain.NewRoomStateError(fmt.Sprintf("at least %d players are needed and all must be ready", minPlayers)).
			WithContext("players", len(room.Players))
	}

	now := s.now()
	room.Status = StatusPlaying
	room.StartedAt = &now
	if err := s.store.Save(ctx, room); err != nil {
		return nil, err
	}
	logger.Get().Info("Battle started", zap.String("code", room.Code), zap.Int("players", len(room.Players)))
	return toRoomResponse(room), nil
}

func (s *serviceImpl) LeaveRoom(ctx context.Context, userID, code string) (*dto.RoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if !room.removePlayer(userID) {
		return nil, domain.NewForbiddenError("not a member of this room")
	}

	if len(room.Players) == 0 {
		if err := s.store.Delete(ctx, room.Code); err != nil {
			return nil, err
		}
		logger.Get().Info("Battle room closed", zap.String("code", room.Code))
		return nil, nil
	}
	if room.Status == StatusPlaying && len(room.Players) < minPlayers {
		now := s.now()
		room.Status = StatusFinished
		room.CompletedAt = &now
	}
	if err := s.store.Save(ctx, room); err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

func toRoomResponse(r *Room) *dto.RoomResponse {
	players := make([]dto.PlayerResponse, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, dto.PlayerResponse{
			UserID:   p.UserID,
			Name:     p.Name,
			Ready:    p.Ready,
			Score:    p.Score,
			JoinedAt: p.JoinedAt,
		})
	}
	return &dto.RoomResponse{
		Code:       r.Code,
		QuizID:     r.QuizID,
		CreatorID:  r.CreatorID,
		Status:     string(r.Status),
		MaxPlayers: r.MaxPlayers,
		Players:    players,
		CreatedAt:  r.CreatedAt,
		Simulated:  true,
	}
}
