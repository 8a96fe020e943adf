package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/battle"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/validation"
)

// BattleHandler exposes the simulated battle lobby.
type BattleHandler struct {
	battles   battle.Service
	validator *validation.Validator
}

func NewBattleHandler(battles battle.Service, validator *validation.Validator) *BattleHandler {
	return &BattleHandler{battles: battles, validator: validator}
}

func roomCode(c *fiber.Ctx) string {
	if code, ok := c.Locals(middleware.RoomCodeKey).(string); ok {
		return code
	}
	return c.Params("code")
}

// CreateRoom godoc
// @Summary Create a battle room
// @Tags battle
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body dto.CreateRoomRequest false "Room options"
// @Success 201 {object} dto.RoomResponse
// @Router /battle/rooms [post]
func (h *BattleHandler) CreateRoom(c *fiber.Ctx) error {
	var req dto.CreateRoomRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("invalid request body")
		}
	}
	if errs := h.validator.ValidateCreateRoom(req); len(errs) > 0 {
		return errs
	}
	resp, err := h.battles.CreateRoom(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetRoom godoc
// @Summary Get a battle room
// @Tags battle
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Room code"
// @Success 200 {object} dto.RoomResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /battle/rooms/{code} [get]
func (h *BattleHandler) GetRoom(c *fiber.Ctx) error {
	resp, err := h.battles.GetRoom(c.Context(), roomCode(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// JoinRoom godoc
// @Summary Join a battle room
// @Tags battle
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Room code"
// @Success 200 {object} dto.RoomResponse
// @Failure 409 {object} middleware.ErrorResponse "Room full or already playing"
// @Router /battle/rooms/{code}/join [post]
func (h *BattleHandler) JoinRoom(c *fiber.Ctx) error {
	resp, err := h.battles.JoinRoom(c.Context(), middleware.UserID(c), roomCode(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetReady godoc
// @Summary Set my ready flag
// @Tags battle
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Room code"
// @Param body body dto.ReadyRequest true "Ready flag"
// @Success 200 {object} dto.RoomResponse
// @Router /battle/rooms/{code}/ready [post]
func (h *BattleHandler) SetReady(c *fiber.Ctx) error {
	var req dto.ReadyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.battles.SetReady(c.Context(), middleware.UserID(c), roomCode(c), req.Ready)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// StartRoom godoc
// @Summary Start the battle
// @Description Only the creator can start, with at least two players who are all ready.
// @Tags battle
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Room code"
// @Success 200 {object} dto.RoomResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /battle/rooms/{code}/start [post]
func (h *BattleHandler) StartRoom(c *fiber.Ctx) error {
	resp, err := h.battles.StartRoom(c.Context(), middleware.UserID(c), roomCode(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// LeaveRoom godoc
// @Summary Leave a battle room
// @Description Returns 204 when the last player left and the room was closed.
// @Tags battle
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Room code"
// @Success 200 {object} dto.RoomResponse
// @Success 204
// @Router /battle/rooms/{code}/leave [post]
func (h *BattleHandler) LeaveRoom(c *fiber.Ctx) error {
	resp, err := h.battles.LeaveRoom(c.Context(), middleware.UserID(c), roomCode(c))
	if err != nil {
		return err
	}
	if resp == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(resp)
}
