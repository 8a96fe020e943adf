package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/service"
)

// ProfileHandler serves the signed-in user's profile, token balance and history.
type ProfileHandler struct {
	profiles service.ProfileService
	ledger   service.TokenLedger
	results  service.ResultService
}

func NewProfileHandler(profiles service.ProfileService, ledger service.TokenLedger, results service.ResultService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, ledger: ledger, results: results}
}

// GetMe godoc
// @Summary Get my profile
// @Tags me
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	resp, err := h.profiles.GetProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetBalance godoc
// @Summary Get my token balance
// @Tags me
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.BalanceResponse
// @Router /me/tokens [get]
func (h *ProfileHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.ledger.Balance(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.BalanceResponse{Balance: balance})
}

// ClaimDaily godoc
// @Summary Claim the daily tokens
// @Tags me
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.TokenCreditResponse
// @Failure 409 {object} middleware.ErrorResponse "Already claimed; details.next_claim_at tells when"
// @Router /me/tokens/claim-daily [post]
func (h *ProfileHandler) ClaimDaily(c *fiber.Ctx) error {
	resp, err := h.ledger.ClaimDaily(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Purchase godoc
// @Summary Buy a token pack
// @Description Simulated purchase: no payment provider is involved.
// @Tags me
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.TokenCreditResponse
// @Router /me/tokens/purchase [post]
func (h *ProfileHandler) Purchase(c *fiber.Ctx) error {
	resp, err := h.ledger.Purchase(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListMyResults godoc
// @Summary List my completed attempts
// @Tags me
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ResultListResponse
// @Router /me/results [get]
func (h *ProfileHandler) ListMyResults(c *fiber.Ctx) error {
	resp, err := h.results.ListResults(c.Context(), middleware.UserID(c), middleware.PaginationFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
