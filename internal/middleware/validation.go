package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/validation"
)

// Locals keys set by the validation middleware.
const (
	PaginationKey = "validated_pagination"
	RoomCodeKey   = "validated_room_code"
	PlacementKey  = "validated_placement"
	CategoryKey   = "validated_category"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidatePagination parses limit and offset query parameters.
func (vm *ValidationMiddleware) ValidatePagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var page dto.Pagination
		var errs domain.ValidationErrors

		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, domain.NewInvalidFormatError("limit", raw))
			}
			page.Limit = n
		}
		if raw := c.Query("offset"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, domain.NewInvalidFormatError("offset", raw))
			}
			page.Offset = n
		}
		if len(errs) == 0 {
			errs = vm.validator.ValidatePagination(page)
		}
		if len(errs) > 0 {
			return errs
		}

		c.Locals(PaginationKey, page.Normalize())
		return c.Next()
	}
}

// ValidateAttemptID checks the :id path parameter of attempt routes.
func (vm *ValidationMiddleware) ValidateAttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := vm.validator.ValidateID("id", c.Params("id")); len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}

// ValidateRoomCode normalizes the :code path parameter.
func (vm *ValidationMiddleware) ValidateRoomCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if errs := vm.validator.ValidateRoomCode(code); len(errs) > 0 {
			return errs
		}
		c.Locals(RoomCodeKey, code)
		return c.Next()
	}
}

func (vm *ValidationMiddleware) ValidatePlacement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		placement := c.Query("placement", domain.PlacementDashboard)
		if errs := vm.validator.ValidatePlacement(placement); len(errs) > 0 {
			return errs
		}
		c.Locals(PlacementKey, placement)
		return c.Next()
	}
}

func (vm *ValidationMiddleware) ValidateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category")
		if errs := vm.validator.ValidateCategory(category); len(errs) > 0 {
			return errs
		}
		c.Locals(CategoryKey, category)
		return c.Next()
	}
}

// Validator exposes the underlying validator for body checks in handlers.
func (vm *ValidationMiddleware) Validator() *validation.Validator {
	return vm.validator
}

// PaginationFrom returns the parsed pagination or the defaults.
func PaginationFrom(c *fiber.Ctx) dto.Pagination {
	if p, ok := c.Locals(PaginationKey).(dto.Pagination); ok {
		return p
	}
	return dto.Pagination{}.Normalize()
}
