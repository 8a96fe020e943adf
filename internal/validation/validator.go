package validation

import (
	"regexp"
	"strings"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

const maxCategoryLength = 50

var (
	ulidPattern     = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	categoryPattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
	roomCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID checks that value is a ULID. Seeded catalog rows may use other ids,
// so callers only apply this to ids the service generates.
func (v *Validator) ValidateID(field, value string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(value) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(value) {
		errors = append(errors, domain.NewInvalidFormatError(field, value))
	}
	return errors
}

// ValidateRequired only checks presence.
func (v *Validator) ValidateRequired(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	return nil
}

func (v *Validator) ValidatePagination(p dto.Pagination) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if p.Limit < 0 || p.Limit > dto.MaxPageLimit {
		errors = append(errors, domain.NewOutOfRangeError("limit", p.Limit, 0, dto.MaxPageLimit))
	}
	if p.Offset < 0 {
		errors = append(errors, domain.ValidationError{Field: "offset", Message: "must not be negative"})
	}
	return errors
}

// ValidateCategory accepts an empty category (no filter).
func (v *Validator) ValidateCategory(category string) domain.ValidationErrors {
	if category == "" {
		return nil
	}
	if len(category) > maxCategoryLength || !categoryPattern.MatchString(category) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("category", category)}
	}
	return nil
}

// ValidateStartAttempt requires exactly one of quiz_id and exam_id.
func (v *Validator) ValidateStartAttempt(req dto.StartAttemptRequest) domain.ValidationErrors {
	quiz := strings.TrimSpace(req.QuizID)
	exam := strings.TrimSpace(req.ExamID)
	switch {
	case quiz == "" && exam == "":
		return domain.ValidationErrors{{Field: "quiz_id", Message: "quiz_id or exam_id is required"}}
	case quiz != "" && exam != "":
		return domain.ValidationErrors{{Field: "exam_id", Message: "must be empty when quiz_id is set"}}
	}
	return nil
}

// ValidateIndex checks an option or question index. Range against the actual
// question is enforced by the attempt itself.
func (v *Validator) ValidateIndex(field string, index *int) domain.ValidationErrors {
	if index == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if *index < 0 {
		return domain.ValidationErrors{domain.NewOutOfRangeError(field, *index, 0, 1<<16)}
	}
	return nil
}

func (v *Validator) ValidatePlacement(placement string) domain.ValidationErrors {
	if placement == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("placement")}
	}
	if !domain.IsValidPlacement(placement) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("placement", placement)}
	}
	return nil
}

func (v *Validator) ValidateRoomCode(code string) domain.ValidationErrors {
	if !roomCodePattern.MatchString(strings.TrimSpace(code)) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("code", code)}
	}
	return nil
}

func (v *Validator) ValidateCreateRoom(req dto.CreateRoomRequest) domain.ValidationErrors {
	if req.MaxPlayers < 0 {
		return domain.ValidationErrors{domain.NewOutOfRangeError("max_players", req.MaxPlayers, 2, 100)}
	}
	return nil
}

func isValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
