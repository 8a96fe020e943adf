package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"

	// Quiz and attempt errors
	CodeQuizNotFound       ErrorCode = "QUIZ_NOT_FOUND"
	CodeAttemptNotFound    ErrorCode = "ATTEMPT_NOT_FOUND"
	CodeInvalidAnswer      ErrorCode = "INVALID_ANSWER"
	CodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	CodeContentLocked      ErrorCode = "CONTENT_LOCKED"
	CodeExamUnavailable    ErrorCode = "EXAM_UNAVAILABLE"
	CodeInsufficientTokens ErrorCode = "INSUFFICIENT_TOKENS"
	CodeClaimNotAvailable  ErrorCode = "CLAIM_NOT_AVAILABLE"

	// Battle errors
	CodeRoomNotFound ErrorCode = "ROOM_NOT_FOUND"
	CodeRoomFull     ErrorCode = "ROOM_FULL"
	CodeRoomState    ErrorCode = "ROOM_STATE"

	CodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithContext attaches details that the error handler renders alongside the message.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewAttemptNotFoundError(attemptID string) *DomainError {
	return NewError(CodeAttemptNotFound, fmt.Sprintf("Attempt not found with ID: %s", attemptID), nil)
}

func NewInvalidAnswerError(message string) *DomainError {
	return NewError(CodeInvalidAnswer, message, nil)
}

func NewInvalidTransitionError(message string) *DomainError {
	return NewError(CodeInvalidTransition, message, nil)
}

func NewContentLockedError(contentType, contentID string) *DomainError {
	return NewError(CodeContentLocked, fmt.Sprintf("%s %s must be unlocked first", contentType, contentID), nil)
}

func NewInsufficientTokensError(required, balance int) *DomainError {
	return NewError(CodeInsufficientTokens, "Not enough tokens", nil).
		WithContext("required", required).
		WithContext("balance", balance)
}

func NewRoomNotFoundError(code string) *DomainError {
	return NewError(CodeRoomNotFound, fmt.Sprintf("Room not found with code: %s", code), nil)
}

func NewRoomFullError(code string, maxPlayers int) *DomainError {
	return NewError(CodeRoomFull, fmt.Sprintf("Room %s is full", code), nil).
		WithContext("max_players", maxPlayers)
}

func NewRoomStateError(message string) *DomainError {
	return NewError(CodeRoomState, message, nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", err)
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field error of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("value %d is out of range [%d, %d]", value, min, max)}
}
