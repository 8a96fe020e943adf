package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuestionValidate(t *testing.T) {
	q := Question{Text: "2+2?", Options: []string{"3", "4"}, CorrectOptionIndex: 1}
	assert.NoError(t, q.Validate())
	assert.True(t, q.ValidOption(0))
	assert.False(t, q.ValidOption(2))
	assert.False(t, q.ValidOption(NoAnswer))

	q.CorrectOptionIndex = 5
	assert.Error(t, q.Validate())

	q = Question{Text: "only one", Options: []string{"a"}}
	assert.Error(t, q.Validate())
}

func TestExamAvailableAt(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	exam := Exam{StartDate: &start, EndDate: &end}

	assert.False(t, exam.AvailableAt(start.Add(-time.Minute)))
	assert.True(t, exam.AvailableAt(start.Add(time.Hour)))
	assert.False(t, exam.AvailableAt(end.Add(time.Second)))

	open := Exam{}
	assert.True(t, open.AvailableAt(time.Now()))
}

func TestProfileCanClaim(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	p := Profile{}
	assert.True(t, p.CanClaim(now, 24*time.Hour))

	last := now.Add(-23 * time.Hour)
	p.LastCoinClaim = &last
	assert.False(t, p.CanClaim(now, 24*time.Hour))

	last = now.Add(-24 * time.Hour)
	assert.True(t, p.CanClaim(now, 24*time.Hour))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("loading quiz: %w", NewInternalError("db failure", cause))

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestInsufficientTokensContext(t *testing.T) {
	err := NewInsufficientTokensError(3, 1)
	assert.Equal(t, CodeInsufficientTokens, err.Code)
	assert.Equal(t, 3, err.Context["required"])
	assert.Equal(t, 1, err.Context["balance"])
}

func TestCurrentAffairLocked(t *testing.T) {
	ca := CurrentAffair{ID: "ca1", Title: "Budget", Content: "full text", IsPremium: true}
	locked := ca.Locked()
	assert.Empty(t, locked.Content)
	assert.Equal(t, "full text", ca.Content)
	assert.Equal(t, "Budget", locked.Title)
}
