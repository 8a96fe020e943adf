package attempt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/util"
)

func TestAggregatorFinalize(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	agg := NewAggregator(func() time.Time { return now })

	qs := makeQuestions(3)
	answers := []int{1, 0, domain.NoAnswer}
	result, err := agg.Finalize(Outcome{
		UserID:    "u1",
		QuizID:    "quiz-1",
		Questions: qs,
		Answers:   answers,
		Elapsed:   17,
	})
	require.NoError(t, err)

	assert.True(t, util.IsULID(result.ID))
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, "quiz-1", result.QuizID)
	assert.Empty(t, result.ExamID)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 17, result.TimeSpent)
	assert.Equal(t, now, result.CompletedAt)
	assert.Equal(t, answers, result.Answers)

	answers[0] = 2
	assert.Equal(t, 1, result.Answers[0], "result keeps its own copy")

	_, err = agg.Finalize(Outcome{Questions: qs, Answers: answers})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}
