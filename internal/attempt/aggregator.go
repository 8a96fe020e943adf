package attempt

import (
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/util"
)

// Outcome is what an attempt hands to the aggregator when its sequence completes.
type Outcome struct {
	UserID    string
	QuizID    string
	ExamID    string
	Questions []domain.Question
	Answers   []int
	Elapsed   int
}

// Aggregator turns a completed attempt into its Result. One aggregator serves one attempt.
type Aggregator struct {
	clock     func() time.Time
	finalized bool
}

func NewAggregator(clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{clock: clock}
}

// Finalize may succeed only once.
func (a *Aggregator) Finalize(o Outcome) (*domain.Result, error) {
	if a.finalized {
		return nil, ErrAlreadyFinalized
	}
	a.finalized = true

	answers := make([]int, len(o.Answers))
	copy(answers, o.Answers)
	return &domain.Result{
		ID:             util.NewULID(),
		QuizID:         o.QuizID,
		ExamID:         o.ExamID,
		UserID:         o.UserID,
		Score:          Score(o.Questions, answers),
		TotalQuestions: len(o.Questions),
		TimeSpent:      o.Elapsed,
		Answers:        answers,
		CompletedAt:    a.clock(),
	}, nil
}
