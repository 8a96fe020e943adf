package attempt

import "quiz-arena/internal/domain"

// Evaluate reports whether selected is the question's correct option. NoAnswer is never correct.
func Evaluate(q domain.Question, selected int) bool {
	return selected == q.CorrectOptionIndex
}

// Score counts correct answers pairwise. Missing answers count as incorrect.
func Score(questions []domain.Question, answers []int) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && Evaluate(q, answers[i]) {
			score++
		}
	}
	return score
}
