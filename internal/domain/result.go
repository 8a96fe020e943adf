package domain

import "time"

// NoAnswer marks a question whose countdown expired before an option was chosen.
const NoAnswer = -1

// Result is the persisted outcome of a completed attempt. Exactly one of QuizID and ExamID is set.
type Result struct {
	ID             string
	QuizID         string
	ExamID         string
	UserID         string
	Score          int
	TotalQuestions int
	TimeSpent      int // seconds
	Answers        []int
	CompletedAt    time.Time
}
