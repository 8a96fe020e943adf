package dto

import "time"

// StartAttemptRequest names exactly one of quiz_id and exam_id.
// @Description Request body for creating an attempt
type StartAttemptRequest struct {
	QuizID string `json:"quiz_id"`
	ExamID string `json:"exam_id"`
}

// AnswerRequest carries the selected option index.
type AnswerRequest struct {
	SelectedIndex *int `json:"selected_index"`
}

// SelectQuestionRequest picks an already reached question for review.
type SelectQuestionRequest struct {
	Index *int `json:"index"`
}

// QuestionResponse hides the correct option until the question is answered.
type QuestionResponse struct {
	Index              int      `json:"index"`
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	ImageURL           string   `json:"image_url,omitempty"`
	Answered           bool     `json:"answered"`
	Selected           *int     `json:"selected,omitempty"`
	CorrectOptionIndex *int     `json:"correct_option_index,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`
}

type FeedbackResponse struct {
	Correct            bool   `json:"correct"`
	TimedOut           bool   `json:"timed_out"`
	Selected           int    `json:"selected"`
	CorrectOptionIndex int    `json:"correct_option_index"`
	Explanation        string `json:"explanation,omitempty"`
	SecondsLeft        int    `json:"seconds_left"`
}

type AdvertisementResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url,omitempty"`
	TargetURL string `json:"target_url,omitempty"`
	Placement string `json:"placement"`
}

// AttemptResponse is a snapshot of a live attempt.
// @Description Live attempt state
type AttemptResponse struct {
	ID             string                 `json:"id"`
	Kind           string                 `json:"kind"`
	QuizID         string                 `json:"quiz_id,omitempty"`
	ExamID         string                 `json:"exam_id,omitempty"`
	Title          string                 `json:"title"`
	Phase          string                 `json:"phase"`
	CurrentIndex   int                    `json:"current_index"`
	TotalQuestions int                    `json:"total_questions"`
	SecondsLeft    int                    `json:"seconds_left"`
	Elapsed        int                    `json:"elapsed"`
	Answers        []int                  `json:"answers"`
	Question       *QuestionResponse      `json:"question,omitempty"`
	Feedback       *FeedbackResponse      `json:"feedback,omitempty"`
	Ad             *AdvertisementResponse `json:"ad,omitempty"`
	AdSecondsLeft  int                    `json:"ad_seconds_left,omitempty"`
	AwaitingTokens bool                   `json:"awaiting_tokens"`
	Balance        *int                   `json:"balance,omitempty"`
	Result         *ResultResponse        `json:"result,omitempty"`
	SaveError      string                 `json:"save_error,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// AnswerResponse reports the outcome of one answer.
type AnswerResponse struct {
	Accepted           bool             `json:"accepted"`
	InsufficientTokens bool             `json:"insufficient_tokens"`
	Correct            bool             `json:"correct"`
	CorrectOptionIndex *int             `json:"correct_option_index,omitempty"`
	Explanation        string           `json:"explanation,omitempty"`
	Attempt            *AttemptResponse `json:"attempt"`
}
