package attempt

import "quiz-arena/internal/domain"

// State is the position of a Sequencer in the question flow.
type State string

const (
	StateUpcoming State = "upcoming"
	StateCurrent  State = "current"
	StateAnswered State = "answered"
	StateComplete State = "complete"
)

// Sequencer walks an ordered question list exactly once. It records one answer
// per question, in order, and never revisits a recorded answer.
type Sequencer struct {
	questions []domain.Question
	state     State
	index     int
	answers   []int
}

func NewSequencer(questions []domain.Question) *Sequencer {
	return &Sequencer{
		questions: questions,
		state:     StateUpcoming,
		answers:   make([]int, 0, len(questions)),
	}
}

func (s *Sequencer) State() State { return s.state }
func (s *Sequencer) Index() int   { return s.index }
func (s *Sequencer) Total() int   { return len(s.questions) }

// Answers returns a copy of the answer log.
func (s *Sequencer) Answers() []int {
	out := make([]int, len(s.answers))
	copy(out, s.answers)
	return out
}

// Question returns the question at i.
func (s *Sequencer) Question(i int) (domain.Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[i], true
}

// Current returns the question at the current index, if any.
func (s *Sequencer) Current() (domain.Question, bool) {
	if s.state == StateUpcoming || s.state == StateComplete {
		return domain.Question{}, false
	}
	return s.Question(s.index)
}

// Start moves Upcoming to Current(0).
func (s *Sequencer) Start() error {
	if s.state != StateUpcoming {
		return ErrAlreadyStarted
	}
	if len(s.questions) == 0 {
		return ErrNoQuestions
	}
	s.state = StateCurrent
	s.index = 0
	return nil
}

// Record moves Current(i) to Answered(i) and appends selected to the log.
// selected must be a valid option or domain.NoAnswer.
func (s *Sequencer) Record(selected int) (bool, error) {
	if s.state != StateCurrent {
		return false, ErrNotAwaitingAnswer
	}
	q := s.questions[s.index]
	if selected != domain.NoAnswer && !q.ValidOption(selected) {
		return false, ErrInvalidOption
	}
	s.answers = append(s.answers, selected)
	s.state = StateAnswered
	return Evaluate(q, selected), nil
}

// Advance moves Answered(i) to Current(i+1), or to Complete after the last question.
func (s *Sequencer) Advance() error {
	if s.state != StateAnswered {
		return ErrNotAnswered
	}
	s.index++
	if s.index >= len(s.questions) {
		s.index = len(s.questions)
		s.state = StateComplete
		return nil
	}
	s.state = StateCurrent
	return nil
}

// CanSelect reports whether question j may be reviewed: already reached, and not during feedback.
func (s *Sequencer) CanSelect(j int) bool {
	if s.state != StateCurrent {
		return false
	}
	return j >= 0 && j <= s.index && j < len(s.questions)
}
