package attempt

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
)

// Kind distinguishes practice quizzes from exams.
type Kind string

const (
	KindQuiz Kind = "quiz"
	KindExam Kind = "exam"
)

// Ledger is the token port an attempt charges answers against.
type Ledger interface {
	// Debit returns false without mutating when the balance cannot cover amount.
	Debit(ctx context.Context, userID string, amount int) (bool, error)
}

// ResultStore persists finished attempts.
type ResultStore interface {
	CreateResult(ctx context.Context, result *domain.Result) error
}

// Settings are counted in ticks. A tick is one second in production.
type Settings struct {
	QuestionTimeLimit      int
	FeedbackDelayCorrect   int
	FeedbackDelayIncorrect int
	AdEvery                int // 0 disables interstitials
	AdDuration             int // 0 means the ad stays until dismissed
	AnswerCost             int
}

// Params describe one attempt.
type Params struct {
	ID        string
	UserID    string
	Kind      Kind
	QuizID    string
	ExamID    string
	Title     string
	Questions []domain.Question
	Ads       []*domain.Advertisement
	Settings  Settings
	Ledger    Ledger
	Store     ResultStore
	Clock     func() time.Time
}

// Shell hosts a single attempt: sequencer, countdown, elapsed counter,
// feedback delay and ad interstitials. All methods are safe for concurrent use.
type Shell struct {
	mu sync.Mutex

	id     string
	userID string
	kind   Kind
	quizID string
	examID string
	title  string

	settings Settings
	ledger   Ledger
	store    ResultStore
	clock    func() time.Time

	seq *Sequencer
	agg *Aggregator
	ads []*domain.Advertisement

	remaining      int
	elapsed        int
	feedbackLeft   int
	lastCorrect    bool
	timedOut       bool
	ad             *domain.Advertisement
	adLeft         int
	adsShown       int
	awaitingTokens bool
	abandoned      bool

	result       *domain.Result
	saveErr      error
	createdAt    time.Time
	lastActivity time.Time
}

func NewShell(p Params) *Shell {
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	return &Shell{
		id:           p.ID,
		userID:       p.UserID,
		kind:         p.Kind,
		quizID:       p.QuizID,
		examID:       p.ExamID,
		title:        p.Title,
		settings:     p.Settings,
		ledger:       p.Ledger,
		store:        p.Store,
		clock:        clock,
		seq:          NewSequencer(p.Questions),
		agg:          NewAggregator(clock),
		ads:          p.Ads,
		createdAt:    now,
		lastActivity: now,
	}
}

func (s *Shell) ID() string     { return s.id }
func (s *Shell) UserID() string { return s.userID }

// Start begins the first question and its countdown.
func (s *Shell) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned {
		return ErrClosed
	}
	if err := s.seq.Start(); err != nil {
		return err
	}
	s.remaining = s.settings.QuestionTimeLimit
	s.touch()
	return nil
}

// AnswerOutcome reports what happened to a submitted answer.
type AnswerOutcome struct {
	Accepted           bool
	InsufficientTokens bool
	Correct            bool
	CorrectOptionIndex int
	Explanation        string
}

// Answer charges the answer cost and records selected for the current question.
// A debit failure leaves the attempt untouched; an insufficient balance halts
// progression until Resume or End.
func (s *Shell) Answer(ctx context.Context, selected int) (AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return AnswerOutcome{}, err
	}
	if s.awaitingTokens {
		return AnswerOutcome{}, ErrAwaitingTokens
	}
	if s.ad != nil {
		return AnswerOutcome{}, ErrAdShowing
	}
	if s.seq.State() != StateCurrent {
		return AnswerOutcome{}, ErrNotAwaitingAnswer
	}
	q, _ := s.seq.Current()
	if !q.ValidOption(selected) {
		return AnswerOutcome{}, ErrInvalidOption
	}
	s.touch()

	ok, err := s.ledger.Debit(ctx, s.userID, s.settings.AnswerCost)
	if err != nil {
		return AnswerOutcome{}, err
	}
	if !ok {
		s.awaitingTokens = true
		logger.Get().Info("Attempt halted on token balance",
			zap.String("attemptID", s.id), zap.String("userID", s.userID), zap.Int("index", s.seq.Index()))
		return AnswerOutcome{InsufficientTokens: true}, nil
	}

	correct, err := s.seq.Record(selected)
	if err != nil {
		return AnswerOutcome{}, err
	}
	s.enterFeedback(correct, false)
	return AnswerOutcome{
		Accepted:           true,
		Correct:            correct,
		CorrectOptionIndex: q.CorrectOptionIndex,
		Explanation:        q.Explanation,
	}, nil
}

// Tick advances every timer by one unit.
func (s *Shell) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned || s.awaitingTokens {
		return
	}
	if s.ad != nil {
		if s.settings.AdDuration > 0 {
			s.adLeft--
			if s.adLeft <= 0 {
				s.ad = nil
			}
		}
		return
	}

	switch s.seq.State() {
	case StateCurrent:
		s.elapsed++
		s.remaining--
		if s.remaining <= 0 {
			s.expire()
		}
	case StateAnswered:
		s.feedbackLeft--
		if s.feedbackLeft <= 0 {
			s.advance(ctx)
		}
	}
}

// expire submits NoAnswer for the current question without charging tokens.
func (s *Shell) expire() {
	if _, err := s.seq.Record(domain.NoAnswer); err != nil {
		return
	}
	logger.Get().Debug("Question timed out", zap.String("attemptID", s.id), zap.Int("index", s.seq.Index()))
	s.enterFeedback(false, true)
}

func (s *Shell) enterFeedback(correct, timedOut bool) {
	s.lastCorrect = correct
	s.timedOut = timedOut
	if correct {
		s.feedbackLeft = s.settings.FeedbackDelayCorrect
	} else {
		s.feedbackLeft = s.settings.FeedbackDelayIncorrect
	}
	if s.feedbackLeft <= 0 {
		s.feedbackLeft = 1
	}
}

func (s *Shell) advance(ctx context.Context) {
	if err := s.seq.Advance(); err != nil {
		return
	}
	s.timedOut = false
	if s.seq.State() == StateComplete {
		s.finalize(ctx)
		return
	}
	s.remaining = s.settings.QuestionTimeLimit
	if s.showsAdAt(s.seq.Index()) {
		s.ad = s.nextAd()
		s.adLeft = s.settings.AdDuration
	}
}

func (s *Shell) showsAdAt(i int) bool {
	every := s.settings.AdEvery
	return every > 0 && len(s.ads) > 0 && i > 0 && i%every == 0
}

func (s *Shell) nextAd() *domain.Advertisement {
	ad := s.ads[s.adsShown%len(s.ads)]
	s.adsShown++
	return ad
}

func (s *Shell) finalize(ctx context.Context) {
	result, err := s.agg.Finalize(Outcome{
		UserID:    s.userID,
		QuizID:    s.quizID,
		ExamID:    s.examID,
		Questions: s.seq.questions,
		Answers:   s.seq.Answers(),
		Elapsed:   s.elapsed,
	})
	if err != nil {
		return
	}
	s.result = result
	if err := s.store.CreateResult(ctx, result); err != nil {
		s.saveErr = err
		logger.Get().Error("Failed to save attempt result",
			zap.String("attemptID", s.id), zap.String("resultID", result.ID), zap.Error(err))
		return
	}
	logger.Get().Info("Attempt completed",
		zap.String("attemptID", s.id),
		zap.String("resultID", result.ID),
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions))
}

// DismissAd closes the interstitial and resumes both timers.
func (s *Shell) DismissAd() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.ad == nil {
		return ErrNoAdShowing
	}
	s.ad = nil
	s.touch()
	return nil
}

// Resume continues an attempt halted on an insufficient balance. The next
// answer is charged again, so Resume itself does not check the balance.
func (s *Shell) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if !s.awaitingTokens {
		return ErrNotAwaitingTokens
	}
	s.awaitingTokens = false
	s.touch()
	return nil
}

// QuestionView is a question as shown to the player. The correct option is
// only revealed once the question has been answered.
type QuestionView struct {
	Index              int
	ID                 string
	Text               string
	Options            []string
	ImageURL           string
	Answered           bool
	Selected           int
	CorrectOptionIndex *int
	Explanation        string
}

// SelectQuestion returns question j for review. Only reached questions can be
// selected, and never during the feedback delay.
func (s *Shell) SelectQuestion(j int) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return QuestionView{}, err
	}
	if s.ad != nil {
		return QuestionView{}, ErrAdShowing
	}
	if !s.seq.CanSelect(j) {
		return QuestionView{}, ErrCannotSelect
	}
	s.touch()
	return s.view(j), nil
}

func (s *Shell) view(j int) QuestionView {
	q, _ := s.seq.Question(j)
	v := QuestionView{
		Index:    j,
		ID:       q.ID,
		Text:     q.Text,
		Options:  q.Options,
		ImageURL: q.ImageURL,
		Selected: domain.NoAnswer,
	}
	if answers := s.seq.answers; j < len(answers) {
		correct := q.CorrectOptionIndex
		v.Answered = true
		v.Selected = answers[j]
		v.CorrectOptionIndex = &correct
		v.Explanation = q.Explanation
	}
	return v
}

// End abandons the attempt. Nothing is persisted. Ending a completed attempt is a no-op.
func (s *Shell) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned || s.seq.State() == StateComplete {
		return
	}
	s.abandoned = true
	s.ad = nil
	logger.Get().Info("Attempt abandoned",
		zap.String("attemptID", s.id), zap.Int("answered", len(s.seq.answers)))
}

// Finished reports whether the attempt reached a terminal state.
func (s *Shell) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abandoned || s.seq.State() == StateComplete
}

// LastActivity is the time of the last client action.
func (s *Shell) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Shell) checkOpen() error {
	if s.abandoned || s.seq.State() == StateComplete {
		return ErrClosed
	}
	if s.seq.State() == StateUpcoming {
		return ErrNotStarted
	}
	return nil
}

func (s *Shell) touch() {
	s.lastActivity = s.clock()
}

// Phase is the coarse status shown to clients.
type Phase string

const (
	PhaseReady          Phase = "ready"
	PhaseQuestion       Phase = "question"
	PhaseFeedback       Phase = "feedback"
	PhaseAd             Phase = "ad"
	PhaseAwaitingTokens Phase = "awaiting_tokens"
	PhaseComplete       Phase = "complete"
	PhaseAbandoned      Phase = "abandoned"
)

// Feedback describes the answer shown during the feedback delay.
type Feedback struct {
	Correct            bool
	TimedOut           bool
	Selected           int
	CorrectOptionIndex int
	Explanation        string
	TicksLeft          int
}

// Snapshot is a consistent copy of the attempt state.
type Snapshot struct {
	ID             string
	UserID         string
	Kind           Kind
	QuizID         string
	ExamID         string
	Title          string
	Phase          Phase
	State          State
	CurrentIndex   int
	Total          int
	Remaining      int
	Elapsed        int
	Answers        []int
	Question       *QuestionView
	Feedback       *Feedback
	Ad             *domain.Advertisement
	AdTicksLeft    int
	AwaitingTokens bool
	Result         *domain.Result
	SaveError      string
	CreatedAt      time.Time
}

func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		UserID:         s.userID,
		Kind:           s.kind,
		QuizID:         s.quizID,
		ExamID:         s.examID,
		Title:          s.title,
		Phase:          s.phase(),
		State:          s.seq.State(),
		CurrentIndex:   s.seq.Index(),
		Total:          s.seq.Total(),
		Remaining:      s.remaining,
		Elapsed:        s.elapsed,
		Answers:        s.seq.Answers(),
		Ad:             s.ad,
		AwaitingTokens: s.awaitingTokens,
		Result:         s.result,
		CreatedAt:      s.createdAt,
	}
	if s.ad != nil {
		snap.AdTicksLeft = s.adLeft
	}
	if s.saveErr != nil {
		snap.SaveError = s.saveErr.Error()
	}

	switch s.seq.State() {
	case StateCurrent:
		v := s.view(s.seq.Index())
		snap.Question = &v
	case StateAnswered:
		i := s.seq.Index()
		v := s.view(i)
		snap.Question = &v
		snap.Feedback = &Feedback{
			Correct:            s.lastCorrect,
			TimedOut:           s.timedOut,
			Selected:           v.Selected,
			CorrectOptionIndex: *v.CorrectOptionIndex,
			Explanation:        v.Explanation,
			TicksLeft:          s.feedbackLeft,
		}
	}
	return snap
}

func (s *Shell) phase() Phase {
	switch {
	case s.abandoned:
		return PhaseAbandoned
	case s.seq.State() == StateComplete:
		return PhaseComplete
	case s.seq.State() == StateUpcoming:
		return PhaseReady
	case s.ad != nil:
		return PhaseAd
	case s.awaitingTokens:
		return PhaseAwaitingTokens
	case s.seq.State() == StateAnswered:
		return PhaseFeedback
	}
	return PhaseQuestion
}
