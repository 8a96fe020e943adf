package attempt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"quiz-arena/internal/domain"
)

// memLedger is an in-memory balance with the same guarded semantics as the SQL ledger.
type memLedger struct {
	mu      sync.Mutex
	balance int
	debits  int
}

func (l *memLedger) Debit(_ context.Context, _ string, amount int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance < amount {
		return false, nil
	}
	l.balance -= amount
	l.debits++
	return true, nil
}

func (l *memLedger) credit(amount int) {
	l.mu.Lock()
	l.balance += amount
	l.mu.Unlock()
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Debit(ctx context.Context, userID string, amount int) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}

type memStore struct {
	mu      sync.Mutex
	results []*domain.Result
	err     error
}

func (s *memStore) CreateResult(_ context.Context, r *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, r)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// manualTicker fires only when the test sends on it.
type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.once.Do(func() { close(m.stopped) }) }

func (m *manualTicker) fire() {
	m.ch <- time.Now()
}

func makeQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:                 fmt.Sprintf("q%d", i),
			Text:               fmt.Sprintf("question %d", i),
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: 1,
			Explanation:        "b is right",
			OrderIndex:         i,
		}
	}
	return qs
}

func testSettings() Settings {
	return Settings{
		QuestionTimeLimit:      10,
		FeedbackDelayCorrect:   3,
		FeedbackDelayIncorrect: 2,
		AdEvery:                5,
		AdDuration:             5,
		AnswerCost:             1,
	}
}

type shellFixture struct {
	shell  *Shell
	ledger *memLedger
	store  *memStore
}

func newFixture(questions int, balance int, mutate func(*Params)) *shellFixture {
	f := &shellFixture{ledger: &memLedger{balance: balance}, store: &memStore{}}
	p := Params{
		ID:        "att-1",
		UserID:    "user-1",
		Kind:      KindQuiz,
		QuizID:    "quiz-1",
		Title:     "Algebra",
		Questions: makeQuestions(questions),
		Ads:       []*domain.Advertisement{{ID: "ad-1", Title: "Sponsor", Placement: domain.PlacementQuiz, IsActive: true}},
		Settings:  testSettings(),
		Ledger:    f.ledger,
		Store:     f.store,
	}
	if mutate != nil {
		mutate(&p)
	}
	f.shell = NewShell(p)
	return f
}

func ticks(s *Shell, n int) {
	for i := 0; i < n; i++ {
		s.Tick(context.Background())
	}
}

// skipFeedback ticks until the feedback delay ends and dismisses any ad that follows.
func skipFeedback(s *Shell) {
	for s.Snapshot().Phase == PhaseFeedback {
		s.Tick(context.Background())
	}
	if s.Snapshot().Phase == PhaseAd {
		_ = s.DismissAd()
	}
}
