package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quiz-arena/internal/attempt"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/util"
)

// AttemptService creates live attempts and forwards player actions to them.
type AttemptService interface {
	CreateAttempt(ctx context.Context, userID string, req dto.StartAttemptRequest) (*dto.AttemptResponse, error)
	StartAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	Answer(ctx context.Context, userID, attemptID string, selected int) (*dto.AnswerResponse, error)
	SelectQuestion(ctx context.Context, userID, attemptID string, index int) (*dto.QuestionResponse, error)
	DismissAd(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	Resume(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	Abandon(ctx context.Context, userID, attemptID string) error
}

type attemptServiceImpl struct {
	quizzes   domain.QuizRepository
	exams     domain.ExamRepository
	content   domain.ContentRepository
	results   domain.ResultRepository
	questions *QuestionSource
	unlocker  Unlocker
	ledger    TokenLedger
	registry  *attempt.Registry
	cfg       config.AttemptConfig
	cost      int
	now       func() time.Time
}

func NewAttemptService(
	quizzes domain.QuizRepository,
	exams domain.ExamRepository,
	content domain.ContentRepository,
	results domain.ResultRepository,
	questions *QuestionSource,
	unlocker Unlocker,
	ledger TokenLedger,
	registry *attempt.Registry,
	cfg *config.Config,
) AttemptService {
	return &attemptServiceImpl{
		quizzes:   quizzes,
		exams:     exams,
		content:   content,
		results:   results,
		questions: questions,
		unlocker:  unlocker,
		ledger:    ledger,
		registry:  registry,
		cfg:       cfg.Attempt,
		cost:      cfg.Tokens.AnswerCost,
		now:       time.Now,
	}
}

func (s *attemptServiceImpl) quizSettings(q *domain.Quiz) attempt.Settings {
	limit := s.cfg.QuestionTimeLimit
	if q.TimeLimit > 0 {
		limit = q.TimeLimit
	}
	return attempt.Settings{
		QuestionTimeLimit:      limit,
		FeedbackDelayCorrect:   s.cfg.FeedbackDelayCorrect,
		FeedbackDelayIncorrect: s.cfg.FeedbackDelayIncorrect,
		AdEvery:                s.cfg.AdEvery,
		AdDuration:             s.cfg.AdDuration,
		AnswerCost:             s.cost,
	}
}

func (s *attemptServiceImpl) examSettings() attempt.Settings {
	return attempt.Settings{
		QuestionTimeLimit:      s.cfg.ExamQuestionTimeLimit,
		FeedbackDelayCorrect:   s.cfg.ExamFeedbackDelay,
		FeedbackDelayIncorrect: s.cfg.ExamFeedbackDelay,
		AnswerCost:             s.cost,
	}
}

func (s *attemptServiceImpl) CreateAttempt(ctx context.Context, userID string, req dto.StartAttemptRequest) (*dto.AttemptResponse, error) {
	quizID := strings.TrimSpace(req.QuizID)
	examID := strings.TrimSpace(req.ExamID)
	if (quizID == "") == (examID == "") {
		return nil, domain.NewInvalidInputError("exactly one of quiz_id and exam_id is required")
	}

	var (
		params  attempt.Params
		balance int
		err     error
	)
	if quizID != "" {
		params, balance, err = s.prepareQuiz(ctx, userID, quizID)
	} else {
		params, balance, err = s.prepareExam(ctx, userID, examID)
	}
	if err != nil {
		return nil, err
	}
	if len(params.Questions) == 0 {
		return nil, attempt.ErrNoQuestions
	}

	params.ID = util.NewULID()
	params.UserID = userID
	params.Ledger = s.ledger
	params.Store = s.results
	params.Clock = s.now

	shell := attempt.NewShell(params)
	s.registry.Add(shell)

	logger.Get().Info("Attempt created",
		zap.String("attemptID", params.ID),
		zap.String("userID", userID),
		zap.String("kind", string(params.Kind)),
		zap.Int("questions", len(params.Questions)))

	resp := toAttemptResponse(shell.Snapshot())
	resp.Balance = &balance
	return resp, nil
}

func (s *attemptServiceImpl) prepareQuiz(ctx context.Context, userID, quizID string) (attempt.Params, int, error) {
	var (
		quiz      *domain.Quiz
		questions []domain.Question
		ads       []*domain.Advertisement
		balance   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quiz, err = s.quizzes.GetQuizByID(gctx, quizID)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.questions.ForQuiz(gctx, quizID)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.ledger.Balance(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		ads, err = s.content.ListActiveAdvertisements(gctx, domain.PlacementQuiz)
		if err != nil {
			logger.Get().Warn("Attempt starts without advertisements", zap.Error(err))
			ads = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attempt.Params{}, 0, fmt.Errorf("failed to prepare attempt: %w", err)
	}
	if quiz == nil {
		return attempt.Params{}, 0, domain.NewQuizNotFoundError(quizID)
	}

	if quiz.IsPremium {
		unlocked, err := s.unlocker.IsUnlocked(ctx, userID, domain.ContentTypeQuiz, quizID)
		if err != nil {
			return attempt.Params{}, 0, err
		}
		if !unlocked {
			return attempt.Params{}, 0, domain.NewContentLockedError(domain.ContentTypeQuiz, quizID)
		}
	}

	return attempt.Params{
		Kind:      attempt.KindQuiz,
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Questions: questions,
		Ads:       ads,
		Settings:  s.quizSettings(quiz),
	}, balance, nil
}

func (s *attemptServiceImpl) prepareExam(ctx context.Context, userID, examID string) (attempt.Params, int, error) {
	exam, err := s.exams.GetExamByID(ctx, examID)
	if err != nil {
		return attempt.Params{}, 0, fmt.Errorf("failed to load exam: %w", err)
	}
	if exam == nil {
		return attempt.Params{}, 0, domain.NewNotFoundError(fmt.Sprintf("exam %s not found", examID))
	}
	if !exam.AvailableAt(s.now()) {
		return attempt.Params{}, 0, domain.NewError(domain.CodeExamUnavailable, "exam is not open at this time", nil)
	}

	var (
		questions []domain.Question
		balance   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.questions.ForExam(gctx, exam)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.ledger.Balance(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return attempt.Params{}, 0, fmt.Errorf("failed to prepare exam attempt: %w", err)
	}

	return attempt.Params{
		Kind:      attempt.KindExam,
		ExamID:    exam.ID,
		Title:     exam.Title,
		Questions: questions,
		Settings:  s.examSettings(),
	}, balance, nil
}

func (s *attemptServiceImpl) StartAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	shell, err := s.registry.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if err := shell.Start(); err != nil {
		return nil, err
	}
	return toAttemptResponse(shell.Snapshot()), nil
}

func (s *attemptServiceImpl) GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	shell, err := s.registry.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	return toAttemptResponse(shell.Snapshot()), nil
}

func (s *attemptServiceImpl) Answer(ctx context.Context, userID, attemptID string, selected int) (*dto.AnswerResponse, error) {
	shell, err := s.registry.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	out, err := shell.Answer(ctx, selected)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnswerResponse{
		Accepted:           out.Accepted,
		InsufficientTokens: out.InsufficientTokens,
		Correct:            out.Correct,
		Explanation:        out.Explanation,
		Attempt:            toAttemptResponse(shell.Snapshot()),
	}
	if out.Accepted {
		correct := out.CorrectOptionIndex
		resp.CorrectOptionIndex = &correct
	}
	if out.InsufficientTokens {
		if balance, err := s.ledger.Balance(ctx, userID); err == nil {
			resp.Attempt.Balance = &balance
		}
	}
	return resp, nil
}

func (s *attemptServiceImpl) SelectQuestion(ctx context.Context, userID, attemptID string, index int) (*dto.QuestionResponse, error) {
	shell, err := s.registry.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	v, err := shell.SelectQuestion(index)
	if err != nil {
		return nil, err
	}
	return toQuestionResponse(v), nil
}

func (s *attemptServiceImpl) DismissAd(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	shell, err := s.registry.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if err := shell.DismissAd(); err != nil {
		return nil, err
	}
	return toAttemptResponse(shell.Snapshot()), nil
}

func (s *attemptServiceImpl) Resume(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	shell, err := s.registry.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if err := shell.Resume(); err != nil {
		return nil, err
	}
	return toAttemptResponse(shell.Snapshot()), nil
}

func (s *attemptServiceImpl) Abandon(ctx context.Context, userID, attemptID string) error {
	return s.registry.Abandon(attemptID, userID)
}

func toQuestionResponse(v attempt.QuestionView) *dto.QuestionResponse {
	resp := &dto.QuestionResponse{
		Index:              v.Index,
		ID:                 v.ID,
		Text:               v.Text,
		Options:            v.Options,
		ImageURL:           v.ImageURL,
		Answered:           v.Answered,
		CorrectOptionIndex: v.CorrectOptionIndex,
		Explanation:        v.Explanation,
	}
	if v.Answered {
		selected := v.Selected
		resp.Selected = &selected
	}
	return resp
}

func toAttemptResponse(snap attempt.Snapshot) *dto.AttemptResponse {
	resp := &dto.AttemptResponse{
		ID:             snap.ID,
		Kind:           string(snap.Kind),
		QuizID:         snap.QuizID,
		ExamID:         snap.ExamID,
		Title:          snap.Title,
		Phase:          string(snap.Phase),
		CurrentIndex:   snap.CurrentIndex,
		TotalQuestions: snap.Total,
		SecondsLeft:    snap.Remaining,
		Elapsed:        snap.Elapsed,
		Answers:        snap.Answers,
		Ad:             toAdvertisementResponse(snap.Ad),
		AdSecondsLeft:  snap.AdTicksLeft,
		AwaitingTokens: snap.AwaitingTokens,
		SaveError:      snap.SaveError,
		CreatedAt:      snap.CreatedAt,
	}
	if snap.Question != nil && snap.Phase != attempt.PhaseAd {
		resp.Question = toQuestionResponse(*snap.Question)
	}
	if snap.Feedback != nil {
		resp.Feedback = &dto.FeedbackResponse{
			Correct:            snap.Feedback.Correct,
			TimedOut:           snap.Feedback.TimedOut,
			Selected:           snap.Feedback.Selected,
			CorrectOptionIndex: snap.Feedback.CorrectOptionIndex,
			Explanation:        snap.Feedback.Explanation,
			SecondsLeft:        snap.Feedback.TicksLeft,
		}
	}
	if snap.Result != nil {
		resp.Result = toResultResponse(snap.Result)
	}
	return resp
}
