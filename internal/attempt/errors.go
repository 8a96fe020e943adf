package attempt

import "quiz-arena/internal/domain"

// Sentinel errors. Handlers render them through their domain code.
var (
	ErrNoQuestions       = domain.NewError(domain.CodeNotFound, "attempt has no questions", nil)
	ErrAlreadyStarted    = domain.NewInvalidTransitionError("attempt already started")
	ErrNotStarted        = domain.NewInvalidTransitionError("attempt has not started")
	ErrNotAwaitingAnswer = domain.NewInvalidTransitionError("no question is awaiting an answer")
	ErrNotAnswered       = domain.NewInvalidTransitionError("current question has not been answered")
	ErrCannotSelect      = domain.NewInvalidTransitionError("question cannot be selected now")
	ErrAdShowing         = domain.NewInvalidTransitionError("an advertisement is being shown")
	ErrNoAdShowing       = domain.NewInvalidTransitionError("no advertisement is being shown")
	ErrNotAwaitingTokens = domain.NewInvalidTransitionError("attempt is not waiting for tokens")
	ErrClosed            = domain.NewInvalidTransitionError("attempt has ended")
	ErrAlreadyFinalized  = domain.NewInvalidTransitionError("attempt already finalized")
	ErrAwaitingTokens    = domain.NewError(domain.CodeInsufficientTokens, "attempt is waiting for tokens", nil)
	ErrInvalidOption     = domain.NewInvalidAnswerError("selected option is out of range")
)
