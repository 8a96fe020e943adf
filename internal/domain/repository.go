package domain

import (
	"context"
	"time"
)

// TransactionManager runs fn inside a database transaction carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories return (nil, nil) when a single row is not found.

type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	GetProfileByGoogleID(ctx context.Context, googleID string) (*Profile, error)
	UpdateProfileInfo(ctx context.Context, profile *Profile) error

	// GetBalance returns the stored token balance or a not-found error.
	GetBalance(ctx context.Context, id string) (int, error)
	// DebitTokens subtracts amount only when the balance covers it. false means insufficient balance.
	DebitTokens(ctx context.Context, id string, amount int) (bool, error)
	// CreditTokens adds amount and returns the new balance.
	CreditTokens(ctx context.Context, id string, amount int) (int, error)
	// ClaimTokens credits amount and stamps last_coin_claim with now when the last
	// claim is unset or not after claimableBefore.
	ClaimTokens(ctx context.Context, id string, amount int, now, claimableBefore time.Time) (bool, error)
}

type QuizRepository interface {
	ListClasses(ctx context.Context) ([]*Class, error)
	ListSubjects(ctx context.Context, classID string) ([]*Subject, error)
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]*Quiz, error)
	// GetQuizByID returns quiz metadata without questions.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	// GetQuestionsByQuizID returns questions ordered by order_index.
	GetQuestionsByQuizID(ctx context.Context, quizID string) ([]Question, error)
	CountQuestions(ctx context.Context, quizID string) (int, error)
}

type ExamRepository interface {
	ListExams(ctx context.Context, subjectID string) ([]*Exam, error)
	// GetExamByID includes the ordered quiz ids.
	GetExamByID(ctx context.Context, id string) (*Exam, error)
}

type ResultRepository interface {
	CreateResult(ctx context.Context, result *Result) error
	GetResultByID(ctx context.Context, id string) (*Result, error)
	ListResultsByUser(ctx context.Context, userID string, limit, offset int) ([]*Result, int, error)
}

type ContentRepository interface {
	ListCurrentAffairs(ctx context.Context, category string, limit, offset int) ([]*CurrentAffair, error)
	GetCurrentAffairByID(ctx context.Context, id string) (*CurrentAffair, error)
	ListActiveAdvertisements(ctx context.Context, placement string) ([]*Advertisement, error)
	HasUnlocked(ctx context.Context, userID, contentType, contentID string) (bool, error)
	CreateUnlock(ctx context.Context, unlock *ContentUnlock) error
}

// TextGenerator produces free text from a prompt. Implemented by the LLM adapter.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CatalogWriter loads catalog and content rows. Used by the seed command, not by request handling.
type CatalogWriter interface {
	CreateClass(ctx context.Context, class *Class) error
	CreateSubject(ctx context.Context, subject *Subject) error
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	CreateQuestion(ctx context.Context, question *Question) error
	CreateExam(ctx context.Context, exam *Exam) error
	CreateCurrentAffair(ctx context.Context, item *CurrentAffair) error
	CreateAdvertisement(ctx context.Context, ad *Advertisement) error
}
