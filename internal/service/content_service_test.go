package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

func TestUnlocker_AlreadyUnlockedIsFree(t *testing.T) {
	content := new(MockContentRepository)
	ledger := new(MockTokenLedger)
	u := NewUnlocker(content, ledger, &MockTransactionManager{})

	content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeCurrentAffair, "ca1").Return(true, nil)
	ledger.On("Balance", mock.Anything, "u1").Return(3, nil)

	resp, err := u.Unlock(context.Background(), "u1", domain.ContentTypeCurrentAffair, "ca1", 1)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyUnlocked)
	assert.Zero(t, resp.TokensSpent)
	ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	content.AssertNotCalled(t, "CreateUnlock", mock.Anything, mock.Anything)
	assert.Empty(t, ledger.invalidated)
}

func TestUnlocker_InsufficientTokens(t *testing.T) {
	content := new(MockContentRepository)
	ledger := new(MockTokenLedger)
	u := NewUnlocker(content, ledger, &MockTransactionManager{})

	content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeQuiz, "q1").Return(false, nil)
	ledger.On("Debit", mock.Anything, "u1", 3).Return(false, nil)
	ledger.On("Balance", mock.Anything, "u1").Return(1, nil)

	_, err := u.Unlock(context.Background(), "u1", domain.ContentTypeQuiz, "q1", 3)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInsufficientTokens, derr.Code)
	assert.Equal(t, 1, derr.Context["balance"])
	content.AssertNotCalled(t, "CreateUnlock", mock.Anything, mock.Anything)
}

func TestUnlocker_RecordFailurePropagates(t *testing.T) {
	content := new(MockContentRepository)
	ledger := new(MockTokenLedger)
	u := NewUnlocker(content, ledger, &MockTransactionManager{})

	dbErr := errors.New("unique violation")
	content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeQuiz, "q1").Return(false, nil)
	ledger.On("Debit", mock.Anything, "u1", 1).Return(true, nil)
	content.On("CreateUnlock", mock.Anything, mock.Anything).Return(dbErr)

	_, err := u.Unlock(context.Background(), "u1", domain.ContentTypeQuiz, "q1", 1)
	assert.ErrorIs(t, err, dbErr)
}

func TestContentService_LockedArticlesHideBody(t *testing.T) {
	content := new(MockContentRepository)
	svc := NewContentService(content, NewUnlocker(content, new(MockTokenLedger), &MockTransactionManager{}))

	items := []*domain.CurrentAffair{
		{ID: "free", Title: "Budget", Content: "free body"},
		{ID: "paid", Title: "Analysis", Content: "paid body", IsPremium: true, TokenPrice: 2},
	}
	content.On("ListCurrentAffairs", mock.Anything, "economy", 20, 0).Return(items, nil)
	content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeCurrentAffair, "paid").Return(false, nil).Once()

	out, err := svc.ListCurrentAffairs(context.Background(), "u1", dto.CurrentAffairListRequest{Category: "economy"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "free body", out[0].Content)
	assert.True(t, out[1].Locked)
	assert.Empty(t, out[1].Content)
	assert.Equal(t, "paid body", items[1].Content, "repository data is not mutated")

	out, err = svc.ListCurrentAffairs(context.Background(), "", dto.CurrentAffairListRequest{Category: "economy"})
	require.NoError(t, err)
	assert.True(t, out[1].Locked, "anonymous readers never see premium bodies")
}

func TestContentService_UnlockCurrentAffair(t *testing.T) {
	content := new(MockContentRepository)
	ledger := new(MockTokenLedger)
	svc := NewContentService(content, NewUnlocker(content, ledger, &MockTransactionManager{}))

	content.On("GetCurrentAffairByID", mock.Anything, "paid").Return(&domain.CurrentAffair{ID: "paid", IsPremium: true}, nil)
	content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeCurrentAffair, "paid").Return(false, nil)
	ledger.On("Debit", mock.Anything, "u1", 1).Return(true, nil)
	content.On("CreateUnlock", mock.Anything, mock.Anything).Return(nil)
	ledger.On("Balance", mock.Anything, "u1").Return(0, nil)

	resp, err := svc.UnlockCurrentAffair(context.Background(), "u1", "paid")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TokensSpent, "default article price")
	assert.Equal(t, 0, resp.Balance)
	assert.Equal(t, []string{"u1"}, ledger.invalidated)

	content.On("GetCurrentAffairByID", mock.Anything, "missing").Return(nil, nil)
	_, err = svc.UnlockCurrentAffair(context.Background(), "u1", "missing")
	assert.Error(t, err)
}

func TestContentService_ListAdvertisements(t *testing.T) {
	content := new(MockContentRepository)
	svc := NewContentService(content, nil)

	_, err := svc.ListAdvertisements(context.Background(), "sidebar")
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInvalidInput, derr.Code)

	content.On("ListActiveAdvertisements", mock.Anything, domain.PlacementResults).
		Return([]*domain.Advertisement{{ID: "ad1", Title: "Books", Placement: domain.PlacementResults}}, nil)
	ads, err := svc.ListAdvertisements(context.Background(), domain.PlacementResults)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "ad1", ads[0].ID)
}

// beforeCommitTx runs beforeCommit after fn and before returning, the window in
// which another request still reads rows without fn's writes.
type beforeCommitTx struct {
	beforeCommit func(ctx context.Context)
}

func (b *beforeCommitTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	b.beforeCommit(context.Background())
	return nil
}

func TestUnlocker_BalanceFreshAfterCommit(t *testing.T) {
	profiles := new(MockProfileRepository)
	content := new(MockContentRepository)
	c, _ := newTestCache(t)
	ledger := NewTokenLedger(profiles, &MockTransactionManager{}, c, testConfig())

	profiles.On("DebitTokens", mock.Anything, "u1", 1).Return(true, nil).Once()
	// First read lands before the unlock commits, the second after.
	profiles.On("GetBalance", mock.Anything, "u1").Return(5, nil).Once()
	profiles.On("GetBalance", mock.Anything, "u1").Return(4, nil).Once()
	content.On("HasUnlocked", mock.Anything, "u1", domain.ContentTypeQuiz, "q1").Return(false, nil)
	content.On("CreateUnlock", mock.Anything, mock.Anything).Return(nil)

	tx := &beforeCommitTx{
		beforeCommit: func(ctx context.Context) {
			balance, err := ledger.Balance(ctx, "u1")
			require.NoError(t, err)
			require.Equal(t, 5, balance, "reader sees the pre-commit row")
		},
	}
	u := NewUnlocker(content, ledger, tx)

	resp, err := u.Unlock(context.Background(), "u1", domain.ContentTypeQuiz, "q1", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Balance)

	balance, err := ledger.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, balance, "cached snapshot reflects the committed debit")
	profiles.AssertExpectations(t)
}
