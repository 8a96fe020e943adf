package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
)

// TokenLedger owns every change to a user's token balance.
type TokenLedger interface {
	Balance(ctx context.Context, userID string) (int, error)
	// Debit returns false, without mutating, when the balance cannot cover amount.
	Debit(ctx context.Context, userID string, amount int) (bool, error)
	Credit(ctx context.Context, userID string, amount int) (int, error)
	HasEnough(ctx context.Context, userID string, amount int) (bool, error)
	ClaimDaily(ctx context.Context, userID string) (*dto.TokenCreditResponse, error)
	Purchase(ctx context.Context, userID string) (*dto.TokenCreditResponse, error)
	// InvalidateBalance drops the cached snapshot. Callers that debit inside their
	// own transaction call it after that transaction commits.
	InvalidateBalance(ctx context.Context, userID string)
}

type tokenLedgerImpl struct {
	profiles   domain.ProfileRepository
	txManager  domain.TransactionManager
	cache      domain.Cache
	cfg        config.TokensConfig
	balanceTTL time.Duration
	now        func() time.Time
}

// NewTokenLedger creates the ledger. cache may be nil.
func NewTokenLedger(profiles domain.ProfileRepository, txManager domain.TransactionManager, cache domain.Cache, cfg *config.Config) TokenLedger {
	return &tokenLedgerImpl{
		profiles:   profiles,
		txManager:  txManager,
		cache:      cache,
		cfg:        cfg.Tokens,
		balanceTTL: cfg.Cache.BalanceTTL,
		now:        time.Now,
	}
}

func balanceCacheKey(userID string) string {
	return cache.GenerateCacheKey("tokens", "balance", userID)
}

// Balance is cache-aside. A read that loads the row before a concurrent
// mutation commits can store the old value after the mutation cleared the key;
// that snapshot lives at most cache.balance_ttl. Debits themselves never trust
// the cache: the guarded UPDATE decides.
func (s *tokenLedgerImpl) Balance(ctx context.Context, userID string) (int, error) {
	key := balanceCacheKey(userID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				return n, nil
			}
		}
	}

	balance, err := s.profiles.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, strconv.Itoa(balance), s.balanceTTL); err != nil {
			logger.Get().Warn("Failed to cache token balance", zap.String("userID", userID), zap.Error(err))
		}
	}
	return balance, nil
}

func (s *tokenLedgerImpl) Debit(ctx context.Context, userID string, amount int) (bool, error) {
	if amount <= 0 {
		return false, domain.NewInvalidInputError("debit amount must be positive")
	}

	var ok bool
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		ok, err = s.profiles.DebitTokens(txCtx, userID, amount)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to debit tokens: %w", err)
	}
	if ok {
		s.InvalidateBalance(ctx, userID)
	}
	return ok, nil
}

func (s *tokenLedgerImpl) InvalidateBalance(ctx context.Context, userID string) {
	cache.Invalidate(ctx, s.cache, balanceCacheKey(userID))
}

func (s *tokenLedgerImpl) Credit(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, domain.NewInvalidInputError("credit amount must be positive")
	}

	var balance int
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		balance, err = s.profiles.CreditTokens(txCtx, userID, amount)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to credit tokens: %w", err)
	}
	s.InvalidateBalance(ctx, userID)
	return balance, nil
}

func (s *tokenLedgerImpl) HasEnough(ctx context.Context, userID string, amount int) (bool, error) {
	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (s *tokenLedgerImpl) ClaimDaily(ctx context.Context, userID string) (*dto.TokenCreditResponse, error) {
	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("profile %s not found", userID))
	}

	now := s.now()
	interval := s.cfg.DailyClaimInterval
	if !profile.CanClaim(now, interval) {
		next := profile.LastCoinClaim.Add(interval)
		return nil, claimNotAvailable(next)
	}

	amount := s.cfg.DailyClaimAmount
	var claimed bool
	var balance int
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		claimed, err = s.profiles.ClaimTokens(txCtx, userID, amount, now, now.Add(-interval))
		if err != nil || !claimed {
			return err
		}
		balance, err = s.profiles.GetBalance(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim daily tokens: %w", err)
	}
	if !claimed {
		// Another device claimed between the read and the update.
		return nil, claimNotAvailable(now.Add(interval))
	}
	s.InvalidateBalance(ctx, userID)

	next := now.Add(interval)
	logger.Get().Info("Daily tokens claimed", zap.String("userID", userID), zap.Int("amount", amount))
	return &dto.TokenCreditResponse{Credited: amount, Balance: balance, NextClaimAt: &next}, nil
}

func claimNotAvailable(next time.Time) *domain.DomainError {
	return domain.NewError(domain.CodeClaimNotAvailable, "daily tokens were already claimed", nil).
		WithContext("next_claim_at", next.UTC().Format(time.RFC3339))
}

// Purchase credits a token pack. Payment is simulated.
func (s *tokenLedgerImpl) Purchase(ctx context.Context, userID string) (*dto.TokenCreditResponse, error) {
	amount := s.cfg.PurchasePack
	balance, err := s.Credit(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Token pack purchased", zap.String("userID", userID), zap.Int("amount", amount))
	return &dto.TokenCreditResponse{Credited: amount, Balance: balance}, nil
}
