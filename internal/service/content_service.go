package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
)

// Unlocker charges tokens once per premium item.
type Unlocker interface {
	IsUnlocked(ctx context.Context, userID, contentType, contentID string) (bool, error)
	Unlock(ctx context.Context, userID, contentType, contentID string, price int) (*dto.UnlockResponse, error)
}

type unlockerImpl struct {
	content   domain.ContentRepository
	ledger    TokenLedger
	txManager domain.TransactionManager
	now       func() time.Time
}

func NewUnlocker(content domain.ContentRepository, ledger TokenLedger, txManager domain.TransactionManager) Unlocker {
	return &unlockerImpl{content: content, ledger: ledger, txManager: txManager, now: time.Now}
}

func (u *unlockerImpl) IsUnlocked(ctx context.Context, userID, contentType, contentID string) (bool, error) {
	ok, err := u.content.HasUnlocked(ctx, userID, contentType, contentID)
	if err != nil {
		return false, fmt.Errorf("failed to check unlock: %w", err)
	}
	return ok, nil
}

// Unlock checks, debits and records in one transaction. An item already unlocked is not charged again.
func (u *unlockerImpl) Unlock(ctx context.Context, userID, contentType, contentID string, price int) (*dto.UnlockResponse, error) {
	resp := &dto.UnlockResponse{ContentType: contentType, ContentID: contentID}

	err := u.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		unlocked, err := u.content.HasUnlocked(txCtx, userID, contentType, contentID)
		if err != nil {
			return err
		}
		if unlocked {
			resp.AlreadyUnlocked = true
			return nil
		}

		if price > 0 {
			ok, err := u.ledger.Debit(txCtx, userID, price)
			if err != nil {
				return err
			}
			if !ok {
				balance, err := u.ledger.Balance(txCtx, userID)
				if err != nil {
					return err
				}
				return domain.NewInsufficientTokensError(price, balance)
			}
		}

		resp.TokensSpent = price
		return u.content.CreateUnlock(txCtx, &domain.ContentUnlock{
			UserID:      userID,
			ContentType: contentType,
			ContentID:   contentID,
			TokensSpent: price,
			UnlockedAt:  u.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	if resp.TokensSpent > 0 {
		// The debit cleared the snapshot before commit; a read in between may have re-cached the old balance.
		u.ledger.InvalidateBalance(ctx, userID)
	}

	balance, err := u.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp.Balance = balance
	if !resp.AlreadyUnlocked {
		logger.Get().Info("Content unlocked",
			zap.String("userID", userID), zap.String("type", contentType), zap.String("id", contentID), zap.Int("tokens", price))
	}
	return resp, nil
}

// ContentService serves current affairs and advertisements.
type ContentService interface {
	ListCurrentAffairs(ctx context.Context, userID string, req dto.CurrentAffairListRequest) ([]dto.CurrentAffairResponse, error)
	GetCurrentAffair(ctx context.Context, userID, id string) (*dto.CurrentAffairResponse, error)
	UnlockCurrentAffair(ctx context.Context, userID, id string) (*dto.UnlockResponse, error)
	ListAdvertisements(ctx context.Context, placement string) ([]dto.AdvertisementResponse, error)
}

type contentServiceImpl struct {
	content  domain.ContentRepository
	unlocker Unlocker
}

func NewContentService(content domain.ContentRepository, unlocker Unlocker) ContentService {
	return &contentServiceImpl{content: content, unlocker: unlocker}
}

func toCurrentAffairResponse(ca *domain.CurrentAffair, locked bool) dto.CurrentAffairResponse {
	if locked {
		ca = ca.Locked()
	}
	return dto.CurrentAffairResponse{
		ID:          ca.ID,
		Title:       ca.Title,
		Summary:     ca.Summary,
		Content:     ca.Content,
		Category:    ca.Category,
		Tags:        ca.Tags,
		ImageURL:    ca.ImageURL,
		IsPremium:   ca.IsPremium,
		TokenPrice:  ca.TokenPrice,
		Locked:      locked,
		PublishedAt: ca.PublishedAt,
	}
}

func (s *contentServiceImpl) locked(ctx context.Context, userID string, ca *domain.CurrentAffair) (bool, error) {
	if !ca.IsPremium {
		return false, nil
	}
	if userID == "" {
		return true, nil
	}
	unlocked, err := s.unlocker.IsUnlocked(ctx, userID, domain.ContentTypeCurrentAffair, ca.ID)
	return !unlocked, err
}

func (s *contentServiceImpl) ListCurrentAffairs(ctx context.Context, userID string, req dto.CurrentAffairListRequest) ([]dto.CurrentAffairResponse, error) {
	page := req.Pagination.Normalize()
	items, err := s.content.ListCurrentAffairs(ctx, req.Category, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list current affairs: %w", err)
	}
	out := make([]dto.CurrentAffairResponse, 0, len(items))
	for _, ca := range items {
		locked, err := s.locked(ctx, userID, ca)
		if err != nil {
			return nil, err
		}
		out = append(out, toCurrentAffairResponse(ca, locked))
	}
	return out, nil
}

func (s *contentServiceImpl) getCurrentAffair(ctx context.Context, id string) (*domain.CurrentAffair, error) {
	ca, err := s.content.GetCurrentAffairByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get current affair: %w", err)
	}
	if ca == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("current affair %s not found", id))
	}
	return ca, nil
}

func (s *contentServiceImpl) GetCurrentAffair(ctx context.Context, userID, id string) (*dto.CurrentAffairResponse, error) {
	ca, err := s.getCurrentAffair(ctx, id)
	if err != nil {
		return nil, err
	}
	locked, err := s.locked(ctx, userID, ca)
	if err != nil {
		return nil, err
	}
	resp := toCurrentAffairResponse(ca, locked)
	return &resp, nil
}

func (s *contentServiceImpl) UnlockCurrentAffair(ctx context.Context, userID, id string) (*dto.UnlockResponse, error) {
	ca, err := s.getCurrentAffair(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ca.IsPremium {
		return &dto.UnlockResponse{ContentType: domain.ContentTypeCurrentAffair, ContentID: id, AlreadyUnlocked: true}, nil
	}
	price := ca.TokenPrice
	if price <= 0 {
		price = 1
	}
	return s.unlocker.Unlock(ctx, userID, domain.ContentTypeCurrentAffair, id, price)
}

func toAdvertisementResponse(ad *domain.Advertisement) *dto.AdvertisementResponse {
	if ad == nil {
		return nil
	}
	return &dto.AdvertisementResponse{
		ID:        ad.ID,
		Title:     ad.Title,
		ImageURL:  ad.ImageURL,
		TargetURL: ad.TargetURL,
		Placement: ad.Placement,
	}
}

func (s *contentServiceImpl) ListAdvertisements(ctx context.Context, placement string) ([]dto.AdvertisementResponse, error) {
	if !domain.IsValidPlacement(placement) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown placement %q", placement))
	}
	ads, err := s.content.ListActiveAdvertisements(ctx, placement)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	out := make([]dto.AdvertisementResponse, 0, len(ads))
	for _, ad := range ads {
		out = append(out, *toAdvertisementResponse(ad))
	}
	return out, nil
}
