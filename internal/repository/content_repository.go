package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const currentAffairColumns = `id, title, summary, content, category, tags, image_url, is_premium, token_price, published_at`

type sqlxContentRepository struct {
	db DBTX
}

// NewSQLXContentRepository stores current affairs, advertisements and premium unlocks.
func NewSQLXContentRepository(db *sqlx.DB) domain.ContentRepository {
	return &sqlxContentRepository{db: db}
}

func toDomainCurrentAffair(m *models.CurrentAffair) *domain.CurrentAffair {
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	return &domain.CurrentAffair{
		ID:          m.ID,
		Title:       m.Title,
		Summary:     m.Summary.String,
		Content:     m.Content,
		Category:    m.Category.String,
		Tags:        tags,
		ImageURL:    m.ImageURL.String,
		IsPremium:   m.IsPremium,
		TokenPrice:  m.TokenPrice,
		PublishedAt: m.PublishedAt,
	}
}

func (r *sqlxContentRepository) ListCurrentAffairs(ctx context.Context, category string, limit, offset int) ([]*domain.CurrentAffair, error) {
	query := `SELECT ` + currentAffairColumns + ` FROM current_affairs`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY published_at DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`
	args = append(args, offset, limit)

	var rows []models.CurrentAffair
	exec := GetExecutor(ctx, r.db)
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list current affairs: %w", err)
	}
	items := make([]*domain.CurrentAffair, 0, len(rows))
	for i := range rows {
		items = append(items, toDomainCurrentAffair(&rows[i]))
	}
	return items, nil
}

func (r *sqlxContentRepository) GetCurrentAffairByID(ctx context.Context, id string) (*domain.CurrentAffair, error) {
	var m models.CurrentAffair
	exec := GetExecutor(ctx, r.db)
	if err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT `+currentAffairColumns+` FROM current_affairs WHERE id = ?`), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current affair by id: %w", err)
	}
	return toDomainCurrentAffair(&m), nil
}

func (r *sqlxContentRepository) ListActiveAdvertisements(ctx context.Context, placement string) ([]*domain.Advertisement, error) {
	var rows []models.Advertisement
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT id, title, image_url, target_url, placement, is_active
		FROM advertisements WHERE placement = ? AND is_active = ? ORDER BY id`)
	if err := exec.SelectContext(ctx, &rows, query, placement, true); err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	ads := make([]*domain.Advertisement, 0, len(rows))
	for _, m := range rows {
		ads = append(ads, &domain.Advertisement{
			ID:        m.ID,
			Title:     m.Title,
			ImageURL:  m.ImageURL.String,
			TargetURL: m.TargetURL.String,
			Placement: m.Placement,
			IsActive:  m.IsActive,
		})
	}
	return ads, nil
}

func (r *sqlxContentRepository) HasUnlocked(ctx context.Context, userID, contentType, contentID string) (bool, error) {
	var count int
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT COUNT(*) FROM content_unlocks WHERE user_id = ? AND content_type = ? AND content_id = ?`)
	if err := exec.GetContext(ctx, &count, query, userID, contentType, contentID); err != nil {
		return false, fmt.Errorf("failed to check unlock: %w", err)
	}
	return count > 0, nil
}

func (r *sqlxContentRepository) CreateUnlock(ctx context.Context, unlock *domain.ContentUnlock) error {
	if unlock.UnlockedAt.IsZero() {
		unlock.UnlockedAt = time.Now()
	}
	m := models.ContentUnlock{
		UserID:      unlock.UserID,
		ContentType: unlock.ContentType,
		ContentID:   unlock.ContentID,
		TokensSpent: unlock.TokensSpent,
		UnlockedAt:  unlock.UnlockedAt,
	}
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO content_unlocks (user_id, content_type, content_id, tokens_spent, unlocked_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, m.UserID, m.ContentType, m.ContentID, m.TokensSpent, m.UnlockedAt); err != nil {
		return fmt.Errorf("failed to create unlock: %w", err)
	}
	return nil
}
