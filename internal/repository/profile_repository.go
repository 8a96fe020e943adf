package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"
	"quiz-arena/internal/util"

	"github.com/jmoiron/sqlx"
)

const profileColumns = `id, google_id, email, name, profile_picture_url, tokens, last_coin_claim, created_at, updated_at`

type sqlxProfileRepository struct {
	db DBTX
}

// NewSQLXProfileRepository creates the profile store that also backs the token ledger.
func NewSQLXProfileRepository(db *sqlx.DB) domain.ProfileRepository {
	return &sqlxProfileRepository{db: db}
}

func toDomainProfile(m *models.Profile) *domain.Profile {
	if m == nil {
		return nil
	}
	return &domain.Profile{
		ID:                m.ID,
		GoogleID:          m.GoogleID,
		Email:             m.Email,
		Name:              m.Name.String,
		ProfilePictureURL: m.ProfilePictureURL.String,
		Tokens:            m.Tokens,
		LastCoinClaim:     util.NullTimeToPtr(m.LastCoinClaim),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func fromDomainProfile(p *domain.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	return &models.Profile{
		ID:                p.ID,
		GoogleID:          p.GoogleID,
		Email:             p.Email,
		Name:              util.StringToNullString(p.Name),
		ProfilePictureURL: util.StringToNullString(p.ProfilePictureURL),
		Tokens:            p.Tokens,
		LastCoinClaim:     util.PtrToNullTime(p.LastCoinClaim),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (r *sqlxProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	if profile.Tokens < 0 {
		return domain.NewInvalidInputError("initial token balance cannot be negative")
	}
	m := fromDomainProfile(profile)

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.GoogleID, m.Email, m.Name, m.ProfilePictureURL, m.Tokens, m.LastCoinClaim, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *sqlxProfileRepository) getProfile(ctx context.Context, column, value string) (*domain.Profile, error) {
	var m models.Profile
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE ` + column + ` = ?`)
	if err := exec.GetContext(ctx, &m, query, value); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by %s: %w", column, err)
	}
	return toDomainProfile(&m), nil
}

func (r *sqlxProfileRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getProfile(ctx, "id", id)
}

func (r *sqlxProfileRepository) GetProfileByGoogleID(ctx context.Context, googleID string) (*domain.Profile, error) {
	return r.getProfile(ctx, "google_id", googleID)
}

// UpdateProfileInfo updates identity fields only. Tokens are never written here.
func (r *sqlxProfileRepository) UpdateProfileInfo(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now()
	m := fromDomainProfile(profile)

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE profiles SET email = ?, name = ?, profile_picture_url = ?, updated_at = ? WHERE id = ?`)
	result, err := exec.ExecContext(ctx, query, m.Email, m.Name, m.ProfilePictureURL, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("profile %s not found", profile.ID))
	}
	return nil
}

func (r *sqlxProfileRepository) GetBalance(ctx context.Context, id string) (int, error) {
	var tokens int
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT tokens FROM profiles WHERE id = ?`)
	if err := exec.GetContext(ctx, &tokens, query, id); err != nil {
		if isNoRows(err) {
			return 0, domain.NewNotFoundError(fmt.Sprintf("profile %s not found", id))
		}
		return 0, fmt.Errorf("failed to get token balance: %w", err)
	}
	return tokens, nil
}

// DebitTokens is a single guarded UPDATE, so concurrent debits from any number
// of sessions or devices can never drive the balance below zero.
func (r *sqlxProfileRepository) DebitTokens(ctx context.Context, id string, amount int) (bool, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE profiles SET tokens = tokens - ?, updated_at = ? WHERE id = ? AND tokens >= ?`)
	result, err := exec.ExecContext(ctx, query, amount, time.Now(), id, amount)
	if err != nil {
		return false, fmt.Errorf("failed to debit tokens: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the balance is short or the profile does not exist.
		if _, err := r.GetBalance(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *sqlxProfileRepository) CreditTokens(ctx context.Context, id string, amount int) (int, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE profiles SET tokens = tokens + ?, updated_at = ? WHERE id = ?`)
	result, err := exec.ExecContext(ctx, query, amount, time.Now(), id)
	if err != nil {
		return 0, fmt.Errorf("failed to credit tokens: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, domain.NewNotFoundError(fmt.Sprintf("profile %s not found", id))
	}
	return r.GetBalance(ctx, id)
}

func (r *sqlxProfileRepository) ClaimTokens(ctx context.Context, id string, amount int, now, claimableBefore time.Time) (bool, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE profiles SET tokens = tokens + ?, last_coin_claim = ?, updated_at = ?
		WHERE id = ? AND (last_coin_claim IS NULL OR last_coin_claim <= ?)`)
	result, err := exec.ExecContext(ctx, query, amount, now, now, id, claimableBefore)
	if err != nil {
		return false, fmt.Errorf("failed to claim tokens: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := r.GetBalance(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
