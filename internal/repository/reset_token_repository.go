package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/database"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResetTokenRepository handles password-reset token database operations
type ResetTokenRepository struct{}

// NewResetTokenRepository creates a new reset token repository
func NewResetTokenRepository() *ResetTokenRepository {
	return &ResetTokenRepository{}
}

// Create persists a new reset token for a user. Earlier unused tokens
// for the same user are invalidated so only the latest one works.
func (r *ResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("user_id = ? AND used_at IS NULL", token.UserID).
			Update("used_at", now).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// Consume marks a token used and writes the owner's new password hash
// in the same transaction, returning the owning user ID. The row is
// locked for the duration of the transaction so a token can only ever
// be redeemed once, and a failed password write leaves it unspent.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string, passwordHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.PasswordResetToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ? AND used_at IS NULL AND expires_at > ?", token, time.Now().UTC()).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation("token", "Invalid token.")
			}
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&row).Update("used_at", now).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", row.UserID).
			Update("password_hash", passwordHash).Error; err != nil {
			return err
		}

		userID = row.UserID
		return nil
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}
