package repository

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshTokenRepository is the ledger of issued refresh tokens. One record
// per issuance; consumption flips revoked exactly once.
type RefreshTokenRepository interface {
	Save(token *authdomain.RefreshToken) error
	FindByToken(token string) (*authdomain.RefreshToken, error)
	// Rotate atomically revokes the old record and writes its replacement
	// in one transaction. Returns false when the old record was already
	// revoked, so of N concurrent callers exactly one sees true. On a
	// storage failure the old record stays live and can be retried.
	Rotate(oldID string, replacement *authdomain.RefreshToken) (bool, error)
	// Revoke marks the record revoked unconditionally. Idempotent.
	Revoke(id string) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Save(token *authdomain.RefreshToken) error {
	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()
	if err := r.db.Create(token).Error; err != nil {
		return persistence("save refresh token", err)
	}
	return nil
}

func (r *refreshTokenRepository) FindByToken(token string) (*authdomain.RefreshToken, error) {
	var record authdomain.RefreshToken
	err := r.db.Where("token = ?", token).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistence("find refresh token", err)
	}
	return &record, nil
}

var errRotateLost = errors.New("refresh token already consumed")

// Rotate is the rotation serialization point: the conditional update on the
// revoked flag lets the database arbitrate between concurrent rotations of
// the same token value. Only the caller whose update actually changed a row
// gets its replacement written; revoke and insert commit together, so a
// failed insert rolls the revocation back instead of stranding the caller
// without a token.
func (r *refreshTokenRepository) Rotate(oldID string, replacement *authdomain.RefreshToken) (bool, error) {
	replacement.ID = uuid.New().String()
	replacement.CreatedAt = time.Now()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&authdomain.RefreshToken{}).
			Where("id = ? AND revoked = ?", oldID, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errRotateLost
		}
		return tx.Create(replacement).Error
	})
	if err != nil {
		if errors.Is(err, errRotateLost) {
			return false, nil
		}
		return false, persistence("rotate refresh token", err)
	}
	return true, nil
}

func (r *refreshTokenRepository) Revoke(id string) error {
	err := r.db.Model(&authdomain.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
	if err != nil {
		return persistence("revoke refresh token", err)
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", authdomain.ErrPersistence, op, err)
}
