package domain

import "time"

type User struct {
	ID string `json:"id" gorm:"primaryKey"`
	// GoogleID is nil until the account is bound to a Google subject, so
	// unbound accounts don't collide under the unique index.
	GoogleID          *string   `json:"-" gorm:"uniqueIndex"`
	Email             string    `json:"email" gorm:"uniqueIndex"`
	DisplayName       string    `json:"display_name"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RefreshToken is the ledger record backing refresh-token rotation. A record
// is written once per issued refresh token and flips revoked exactly once,
// when the token is consumed by a rotation or an explicit logout. Records are
// never deleted here; cleanup of dead rows is external housekeeping.
type RefreshToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
