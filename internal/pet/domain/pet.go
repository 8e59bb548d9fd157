package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("pet not found")

type Pet struct {
	ID                string         `json:"id" gorm:"primaryKey"`
	UserID            string         `json:"user_id" gorm:"index"`
	Name              string         `json:"name"`
	Species           string         `json:"species"`
	Breed             string         `json:"breed,omitempty"`
	BirthDate         *time.Time     `json:"birth_date,omitempty"`
	Weight            float64        `json:"weight,omitempty"`
	ColorDescription  string         `json:"color_description,omitempty"`
	MicrochipID       string         `json:"microchip_id,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}
