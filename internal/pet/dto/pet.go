package dto

import (
	"errors"
	"time"
)

const maxNameLength = 100

type CreatePetRequest struct {
	Name              string     `json:"name" binding:"required"`
	Species           string     `json:"species" binding:"required"`
	Breed             string     `json:"breed"`
	BirthDate         *time.Time `json:"birth_date"`
	Weight            float64    `json:"weight"`
	ColorDescription  string     `json:"color_description"`
	MicrochipID       string     `json:"microchip_id"`
	Notes             string     `json:"notes"`
	ProfilePictureURL string     `json:"profile_picture_url"`
}

type UpdatePetRequest struct {
	Name              *string    `json:"name"`
	Species           *string    `json:"species"`
	Breed             *string    `json:"breed"`
	BirthDate         *time.Time `json:"birth_date"`
	Weight            *float64   `json:"weight"`
	ColorDescription  *string    `json:"color_description"`
	MicrochipID       *string    `json:"microchip_id"`
	Notes             *string    `json:"notes"`
	ProfilePictureURL *string    `json:"profile_picture_url"`
}

func (r *CreatePetRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Name) > maxNameLength {
		return errors.New("name is too long")
	}
	if r.Species == "" {
		return errors.New("species is required")
	}
	if r.Weight < 0 {
		return errors.New("weight cannot be negative")
	}
	if r.BirthDate != nil && r.BirthDate.After(time.Now()) {
		return errors.New("birth date cannot be in the future")
	}
	return nil
}

func (r *UpdatePetRequest) Validate() error {
	if r.Name != nil && (*r.Name == "" || len(*r.Name) > maxNameLength) {
		return errors.New("name must be between 1 and 100 characters")
	}
	if r.Species != nil && *r.Species == "" {
		return errors.New("species cannot be empty")
	}
	if r.Weight != nil && *r.Weight < 0 {
		return errors.New("weight cannot be negative")
	}
	if r.BirthDate != nil && r.BirthDate.After(time.Now()) {
		return errors.New("birth date cannot be in the future")
	}
	return nil
}
