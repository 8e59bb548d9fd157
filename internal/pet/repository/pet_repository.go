package repository

import (
	"errors"
	"time"

	petdomain "github.com/jordanschwab/petwebsite/internal/pet/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PetRepository interface {
	Create(pet *petdomain.Pet) error
	Update(pet *petdomain.Pet) error
	// FindByID returns the record regardless of owner; ownership is the
	// usecase's call to make. Soft-deleted records are invisible.
	FindByID(id string) (*petdomain.Pet, error)
	FindByUser(userID string, search string) ([]petdomain.Pet, error)
	SoftDelete(id string) error
}

type petRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) Create(pet *petdomain.Pet) error {
	pet.ID = uuid.New().String()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()
	return r.db.Create(pet).Error
}

func (r *petRepository) Update(pet *petdomain.Pet) error {
	pet.UpdatedAt = time.Now()
	return r.db.Save(pet).Error
}

func (r *petRepository) FindByID(id string) (*petdomain.Pet, error) {
	var pet petdomain.Pet
	err := r.db.Where("id = ?", id).First(&pet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) FindByUser(userID string, search string) ([]petdomain.Pet, error) {
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR species ILIKE ? OR breed ILIKE ?", like, like, like)
	}

	var pets []petdomain.Pet
	if err := q.Find(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *petRepository) SoftDelete(id string) error {
	return r.db.Where("id = ?", id).Delete(&petdomain.Pet{}).Error
}
