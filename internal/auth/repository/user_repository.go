package repository

import (
	"errors"
	"time"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *authdomain.User) error
	Update(user *authdomain.User) error
	FindByID(id string) (*authdomain.User, error)
	FindByEmail(email string) (*authdomain.User, error)
	FindByGoogleID(googleID string) (*authdomain.User, error)
}

// userRepository implements UserRepository over gorm.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if err := r.db.Create(user).Error; err != nil {
		return persistence("create user", err)
	}
	return nil
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	if err := r.db.Save(user).Error; err != nil {
		return persistence("update user", err)
	}
	return nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	return r.findOne("id = ?", id)
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	return r.findOne("email = ?", email)
}

func (r *userRepository) FindByGoogleID(googleID string) (*authdomain.User, error) {
	return r.findOne("google_id = ?", googleID)
}

func (r *userRepository) findOne(query string, arg string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistence("find user", err)
	}
	return &user, nil
}
