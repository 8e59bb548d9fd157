package usecase

import (
	"context"
	"fmt"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	petdomain "github.com/jordanschwab/petwebsite/internal/pet/domain"
	petdto "github.com/jordanschwab/petwebsite/internal/pet/dto"
	"github.com/jordanschwab/petwebsite/internal/pet/repository"

	"go.uber.org/zap"
)

type PetUsecase interface {
	Create(ctx context.Context, userID string, req *petdto.CreatePetRequest) (*petdomain.Pet, error)
	List(ctx context.Context, userID string, search string) ([]petdomain.Pet, error)
	Get(ctx context.Context, userID, petID string) (*petdomain.Pet, error)
	Update(ctx context.Context, userID, petID string, req *petdto.UpdatePetRequest) (*petdomain.Pet, error)
	Delete(ctx context.Context, userID, petID string) error
}

type petUsecase struct {
	petRepo repository.PetRepository
	log     *zap.Logger
}

func NewPetUsecase(petRepo repository.PetRepository, log *zap.Logger) PetUsecase {
	return &petUsecase{petRepo: petRepo, log: log.Named("pet")}
}

func (u *petUsecase) Create(ctx context.Context, userID string, req *petdto.CreatePetRequest) (*petdomain.Pet, error) {
	pet := &petdomain.Pet{
		UserID:            userID,
		Name:              req.Name,
		Species:           req.Species,
		Breed:             req.Breed,
		BirthDate:         req.BirthDate,
		Weight:            req.Weight,
		ColorDescription:  req.ColorDescription,
		MicrochipID:       req.MicrochipID,
		Notes:             req.Notes,
		ProfilePictureURL: req.ProfilePictureURL,
	}
	if err := u.petRepo.Create(pet); err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}

	u.log.Info("pet created", zap.String("pet_id", pet.ID), zap.String("user_id", userID))
	return pet, nil
}

func (u *petUsecase) List(ctx context.Context, userID string, search string) ([]petdomain.Pet, error) {
	return u.petRepo.FindByUser(userID, search)
}

// Get loads a pet and enforces ownership: a pet owned by someone else is a
// Forbidden, not a NotFound, so the caller can map it to 403.
func (u *petUsecase) Get(ctx context.Context, userID, petID string) (*petdomain.Pet, error) {
	pet, err := u.petRepo.FindByID(petID)
	if err != nil {
		return nil, fmt.Errorf("find pet: %w", err)
	}
	if pet == nil {
		return nil, petdomain.ErrNotFound
	}
	if err := authdomain.AuthorizeOwner(userID, pet.UserID); err != nil {
		return nil, err
	}
	return pet, nil
}

func (u *petUsecase) Update(ctx context.Context, userID, petID string, req *petdto.UpdatePetRequest) (*petdomain.Pet, error) {
	pet, err := u.Get(ctx, userID, petID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Species != nil {
		pet.Species = *req.Species
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.BirthDate != nil {
		pet.BirthDate = req.BirthDate
	}
	if req.Weight != nil {
		pet.Weight = *req.Weight
	}
	if req.ColorDescription != nil {
		pet.ColorDescription = *req.ColorDescription
	}
	if req.MicrochipID != nil {
		pet.MicrochipID = *req.MicrochipID
	}
	if req.Notes != nil {
		pet.Notes = *req.Notes
	}
	if req.ProfilePictureURL != nil {
		pet.ProfilePictureURL = *req.ProfilePictureURL
	}

	if err := u.petRepo.Update(pet); err != nil {
		return nil, fmt.Errorf("update pet: %w", err)
	}

	u.log.Info("pet updated", zap.String("pet_id", pet.ID), zap.String("user_id", userID))
	return pet, nil
}

func (u *petUsecase) Delete(ctx context.Context, userID, petID string) error {
	pet, err := u.Get(ctx, userID, petID)
	if err != nil {
		return err
	}
	if err := u.petRepo.SoftDelete(pet.ID); err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}

	u.log.Info("pet deleted", zap.String("pet_id", pet.ID), zap.String("user_id", userID))
	return nil
}
