package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	petdomain "github.com/jordanschwab/petwebsite/internal/pet/domain"
	petdto "github.com/jordanschwab/petwebsite/internal/pet/dto"

	"go.uber.org/zap"
)

type fakePetRepo struct {
	pets map[string]*petdomain.Pet
	seq  int
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{pets: map[string]*petdomain.Pet{}}
}

func (r *fakePetRepo) Create(pet *petdomain.Pet) error {
	r.seq++
	pet.ID = "pet-" + string(rune('0'+r.seq))
	pet.CreatedAt = time.Now()
	copied := *pet
	r.pets[pet.ID] = &copied
	return nil
}

func (r *fakePetRepo) Update(pet *petdomain.Pet) error {
	copied := *pet
	r.pets[pet.ID] = &copied
	return nil
}

func (r *fakePetRepo) FindByID(id string) (*petdomain.Pet, error) {
	if p, ok := r.pets[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePetRepo) FindByUser(userID string, search string) ([]petdomain.Pet, error) {
	var out []petdomain.Pet
	for _, p := range r.pets {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePetRepo) SoftDelete(id string) error {
	delete(r.pets, id)
	return nil
}

func newTestPets() (PetUsecase, *fakePetRepo) {
	repo := newFakePetRepo()
	return NewPetUsecase(repo, zap.NewNop()), repo
}

func TestCreateAndGetPet(t *testing.T) {
	uc, _ := newTestPets()

	created, err := uc.Create(context.Background(), "u1", &petdto.CreatePetRequest{Name: "Rex", Species: "dog", Breed: "lab"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UserID != "u1" {
		t.Fatalf("owner not set: %+v", created)
	}

	got, err := uc.Get(context.Background(), "u1", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Rex" || got.Species != "dog" {
		t.Fatalf("unexpected pet: %+v", got)
	}
}

func TestGetPetOwnedBySomeoneElse(t *testing.T) {
	uc, _ := newTestPets()

	created, err := uc.Create(context.Background(), "u2", &petdto.CreatePetRequest{Name: "Rex", Species: "dog"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Wrong owner is a Forbidden, not a NotFound and not an Unauthorized.
	if _, err := uc.Get(context.Background(), "u1", created.ID); !errors.Is(err, authdomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGetMissingPet(t *testing.T) {
	uc, _ := newTestPets()

	if _, err := uc.Get(context.Background(), "u1", "nope"); !errors.Is(err, petdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePetPartial(t *testing.T) {
	uc, _ := newTestPets()

	created, err := uc.Create(context.Background(), "u1", &petdto.CreatePetRequest{Name: "Rex", Species: "dog", Notes: "bites"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Rexford"
	updated, err := uc.Update(context.Background(), "u1", created.ID, &petdto.UpdatePetRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Rexford" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.Notes != "bites" {
		t.Fatalf("untouched field changed: %+v", updated)
	}

	// Ownership holds for updates too.
	if _, err := uc.Update(context.Background(), "u2", created.ID, &petdto.UpdatePetRequest{Name: &name}); !errors.Is(err, authdomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeletePet(t *testing.T) {
	uc, repo := newTestPets()

	created, err := uc.Create(context.Background(), "u1", &petdto.CreatePetRequest{Name: "Rex", Species: "dog"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := uc.Delete(context.Background(), "u2", created.ID); !errors.Is(err, authdomain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for wrong owner, got %v", err)
	}
	if err := uc.Delete(context.Background(), "u1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.pets) != 0 {
		t.Fatalf("pet not deleted: %v", repo.pets)
	}
}

func TestCreatePetValidation(t *testing.T) {
	cases := []petdto.CreatePetRequest{
		{Species: "dog"},                            // missing name
		{Name: "Rex"},                               // missing species
		{Name: "Rex", Species: "dog", Weight: -1},   // negative weight
	}
	for i, req := range cases {
		if err := req.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}

	ok := petdto.CreatePetRequest{Name: "Rex", Species: "dog", Weight: 12.5}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}
