package resume

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FirstStep is the intake cursor value of a freshly created resume. It is kept
// here so the store can seed new documents without importing the intake engine.
const FirstStep = "name_role"

const fallbackFullName = "Untitled Resume"

// CreateInput seeds a new resume. Empty fields fall back to defaults.
type CreateInput struct {
	FullName          string `json:"fullName"`
	ProfessionalTitle string `json:"professionalTitle"`
	Template          string `json:"template"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
}

// UseCase describes owner-scoped resume CRUD.
type UseCase interface {
	Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Profile, error)
	ListMine(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Profile, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (Profile, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch Patch) (Profile, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService returns the default UseCase backed by repo.
func NewService(repo Repository) UseCase {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Profile, error) {
	tpl := strings.TrimSpace(in.Template)
	if tpl != "" && !IsTemplate(tpl) {
		return Profile{}, &ValidationError{Fields: map[string]string{"template": "unknown template"}}
	}
	email := strings.TrimSpace(in.Email)
	if email != "" && validate.Var(email, "email") != nil {
		return Profile{}, &ValidationError{Fields: map[string]string{"contact.email": "must be a valid email"}}
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = fallbackFullName
	}
	title := strings.TrimSpace(in.ProfessionalTitle)
	if title == "" {
		title = DefaultTitle
	}
	now := s.now()
	p := Profile{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Content: Content{
			FullName:          name,
			ProfessionalTitle: title,
			Contact:           Contact{Email: email, Phone: strings.TrimSpace(in.Phone)},
			Template:          tpl,
		},
		IntakeStep: FirstStep,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.Content.Normalize()
	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("create resume: %w", err)
	}
	return p, nil
}

func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Profile, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *service) Get(ctx context.Context, ownerID, id uuid.UUID) (Profile, error) {
	return s.repo.GetForOwner(ctx, ownerID, id)
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, patch Patch) (Profile, error) {
	patch = patch.Normalized()
	if err := ValidatePatch(patch); err != nil {
		return Profile{}, err
	}
	if patch.IsEmpty() {
		return s.repo.GetForOwner(ctx, ownerID, id)
	}
	return s.repo.UpdateForOwner(ctx, ownerID, id, patch, nil)
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteForOwner(ctx, ownerID, id)
}
