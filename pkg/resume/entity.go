package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Templates understood by the renderer.
const (
	TemplateSkillsFirst     = "skills-first"
	TemplateExperienceFirst = "experience-first"

	DefaultTemplate = TemplateSkillsFirst
	DefaultTitle    = "Professional"
	DefaultEndDate  = "Present"
)

// ErrNotFound is returned when a resume does not exist for the requesting owner.
var ErrNotFound = errors.New("resume not found")

// IsTemplate reports whether name selects a known layout.
func IsTemplate(name string) bool {
	return name == TemplateSkillsFirst || name == TemplateExperienceFirst
}

type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// WorkEntry is one job in the work history.
type WorkEntry struct {
	Company   string   `json:"company"`
	JobTitle  string   `json:"jobTitle"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Duties    []string `json:"duties"`
}

// Content is the document body of a resume: everything the owner can edit.
type Content struct {
	FullName          string      `json:"fullName"`
	ProfessionalTitle string      `json:"professionalTitle"`
	DateOfBirth       string      `json:"dateOfBirth,omitempty"` // free text, usually "DD Month YYYY"
	Location          string      `json:"location,omitempty"`
	Education         string      `json:"education,omitempty"`
	Summary           string      `json:"summary,omitempty"`
	JobStatus         string      `json:"jobStatus,omitempty"`
	ExperienceSummary string      `json:"experienceSummary,omitempty"`
	Contact           Contact     `json:"contact"`
	WorkExperience    []WorkEntry `json:"workExperience"`
	Skills            []string    `json:"skills"`
	Certifications    []string    `json:"certifications"`
	Template          string      `json:"template"`
}

// Profile is a persisted resume owned by one account.
type Profile struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`
	Content
	// IntakeStep is the guided chat cursor, stored with the document so a
	// turn's fields and the cursor move in one write.
	IntakeStep string    `json:"intakeStep"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Repository is the resume document store. Every call is scoped to the owner.
type Repository interface {
	Create(ctx context.Context, p Profile) error
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (Profile, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Profile, error)
	// UpdateForOwner applies patch (and the intake cursor when step is non-nil)
	// as a single document write and returns the stored result.
	UpdateForOwner(ctx context.Context, ownerID, id uuid.UUID, patch Patch, step *string) (Profile, error)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// Normalize fills defaults and restores the list invariants of c.
func (c *Content) Normalize() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	c.Skills = MergeList(nil, c.Skills)
	c.Certifications = MergeList(nil, c.Certifications)
	c.WorkExperience = MergeWork(nil, c.WorkExperience)
}
