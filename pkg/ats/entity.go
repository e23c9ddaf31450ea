// Package ats scores uploaded resumes for blue-collar applicant tracking systems.
package ats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// MinConfidence is the lowest "is this a resume" confidence that gets scored.
const MinConfidence = 60

var (
	ErrUnsupportedFormat = resume.ErrUnsupportedFormat
	ErrUnreadable        = resume.ErrUnreadable
	ErrFileTooLarge      = errors.New("file exceeds the upload size limit")
	// ErrServiceUnavailable wraps failures of the completion service.
	ErrServiceUnavailable = errors.New("scoring service unavailable")
	// ErrInvalidModelReply means the completion service answered outside the JSON contract.
	ErrInvalidModelReply = errors.New("scoring service returned an unusable reply")

	ErrJobDescriptionRequired = errors.New("job description is required")
)

// RejectedError means the file was readable but judged not to be a resume.
type RejectedError struct {
	IsResume   bool
	Confidence float64
	Reason     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("content rejected as non-resume (confidence %.0f%%): %s", e.Confidence, e.Reason)
}

// Upload is a file received for scoring.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Validation struct {
	IsResume   bool    `json:"isResume"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Category is one scored criterion. Only some of the list fields apply to
// each category.
type Category struct {
	Score    float64  `json:"score"`
	Max      float64  `json:"max"`
	Found    []string `json:"found,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
	Matched  []string `json:"matched,omitempty"`
	Years    float64  `json:"years,omitempty"`
	Details  string   `json:"details"`
}

type Breakdown struct {
	Certifications   Category `json:"certifications"`
	Equipment        Category `json:"equipment"`
	Safety           Category `json:"safety"`
	Experience       Category `json:"experience"`
	IndustryKeywords Category `json:"industryKeywords"`
}

type ContactInfo struct {
	HasEmail   bool `json:"hasEmail"`
	HasPhone   bool `json:"hasPhone"`
	IsComplete bool `json:"isComplete"`
}

type Report struct {
	TotalScore  float64     `json:"totalScore"`
	Rating      string      `json:"rating"`
	Feedback    string      `json:"feedback"`
	Breakdown   Breakdown   `json:"breakdown"`
	Suggestions []string    `json:"suggestions"`
	Strengths   []string    `json:"strengths"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

// Record is a stored scoring run.
type Record struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"ownerId"`
	Filename   string     `json:"filename"`
	JobMatched bool       `json:"jobMatched"`
	Model      string     `json:"model"`
	Validation Validation `json:"validation"`
	Report     Report     `json:"report"`
	Excerpted  bool       `json:"excerpted"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Suggestions struct {
	CurrentEstimatedScore   float64  `json:"currentEstimatedScore"`
	SuggestedCertifications []string `json:"suggestedCertifications"`
	SkillsToHighlight       []string `json:"skillsToHighlight"`
	SafetyImprovements      []string `json:"safetyImprovements"`
	KeywordSuggestions      []string `json:"keywordSuggestions"`
	FormattingTips          []string `json:"formattingTips"`
}

// QuickScore is a fast job-match estimate without the category breakdown.
type QuickScore struct {
	Score           float64  `json:"score"`
	Rating          string   `json:"rating"`
	TopMissingItems []string `json:"topMissingItems"`
	IsQuickScan     bool     `json:"isQuickScan"`
}

// Repository stores scoring runs per account.
type Repository interface {
	Create(ctx context.Context, r Record) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Record, error)
}

// Category ceilings.
const (
	maxCertifications = 35
	maxEquipment      = 25
	maxSafety         = 20
	maxExperience     = 10
	maxKeywords       = 10
)

// normalize clamps model-provided scores to their ceilings. The total is the
// sum of the clamped categories and the rating always follows from it.
func (r *Report) normalize() {
	var total float64
	for _, c := range []struct {
		cat *Category
		max float64
	}{
		{&r.Breakdown.Certifications, maxCertifications},
		{&r.Breakdown.Equipment, maxEquipment},
		{&r.Breakdown.Safety, maxSafety},
		{&r.Breakdown.Experience, maxExperience},
		{&r.Breakdown.IndustryKeywords, maxKeywords},
	} {
		c.cat.Max = c.max
		c.cat.Score = clamp(c.cat.Score, 0, c.max)
		total += c.cat.Score
	}
	r.TotalScore = clamp(total, 0, 100)
	r.Rating = ratingFor(r.TotalScore)
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
}

func ratingFor(score float64) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
