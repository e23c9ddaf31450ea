package ats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/llm"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/nlp"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

const (
	DefaultTargetScore  = 80
	DefaultMaxFileBytes = 10 << 20

	maxTextLen        = 12000
	maxValidateLen    = 3000
	maxJobDescription = 6000

	quickTextLen        = 2000
	quickJobDescription = 1000
	quickMissingItems   = 3
)

var validationSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["isResume", "confidence"],
	"properties": {
		"isResume": {"type": "boolean"},
		"confidence": {"type": "number"},
		"reason": {"type": "string"}
	}
}`)

var reportSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["breakdown"],
	"properties": {
		"totalScore": {"type": "number"},
		"rating": {"type": "string"},
		"feedback": {"type": "string"},
		"breakdown": {
			"type": "object",
			"required": ["certifications", "equipment", "safety", "experience", "industryKeywords"],
			"additionalProperties": {
				"type": "object",
				"required": ["score"],
				"properties": {"score": {"type": "number"}}
			}
		},
		"suggestions": {"type": "array", "items": {"type": "string"}},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"contactInfo": {"type": "object"}
	}
}`)

var suggestionsSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["currentEstimatedScore"],
	"properties": {
		"currentEstimatedScore": {"type": "number"},
		"suggestedCertifications": {"type": "array", "items": {"type": "string"}},
		"skillsToHighlight": {"type": "array", "items": {"type": "string"}},
		"safetyImprovements": {"type": "array", "items": {"type": "string"}},
		"keywordSuggestions": {"type": "array", "items": {"type": "string"}},
		"formattingTips": {"type": "array", "items": {"type": "string"}}
	}
}`)

var quickSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score": {"type": "number"},
		"rating": {"type": "string"},
		"topMissingItems": {"type": "array", "items": {"type": "string"}}
	}
}`)

// UseCase scores uploaded resume files.
type UseCase interface {
	// Score extracts, validates and scores the upload. A blank jobDescription
	// gives the general blue-collar score.
	Score(ctx context.Context, ownerID uuid.UUID, up Upload, jobDescription string) (Record, error)
	// QuickScore estimates the job match from a short excerpt. Nothing is stored.
	QuickScore(ctx context.Context, up Upload, jobDescription string) (QuickScore, error)
	Suggestions(ctx context.Context, up Upload, targetScore int) (Suggestions, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Record, error)
}

type Options struct {
	ModelName    string
	MaxFileBytes int64
	// CallTimeout bounds each completion call.
	CallTimeout time.Duration
}

type service struct {
	repo  Repository
	llm   llm.ChatModel
	opts  Options
	clock func() time.Time
}

func NewService(repo Repository, model llm.ChatModel, opts Options) UseCase {
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 60 * time.Second
	}
	return &service{repo: repo, llm: model, opts: opts, clock: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Score(ctx context.Context, ownerID uuid.UUID, up Upload, jobDescription string) (Record, error) {
	text, excerpted, err := s.extract(up)
	if err != nil {
		return Record{}, err
	}

	v, err := s.validate(ctx, text)
	if err != nil {
		return Record{}, err
	}
	if !v.IsResume || v.Confidence < MinConfidence {
		return Record{}, &RejectedError{IsResume: v.IsResume, Confidence: v.Confidence, Reason: v.Reason}
	}

	jobDescription, _ = nlp.Truncate(nlp.NormalizeWhitespace(jobDescription), maxJobDescription)
	raw, err := s.ask(ctx, scoreSystem, scorePrompt(text, jobDescription))
	if err != nil {
		return Record{}, err
	}
	var report Report
	if err := reportSchema.Decode(raw, &report); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidModelReply, err)
	}
	report.normalize()

	rec := Record{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Filename:   up.Filename,
		JobMatched: jobDescription != "",
		Model:      s.opts.ModelName,
		Validation: v,
		Report:     report,
		Excerpted:  excerpted,
		CreatedAt:  s.clock(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		// The score is still returned; only the history entry is lost.
		log.Warn().Err(err).Str("user_id", ownerID.String()).Msg("ats: store report")
	}
	return rec, nil
}

func (s *service) QuickScore(ctx context.Context, up Upload, jobDescription string) (QuickScore, error) {
	jobDescription = nlp.NormalizeWhitespace(jobDescription)
	if jobDescription == "" {
		return QuickScore{}, ErrJobDescriptionRequired
	}
	text, _, err := s.extract(up)
	if err != nil {
		return QuickScore{}, err
	}
	text, _ = nlp.Truncate(text, quickTextLen)
	jobDescription, _ = nlp.Truncate(jobDescription, quickJobDescription)

	raw, err := s.ask(ctx, quickSystem, quickPrompt(text, jobDescription))
	if err != nil {
		return QuickScore{}, err
	}
	var out QuickScore
	if err := quickSchema.Decode(raw, &out); err != nil {
		return QuickScore{}, fmt.Errorf("%w: %v", ErrInvalidModelReply, err)
	}
	out.Score = clamp(out.Score, 0, 100)
	out.Rating = ratingFor(out.Score)
	out.TopMissingItems = resume.MergeList(nil, out.TopMissingItems)
	if len(out.TopMissingItems) > quickMissingItems {
		out.TopMissingItems = out.TopMissingItems[:quickMissingItems]
	}
	out.IsQuickScan = true
	return out, nil
}

func (s *service) Suggestions(ctx context.Context, up Upload, targetScore int) (Suggestions, error) {
	if targetScore <= 0 || targetScore > 100 {
		targetScore = DefaultTargetScore
	}
	text, _, err := s.extract(up)
	if err != nil {
		return Suggestions{}, err
	}
	raw, err := s.ask(ctx, suggestSystem, suggestPrompt(text, targetScore))
	if err != nil {
		return Suggestions{}, err
	}
	var out Suggestions
	if err := suggestionsSchema.Decode(raw, &out); err != nil {
		return Suggestions{}, fmt.Errorf("%w: %v", ErrInvalidModelReply, err)
	}
	out.CurrentEstimatedScore = clamp(out.CurrentEstimatedScore, 0, 100)
	for _, l := range []*[]string{&out.SuggestedCertifications, &out.SkillsToHighlight, &out.SafetyImprovements, &out.KeywordSuggestions, &out.FormattingTips} {
		*l = resume.MergeList(nil, *l)
	}
	return out, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Record, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// extract returns the upload's text, truncated for the model. The second
// result reports whether truncation happened.
func (s *service) extract(up Upload) (string, bool, error) {
	if int64(len(up.Data)) > s.opts.MaxFileBytes {
		return "", false, ErrFileTooLarge
	}
	text, err := resume.ParseResumeText(up.Filename, up.ContentType, up.Data)
	if err != nil {
		return "", false, err
	}
	text, cut := nlp.Truncate(text, maxTextLen)
	return text, cut, nil
}

// validate asks the model whether text is a resume. A reply outside the
// contract counts as a rejection.
func (s *service) validate(ctx context.Context, text string) (Validation, error) {
	head, _ := nlp.Truncate(text, maxValidateLen)
	raw, err := s.ask(ctx, validateSystem, validatePrompt(head))
	if err != nil {
		return Validation{}, err
	}
	var v Validation
	if err := validationSchema.Decode(raw, &v); err != nil {
		log.Debug().Err(err).Msg("ats: unparseable validation reply")
		return Validation{IsResume: false, Confidence: 0, Reason: "Unable to classify the document."}, nil
	}
	return v, nil
}

func (s *service) ask(ctx context.Context, system, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	raw, err := s.llm.Ask(cctx, system, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return raw, nil
}
