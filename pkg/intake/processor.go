package intake

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/lock"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// Outcome classifies how a turn ended. Every outcome carries a reply.
type Outcome string

const (
	OutcomeAdvanced             Outcome = "advanced"
	OutcomeInvalidInput         Outcome = "invalid_input"
	OutcomeNotFound             Outcome = "not_found"
	OutcomeSaveFailed           Outcome = "save_failed"
	OutcomeBusy                 Outcome = "busy"
	OutcomeAnswered             Outcome = "answered"
	OutcomeAssistantUnavailable Outcome = "assistant_unavailable"
)

const (
	replyNotFound      = "I couldn't find this resume under your account. Please sign in again or reopen the resume."
	replySaveFailed    = "I couldn't save that just now. Please send the same answer again."
	replyBusy          = "I'm still working on your previous message. Please wait a moment."
	replyApology       = "I'm sorry, I encountered an error processing your request. Please try again."
	replyEmptyFreeform = "Tell me what you'd like to add or change on your resume."
)

// Turn is one transcript entry sent by the client.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is the slice of the resume repository the engine needs.
type Store interface {
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Profile, error)
	UpdateForOwner(ctx context.Context, ownerID, id uuid.UUID, patch resume.Patch, step *string) (resume.Profile, error)
}

type AssistRequest struct {
	Profile resume.Profile
	History []Turn
	Message string
}

// AssistReply is the free-form answer plus any structured data the
// assistant chose to extract from the message.
type AssistReply struct {
	Text           string
	Skills         []string
	Certifications []string
	WorkExperience []resume.WorkEntry
}

// Assistant answers turns once onboarding is complete.
type Assistant interface {
	Respond(ctx context.Context, req AssistRequest) (AssistReply, error)
}

// Result is the outcome of one turn.
type Result struct {
	Reply   string
	Outcome Outcome
	// Step is the cursor after the turn, Prompt the question asked there.
	Step   string
	Prompt string
	// Skills and Certifications are set when the turn wrote list fields.
	Skills         []string
	Certifications []string
}

type Options struct {
	StoreTimeout  time.Duration
	AssistTimeout time.Duration
	LockTTL       time.Duration
	Script        Script
}

// Processor runs chat turns against stored resumes. Turns on the same resume
// are serialized through the Locker; the list read-merge-write relies on it.
type Processor struct {
	store     Store
	assistant Assistant
	locker    lock.Locker
	opts      Options
}

func NewProcessor(store Store, assistant Assistant, locker lock.Locker, opts Options) *Processor {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.AssistTimeout <= 0 {
		opts.AssistTimeout = 45 * time.Second
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = opts.AssistTimeout + 3*opts.StoreTimeout
	}
	if len(opts.Script) == 0 {
		opts.Script = DefaultScript
	}
	return &Processor{store: store, assistant: assistant, locker: locker, opts: opts}
}

// Handle processes one user message. It never fails: every problem is
// reported as a reply with a non-advancing outcome.
func (p *Processor) Handle(ctx context.Context, ownerID, resumeID uuid.UUID, message string, history []Turn) Result {
	logger := log.With().Str("resume_id", resumeID.String()).Str("user_id", ownerID.String()).Logger()

	unlock, err := p.locker.Lock(ctx, lockKey(resumeID), p.opts.LockTTL)
	if err != nil {
		if !errors.Is(err, lock.ErrLocked) {
			logger.Error().Err(err).Msg("intake: acquire turn lock")
			return Result{Reply: replySaveFailed, Outcome: OutcomeSaveFailed}
		}
		return Result{Reply: replyBusy, Outcome: OutcomeBusy}
	}
	defer unlock()

	profile, err := p.load(ctx, ownerID, resumeID)
	if err != nil {
		return storeFailure(logger, err, "")
	}

	seq := NewSequencer(p.opts.Script, profile.IntakeStep)
	if seq.Terminal() {
		return p.freeform(ctx, profile, strings.TrimSpace(message), history, seq.Current())
	}

	step := seq.Current()
	patch, err := step.Extract(message)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Result{Reply: verr.Message, Outcome: OutcomeInvalidInput, Step: step.ID, Prompt: step.Prompt}
		}
		logger.Error().Err(err).Str("step", step.ID).Msg("intake: extract")
		return Result{Reply: replySaveFailed, Outcome: OutcomeSaveFailed, Step: step.ID, Prompt: step.Prompt}
	}
	patch = mergeLists(profile, patch)

	next := seq.Next().ID
	saved, err := p.save(ctx, ownerID, resumeID, patch, &next)
	if err != nil {
		res := storeFailure(logger, err, step.ID)
		res.Prompt = step.Prompt
		return res
	}
	seq.Advance()
	res := Result{
		Reply:   seq.Current().Prompt,
		Outcome: OutcomeAdvanced,
		Step:    seq.Current().ID,
		Prompt:  seq.Current().Prompt,
	}
	if patch.TouchesLists() {
		res.Skills, res.Certifications = saved.Skills, saved.Certifications
	}
	return res
}

func (p *Processor) freeform(ctx context.Context, profile resume.Profile, message string, history []Turn, step Step) Result {
	logger := log.With().Str("resume_id", profile.ID.String()).Logger()
	res := Result{Step: step.ID, Prompt: step.Prompt}
	if message == "" {
		res.Reply, res.Outcome = replyEmptyFreeform, OutcomeInvalidInput
		return res
	}

	actx, cancel := context.WithTimeout(ctx, p.opts.AssistTimeout)
	reply, err := p.assistant.Respond(actx, AssistRequest{Profile: profile, History: history, Message: message})
	cancel()
	if err != nil {
		logger.Warn().Err(err).Msg("intake: assistant failed")
		res.Reply, res.Outcome = replyApology, OutcomeAssistantUnavailable
		return res
	}
	res.Reply, res.Outcome = reply.Text, OutcomeAnswered

	var patch resume.Patch
	if len(reply.Skills) > 0 {
		patch.Skills = resume.Strings(reply.Skills)
	}
	if len(reply.Certifications) > 0 {
		patch.Certifications = resume.Strings(reply.Certifications)
	}
	if len(reply.WorkExperience) > 0 {
		work := resume.MergeWork(profile.WorkExperience, reply.WorkExperience)
		if len(work) > len(profile.WorkExperience) {
			patch.WorkExperience = &work
		}
	}
	if patch.IsEmpty() {
		return res
	}
	patch = mergeLists(profile, patch)
	saved, err := p.save(ctx, profile.OwnerID, profile.ID, patch, nil)
	if err != nil {
		// The answer still stands; only the side update is lost.
		logger.Warn().Err(err).Msg("intake: save assistant extraction")
		return res
	}
	if patch.TouchesLists() {
		res.Skills, res.Certifications = saved.Skills, saved.Certifications
	}
	return res
}

// Current reports where the conversation for a resume stands.
func (p *Processor) Current(ctx context.Context, ownerID, resumeID uuid.UUID) (Result, error) {
	profile, err := p.load(ctx, ownerID, resumeID)
	if err != nil {
		return Result{}, err
	}
	step := NewSequencer(p.opts.Script, profile.IntakeStep).Current()
	return Result{Reply: step.Prompt, Step: step.ID, Prompt: step.Prompt}, nil
}

// Reset moves the conversation back to the first step. Stored fields are kept.
func (p *Processor) Reset(ctx context.Context, ownerID, resumeID uuid.UUID) (Result, error) {
	unlock, err := p.locker.Lock(ctx, lockKey(resumeID), p.opts.LockTTL)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	seq := NewSequencer(p.opts.Script, "")
	seq.Reset()
	first := seq.Current()
	if _, err := p.save(ctx, ownerID, resumeID, resume.Patch{}, &first.ID); err != nil {
		return Result{}, err
	}
	return Result{Reply: first.Prompt, Step: first.ID, Prompt: first.Prompt}, nil
}

func (p *Processor) load(ctx context.Context, ownerID, resumeID uuid.UUID) (resume.Profile, error) {
	sctx, cancel := context.WithTimeout(ctx, p.opts.StoreTimeout)
	defer cancel()
	return p.store.GetForOwner(sctx, ownerID, resumeID)
}

func (p *Processor) save(ctx context.Context, ownerID, resumeID uuid.UUID, patch resume.Patch, step *string) (resume.Profile, error) {
	sctx, cancel := context.WithTimeout(ctx, p.opts.StoreTimeout)
	defer cancel()
	return p.store.UpdateForOwner(sctx, ownerID, resumeID, patch, step)
}

func storeFailure(logger zerolog.Logger, err error, step string) Result {
	if errors.Is(err, resume.ErrNotFound) {
		return Result{Reply: replyNotFound, Outcome: OutcomeNotFound, Step: step}
	}
	logger.Warn().Err(err).Str("step", step).Msg("intake: store")
	return Result{Reply: replySaveFailed, Outcome: OutcomeSaveFailed, Step: step}
}

// mergeLists unions the patch's list fields with what the profile already holds.
func mergeLists(profile resume.Profile, patch resume.Patch) resume.Patch {
	if patch.Skills != nil {
		patch.Skills = resume.Strings(resume.MergeList(profile.Skills, *patch.Skills))
	}
	if patch.Certifications != nil {
		patch.Certifications = resume.Strings(resume.MergeList(profile.Certifications, *patch.Certifications))
	}
	return patch
}

func lockKey(resumeID uuid.UUID) string { return "intake:" + resumeID.String() }
