package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/lock"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/repository/memory"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

type fakeAssistant struct {
	reply AssistReply
	err   error
	calls []AssistRequest
}

func (f *fakeAssistant) Respond(_ context.Context, req AssistRequest) (AssistReply, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

// stalledAssistant answers only when the context ends.
type stalledAssistant struct{}

func (stalledAssistant) Respond(ctx context.Context, _ AssistRequest) (AssistReply, error) {
	<-ctx.Done()
	return AssistReply{}, ctx.Err()
}

// stalledStore reads normally but never finishes a write before the deadline.
type stalledStore struct {
	*memory.ResumeRepository
}

func (stalledStore) UpdateForOwner(ctx context.Context, _, _ uuid.UUID, _ resume.Patch, _ *string) (resume.Profile, error) {
	<-ctx.Done()
	return resume.Profile{}, ctx.Err()
}

type heldLocker struct{ err error }

func (h heldLocker) Lock(context.Context, string, time.Duration) (func(), error) {
	return nil, h.err
}

type fixture struct {
	repo      *memory.ResumeRepository
	assistant *fakeAssistant
	proc      *Processor
	owner     uuid.UUID
	id        uuid.UUID
}

func newFixture(t *testing.T, step string) *fixture {
	t.Helper()
	repo := memory.NewResumeRepository()
	f := &fixture{repo: repo, assistant: &fakeAssistant{}, owner: uuid.New(), id: uuid.New()}
	require.NoError(t, repo.Create(context.Background(), resume.Profile{
		ID:         f.id,
		OwnerID:    f.owner,
		Content:    resume.Content{FullName: "Untitled Resume", ProfessionalTitle: "Professional", Skills: []string{}, Certifications: []string{}},
		IntakeStep: step,
	}))
	f.proc = NewProcessor(repo, f.assistant, lock.NewLocalLocker(), Options{})
	return f
}

func (f *fixture) stored(t *testing.T) resume.Profile {
	t.Helper()
	p, err := f.repo.GetForOwner(context.Background(), f.owner, f.id)
	require.NoError(t, err)
	return p
}

func (f *fixture) send(msg string) Result {
	return f.proc.Handle(context.Background(), f.owner, f.id, msg, nil)
}

func TestNameRoleAdvances(t *testing.T) {
	f := newFixture(t, StepNameRole)

	res := f.send("Maria Gomez, Welder")

	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Equal(t, StepEducation, res.Step)
	assert.Equal(t, DefaultScript[1].Prompt, res.Reply)
	p := f.stored(t)
	assert.Equal(t, "Maria Gomez", p.FullName)
	assert.Equal(t, "Welder", p.ProfessionalTitle)
	assert.Equal(t, StepEducation, p.IntakeStep)
}

func TestInvalidLocationHoldsCursor(t *testing.T) {
	f := newFixture(t, StepLocation)
	before := f.stored(t)

	res := f.send("")

	assert.Equal(t, OutcomeInvalidInput, res.Outcome)
	assert.Equal(t, StepLocation, res.Step)
	assert.Contains(t, res.Reply, "city")
	after := f.stored(t)
	assert.Equal(t, StepLocation, after.IntakeStep)
	assert.Empty(t, after.Location)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "no write on invalid input")
}

func TestSkillsFeedBothLists(t *testing.T) {
	f := newFixture(t, StepSkills)

	res := f.send("MIG Welding, Forklift, mig welding")

	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Equal(t, StepComplete, res.Step)
	assert.Equal(t, []string{"MIG Welding", "Forklift"}, res.Skills)
	assert.Equal(t, []string{"MIG Welding", "Forklift"}, res.Certifications)
	p := f.stored(t)
	assert.Equal(t, []string{"MIG Welding", "Forklift"}, p.Skills)
	assert.Equal(t, []string{"MIG Welding", "Forklift"}, p.Certifications)
	assert.Equal(t, StepComplete, p.IntakeStep)
}

func TestSkillsMergeWithExisting(t *testing.T) {
	f := newFixture(t, StepSkills)
	_, err := f.repo.UpdateForOwner(context.Background(), f.owner, f.id, resume.Patch{
		Skills:         resume.Strings([]string{"Forklift"}),
		Certifications: resume.Strings([]string{"OSHA 10"}),
	}, nil)
	require.NoError(t, err)

	f.send("forklift , CDL")

	p := f.stored(t)
	assert.Equal(t, []string{"Forklift", "CDL"}, p.Skills)
	assert.Equal(t, []string{"OSHA 10", "forklift", "CDL"}, p.Certifications)
}

func TestFullOnboardingWalk(t *testing.T) {
	f := newFixture(t, StepNameRole)
	answers := []string{"Maria Gomez, Welder", "Trade school", "04 March 1990", "Houston, TX", "8 years structural welding", "Open to work", "Welding, Rigging"}
	for i, a := range answers {
		res := f.send(a)
		require.Equal(t, OutcomeAdvanced, res.Outcome, a)
		assert.Equal(t, DefaultScript[i+1].ID, res.Step)
	}
	p := f.stored(t)
	assert.Equal(t, "Trade school", p.Education)
	assert.Equal(t, "04 March 1990", p.DateOfBirth)
	assert.Equal(t, "Houston, TX", p.Location)
	assert.Equal(t, "8 years structural welding", p.ExperienceSummary)
	assert.Equal(t, "Open to work", p.JobStatus)
	assert.Equal(t, StepComplete, p.IntakeStep)
	assert.Empty(t, f.assistant.calls)
}

func TestPersistenceFailureIsRetryable(t *testing.T) {
	f := newFixture(t, StepNameRole)
	f.repo.FailUpdates = errors.New("connection reset")

	res := f.send("Maria Gomez, Welder")
	assert.Equal(t, OutcomeSaveFailed, res.Outcome)
	assert.Equal(t, StepNameRole, res.Step)
	assert.Equal(t, StepNameRole, f.stored(t).IntakeStep)

	f.repo.FailUpdates = nil
	res = f.send("Maria Gomez, Welder")
	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Equal(t, StepEducation, f.stored(t).IntakeStep)
}

func TestForeignResumeIsNotFound(t *testing.T) {
	f := newFixture(t, StepNameRole)

	res := f.proc.Handle(context.Background(), uuid.New(), f.id, "Mallory, Hacker", nil)

	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Equal(t, "Untitled Resume", f.stored(t).FullName)
}

func TestTerminalAbsorbsAndForwards(t *testing.T) {
	f := newFixture(t, StepComplete)
	f.assistant.reply = AssistReply{
		Text:           "Nice! I added CDL Class A.",
		Skills:         []string{"CDL Class A"},
		WorkExperience: []resume.WorkEntry{{Company: "Acme Freight", JobTitle: "Driver"}},
	}
	history := []Turn{{Role: "assistant", Content: "What else?"}}

	for _, msg := range []string{"I also have a CDL Class A, drove for Acme Freight", "", "Maria Gomez, Welder"} {
		res := f.proc.Handle(context.Background(), f.owner, f.id, msg, history)
		assert.Equal(t, StepComplete, res.Step)
		assert.Equal(t, StepComplete, f.stored(t).IntakeStep)
	}

	require.Len(t, f.assistant.calls, 2, "empty message is not forwarded")
	assert.Equal(t, history, f.assistant.calls[0].History)
	p := f.stored(t)
	assert.Equal(t, []string{"CDL Class A"}, p.Skills)
	require.Len(t, p.WorkExperience, 1)
	assert.Equal(t, resume.DefaultEndDate, p.WorkExperience[0].EndDate)
	assert.Equal(t, "Untitled Resume", p.FullName, "terminal turns are not parsed by onboarding rules")
}

func TestTerminalAssistantFailureApologizes(t *testing.T) {
	f := newFixture(t, StepComplete)
	f.assistant.err = errors.New("upstream 503")

	res := f.send("help me with bullet points")

	assert.Equal(t, OutcomeAssistantUnavailable, res.Outcome)
	assert.Equal(t, replyApology, res.Reply)
	assert.Equal(t, StepComplete, f.stored(t).IntakeStep)
}

func TestAssistantTimeoutApologizes(t *testing.T) {
	f := newFixture(t, StepComplete)
	proc := NewProcessor(f.repo, stalledAssistant{}, lock.NewLocalLocker(), Options{AssistTimeout: 50 * time.Millisecond})

	start := time.Now()
	res := proc.Handle(context.Background(), f.owner, f.id, "add forklift", nil)

	assert.Equal(t, OutcomeAssistantUnavailable, res.Outcome)
	assert.Equal(t, replyApology, res.Reply)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, StepComplete, f.stored(t).IntakeStep)
}

func TestStoreTimeoutKeepsCursor(t *testing.T) {
	f := newFixture(t, StepNameRole)
	proc := NewProcessor(stalledStore{f.repo}, f.assistant, lock.NewLocalLocker(), Options{StoreTimeout: 50 * time.Millisecond})

	res := proc.Handle(context.Background(), f.owner, f.id, "Maria Gomez, Welder", nil)

	assert.Equal(t, OutcomeSaveFailed, res.Outcome)
	assert.Equal(t, StepNameRole, res.Step)
	p := f.stored(t)
	assert.Equal(t, StepNameRole, p.IntakeStep)
	assert.Equal(t, "Untitled Resume", p.FullName)
}

func TestConcurrentTurnIsBusy(t *testing.T) {
	repo := memory.NewResumeRepository()
	proc := NewProcessor(repo, &fakeAssistant{}, heldLocker{err: lock.ErrLocked}, Options{})
	res := proc.Handle(context.Background(), uuid.New(), uuid.New(), "Maria", nil)
	assert.Equal(t, OutcomeBusy, res.Outcome)

	proc = NewProcessor(repo, &fakeAssistant{}, heldLocker{err: errors.New("redis down")}, Options{})
	res = proc.Handle(context.Background(), uuid.New(), uuid.New(), "Maria", nil)
	assert.Equal(t, OutcomeSaveFailed, res.Outcome)
}

func TestResetAndCurrent(t *testing.T) {
	f := newFixture(t, StepSkills)

	cur, err := f.proc.Current(context.Background(), f.owner, f.id)
	require.NoError(t, err)
	assert.Equal(t, StepSkills, cur.Step)

	res, err := f.proc.Reset(context.Background(), f.owner, f.id)
	require.NoError(t, err)
	assert.Equal(t, StepNameRole, res.Step)
	assert.Equal(t, StepNameRole, f.stored(t).IntakeStep)

	_, err = f.proc.Reset(context.Background(), uuid.New(), f.id)
	assert.ErrorIs(t, err, resume.ErrNotFound)
}
