package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

func TestDefaultScriptOrder(t *testing.T) {
	ids := make([]string, 0, len(DefaultScript))
	for _, s := range DefaultScript {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"name_role", "education", "dob", "location", "experience", "job_status", "skills", "complete"}, ids)
	assert.Equal(t, resume.FirstStep, DefaultScript[0].ID)
	assert.Nil(t, DefaultScript[len(DefaultScript)-1].Extract)
	for _, s := range DefaultScript[:len(DefaultScript)-1] {
		assert.NotNil(t, s.Extract, s.ID)
		assert.NotEmpty(t, s.Prompt, s.ID)
	}
}

func TestSequencerNeverRegresses(t *testing.T) {
	last := len(DefaultScript) - 1
	for n := 0; n <= last+3; n++ {
		seq := NewSequencer(DefaultScript, StepNameRole)
		for i := 0; i < n; i++ {
			seq.Advance()
		}
		assert.Equal(t, min(n, last), seq.Cursor(), "after %d advances", n)
	}
}

func TestSequencerTerminalAbsorbs(t *testing.T) {
	seq := NewSequencer(DefaultScript, StepComplete)
	require.True(t, seq.Terminal())
	seq.Advance()
	seq.Advance()
	assert.Equal(t, StepComplete, seq.Current().ID)
	assert.Equal(t, StepComplete, seq.Next().ID)

	seq.Reset()
	assert.Equal(t, StepNameRole, seq.Current().ID)
}

func TestSequencerUnknownStepStartsOver(t *testing.T) {
	seq := NewSequencer(DefaultScript, "certifications")
	assert.Equal(t, 0, seq.Cursor())
	assert.Equal(t, StepEducation, seq.Next().ID)
}
