// Package intake runs the guided chat that fills a resume one answer at a time.
package intake

import "github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"

// Step identifiers, in script order.
const (
	StepNameRole   = resume.FirstStep
	StepEducation  = "education"
	StepDOB        = "dob"
	StepLocation   = "location"
	StepExperience = "experience"
	StepJobStatus  = "job_status"
	StepSkills     = "skills"
	StepComplete   = "complete"
)

// Step is one entry of the onboarding script. Extract is nil for the
// terminal free-form step.
type Step struct {
	ID      string
	Prompt  string
	Extract Rule
}

// Script is the ordered onboarding table. Its last entry is terminal.
type Script []Step

// DefaultScript is the onboarding conversation.
var DefaultScript = Script{
	{StepNameRole, "Let's get rolling. What's your full name and professional title (e.g., Maria Gomez, Welder)?", extractNameRole},
	{StepEducation, "Great! What's your education level? (e.g., High School Diploma, Certificate, Associates Degree)", extractEducation},
	{StepDOB, "Got it. What's your date of birth? (DD Month YYYY is perfect, e.g., 04 March 1990)", extractDOB},
	{StepLocation, "Where are you based? Please share your city and state/region.", extractLocation},
	{StepExperience, "Now tell me about your work experience: job titles, companies, dates and key responsibilities.", extractExperience},
	{StepJobStatus, "Are you working right now or looking for your next role? Tell me about your availability.", extractJobStatus},
	{StepSkills, "Excellent! What are your key skills? List them separated by commas (e.g., Welding, Forklift Operation, Safety).", extractSkills},
	{StepComplete, "Perfect! I can now help you refine your resume. What else would you like to add or change?", nil},
}

// Index returns the position of id in the script, or -1.
func (s Script) Index(id string) int {
	for i, st := range s {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// Sequencer is a cursor over a Script. It only moves forward and saturates
// on the terminal step.
type Sequencer struct {
	script Script
	cursor int
}

// NewSequencer positions a sequencer on stepID. Unknown ids start over.
func NewSequencer(script Script, stepID string) *Sequencer {
	i := script.Index(stepID)
	if i < 0 {
		i = 0
	}
	return &Sequencer{script: script, cursor: i}
}

func (s *Sequencer) Current() Step { return s.script[s.cursor] }

func (s *Sequencer) Cursor() int { return s.cursor }

func (s *Sequencer) Terminal() bool { return s.cursor == len(s.script)-1 }

// Next returns the step Advance would move to.
func (s *Sequencer) Next() Step {
	if s.Terminal() {
		return s.Current()
	}
	return s.script[s.cursor+1]
}

// Advance moves one step forward; on the terminal step it does nothing.
func (s *Sequencer) Advance() {
	if !s.Terminal() {
		s.cursor++
	}
}

func (s *Sequencer) Reset() { s.cursor = 0 }
