package intake

import (
	"strings"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/nlp"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// Rule turns one free-text answer into a partial resume update.
type Rule func(input string) (resume.Patch, error)

// ValidationError is a rejected answer. Message is shown to the user as the
// assistant's reply.
type ValidationError struct {
	Step    string
	Message string
}

func (e *ValidationError) Error() string { return e.Step + ": " + e.Message }

const minFreeTextLen = 2

func extractNameRole(in string) (resume.Patch, error) {
	parts := strings.Split(in, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return resume.Patch{}, &ValidationError{Step: StepNameRole,
			Message: "Please tell me your full name, optionally followed by your job title (e.g., Maria Gomez, Welder)."}
	}
	title := ""
	if len(parts) > 1 {
		title = strings.TrimSpace(parts[1])
	}
	if title == "" {
		title = nlp.LastToken(name)
	}
	if title == "" {
		title = resume.DefaultTitle
	}
	return resume.Patch{FullName: resume.Str(name), ProfessionalTitle: resume.Str(title)}, nil
}

func extractEducation(in string) (resume.Patch, error) {
	v := strings.TrimSpace(in)
	if len([]rune(v)) < minFreeTextLen {
		return resume.Patch{}, &ValidationError{Step: StepEducation,
			Message: "Please share your education level, like High School Diploma or Welding Certificate."}
	}
	return resume.Patch{Education: resume.Str(v)}, nil
}

// extractDOB stores the answer as typed; dates are free text.
func extractDOB(in string) (resume.Patch, error) {
	return resume.Patch{DateOfBirth: resume.Str(strings.TrimSpace(in))}, nil
}

func extractLocation(in string) (resume.Patch, error) {
	v := strings.TrimSpace(in)
	if len([]rune(v)) < minFreeTextLen {
		return resume.Patch{}, &ValidationError{Step: StepLocation,
			Message: "Please share your city and state or region (e.g., Houston, TX)."}
	}
	return resume.Patch{Location: resume.Str(v)}, nil
}

func extractExperience(in string) (resume.Patch, error) {
	return resume.Patch{ExperienceSummary: resume.Str(strings.TrimSpace(in))}, nil
}

func extractJobStatus(in string) (resume.Patch, error) {
	return resume.Patch{JobStatus: resume.Str(strings.TrimSpace(in))}, nil
}

// extractSkills feeds the same list into skills and certifications.
func extractSkills(in string) (resume.Patch, error) {
	skills := resume.MergeList(nil, nlp.SplitList(in, ","))
	if len(skills) == 0 {
		return resume.Patch{}, &ValidationError{Step: StepSkills,
			Message: "Please list at least one skill, separated by commas (e.g., Welding, Forklift)."}
	}
	certs := append([]string(nil), skills...)
	return resume.Patch{Skills: &skills, Certifications: &certs}, nil
}
