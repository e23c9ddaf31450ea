package assistant

import (
	"fmt"
	"strings"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

const skillsPrompt = `Extract a JSON array of 5-10 relevant skills from the provided text.
Include both technical and soft skills.
Format: ["skill1", "skill2", ...]
Return only the JSON array.`

func chatPrompt(p resume.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional resume writing assistant specializing in helping blue-collar workers.
The user is currently working with the %s resume template.
Be concise, professional, and focus on actionable advice.
Help with:
- Rewriting bullet points for impact
- Suggesting relevant skills
- Improving action verbs
- Formatting advice
- ATS optimization tips
`, p.Template)

	b.WriteString("\nCurrent resume:\n")
	fmt.Fprintf(&b, "Name: %s\nTitle: %s\n", p.FullName, p.ProfessionalTitle)
	if p.ExperienceSummary != "" {
		fmt.Fprintf(&b, "Experience: %s\n", p.ExperienceSummary)
	}
	if len(p.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	}
	if len(p.Certifications) > 0 {
		fmt.Fprintf(&b, "Certifications: %s\n", strings.Join(p.Certifications, ", "))
	}
	for _, w := range p.WorkExperience {
		fmt.Fprintf(&b, "Job: %s at %s\n", w.JobTitle, w.Company)
	}

	b.WriteString(`
Answer with a single JSON object:
{"reply": "<your message to the user>",
 "skills": ["<new skills the user just mentioned>"],
 "certifications": ["<new certifications the user just mentioned>"],
 "workExperience": [{"company": "", "jobTitle": "", "location": "", "startDate": "", "endDate": "", "duties": [""]}]}
Only include skills, certifications or jobs the user stated in their latest message; use empty arrays otherwise.`)
	return b.String()
}
