// Package render turns a resume into Typst markup, HTML and PDF.
package render

import (
	"fmt"
	"strings"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/nlp"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

const defaultSummary = "A highly skilled and dedicated professional."

// Section names, ordered per template by sectionOrder.
const (
	sectionSkills     = "skills"
	sectionSummary    = "summary"
	sectionExperience = "experience"
	sectionEducation  = "education"
	sectionPersonal   = "personal"
)

func sectionOrder(template string) []string {
	if template == resume.TemplateExperienceFirst {
		return []string{sectionSummary, sectionExperience, sectionSkills, sectionEducation, sectionPersonal}
	}
	return []string{sectionSkills, sectionSummary, sectionExperience, sectionEducation, sectionPersonal}
}

// Markup renders p as a Typst document. User text is only ever emitted as
// escaped string literals, so it cannot inject markup or code.
func Markup(p resume.Profile) string {
	var b strings.Builder
	b.WriteString(`#set page(margin: (x: 1in, y: 1in))
#set text(font: "Inter", size: 11pt)
#show heading: set text(fill: rgb("#6366f1"))

`)
	fmt.Fprintf(&b, "#align(center)[\n  #text(30pt, weight: \"bold\", %s) \\\n  #text(14pt, weight: \"medium\", %s)\n]\n\n",
		str(p.FullName), str(p.ProfessionalTitle))

	var contact []string
	for _, v := range []string{p.Contact.Phone, p.Contact.Email, p.Location} {
		if v = strings.TrimSpace(v); v != "" {
			contact = append(contact, "#"+str(v))
		}
	}
	if len(contact) > 0 {
		fmt.Fprintf(&b, "#align(center)[%s]\n\n", strings.Join(contact, " #h(1em) | #h(1em) "))
	}
	b.WriteString("#line(length: 100%, stroke: 1.5pt + rgb(\"#ec4899\"))\n")

	for _, s := range sectionOrder(p.Template) {
		switch s {
		case sectionSkills:
			writeSkills(&b, p)
		case sectionSummary:
			summary := strings.TrimSpace(p.Summary)
			if summary == "" {
				summary = defaultSummary
			}
			fmt.Fprintf(&b, "\n= Summary\n#%s\n", str(summary))
		case sectionExperience:
			writeExperience(&b, p)
		case sectionEducation:
			if p.Education != "" {
				fmt.Fprintf(&b, "\n= Education\n#%s\n", str(p.Education))
			}
		case sectionPersonal:
			writePersonal(&b, p)
		}
	}
	return b.String()
}

func writeSkills(b *strings.Builder, p resume.Profile) {
	if len(p.Skills) == 0 && len(p.Certifications) == 0 {
		return
	}
	b.WriteString("\n= Skills & Certifications\n")
	for _, s := range p.Skills {
		fmt.Fprintf(b, "- #%s\n", str(s))
	}
	for _, c := range p.Certifications {
		if containsKey(p.Skills, c) {
			continue
		}
		fmt.Fprintf(b, "- #%s\n", str(c))
	}
}

func writeExperience(b *strings.Builder, p resume.Profile) {
	if len(p.WorkExperience) == 0 && p.ExperienceSummary == "" {
		return
	}
	b.WriteString("\n= Work Experience\n")
	if p.ExperienceSummary != "" {
		fmt.Fprintf(b, "#%s\n\n", str(p.ExperienceSummary))
	}
	for _, w := range p.WorkExperience {
		end := w.EndDate
		if end == "" {
			end = resume.DefaultEndDate
		}
		dates := end
		if w.StartDate != "" {
			dates = w.StartDate + " - " + end
		}
		place := w.Company
		if w.Location != "" {
			place += ", " + w.Location
		}
		fmt.Fprintf(b, "#text(weight: \"bold\", %s) #h(1fr) #text(size: 10pt, %s) \\\n", str(w.JobTitle), str(dates))
		fmt.Fprintf(b, "#text(size: 10pt, %s)\n", str(place))
		for _, d := range w.Duties {
			fmt.Fprintf(b, "  - #%s\n", str(d))
		}
		b.WriteString("\n")
	}
}

func writePersonal(b *strings.Builder, p resume.Profile) {
	var rows []string
	if p.DateOfBirth != "" {
		rows = append(rows, fmt.Sprintf("*Date of birth:* #%s", str(p.DateOfBirth)))
	}
	if p.JobStatus != "" {
		rows = append(rows, fmt.Sprintf("*Availability:* #%s", str(p.JobStatus)))
	}
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n= Personal Details\n")
	b.WriteString(strings.Join(rows, " \\\n"))
	b.WriteString("\n")
}

var typstEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "", "\t", `\t`)

// str quotes s as a Typst string literal.
func str(s string) string {
	return `"` + typstEscaper.Replace(s) + `"`
}

func containsKey(list []string, v string) bool {
	k := nlp.Key(v)
	for _, s := range list {
		if nlp.Key(s) == k {
			return true
		}
	}
	return false
}
