package render

import (
	"bytes"
	"html/template"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

var pageTmpl = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.P.FullName}}</title>
<style>
  @page { size: A4; margin: 1in; }
  body { font-family: Inter, Arial, sans-serif; font-size: 11pt; color: #1f2937; }
  header { text-align: center; border-bottom: 1.5pt solid #ec4899; padding-bottom: 8pt; }
  header h1 { font-size: 30pt; margin: 0; }
  header .title { font-size: 14pt; font-weight: 500; }
  h2 { color: #6366f1; font-size: 14pt; margin: 14pt 0 4pt; }
  .job-head { display: flex; justify-content: space-between; font-weight: bold; }
  .job-place, .dates { font-size: 10pt; }
</style>
</head>
<body>
<header>
  <h1>{{.P.FullName}}</h1>
  <div class="title">{{.P.ProfessionalTitle}}</div>
  {{- with .Contact}}<div class="contact">{{range $i, $c := .}}{{if $i}} | {{end}}{{$c}}{{end}}</div>{{end}}
</header>
{{- range .Sections}}
{{- if eq . "skills"}}{{with $.Bullets}}
<section><h2>Skills &amp; Certifications</h2><ul>{{range .}}<li>{{.}}</li>{{end}}</ul></section>
{{- end}}{{end}}
{{- if eq . "summary"}}
<section><h2>Summary</h2><p>{{$.Summary}}</p></section>
{{- end}}
{{- if eq . "experience"}}{{if or $.P.WorkExperience $.P.ExperienceSummary}}
<section><h2>Work Experience</h2>
  {{- with $.P.ExperienceSummary}}<p>{{.}}</p>{{end}}
  {{- range $.P.WorkExperience}}
  <div class="job">
    <div class="job-head"><span>{{.JobTitle}}</span><span class="dates">{{with .StartDate}}{{.}} - {{end}}{{if .EndDate}}{{.EndDate}}{{else}}Present{{end}}</span></div>
    <div class="job-place">{{.Company}}{{with .Location}}, {{.}}{{end}}</div>
    {{- with .Duties}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
  {{- end}}
</section>
{{- end}}{{end}}
{{- if eq . "education"}}{{with $.P.Education}}
<section><h2>Education</h2><p>{{.}}</p></section>
{{- end}}{{end}}
{{- if eq . "personal"}}{{if or $.P.DateOfBirth $.P.JobStatus}}
<section><h2>Personal Details</h2>
  {{- with $.P.DateOfBirth}}<p><strong>Date of birth:</strong> {{.}}</p>{{end}}
  {{- with $.P.JobStatus}}<p><strong>Availability:</strong> {{.}}</p>{{end}}
</section>
{{- end}}{{end}}
{{- end}}
</body>
</html>
`))

type pageData struct {
	P        resume.Profile
	Contact  []string
	Bullets  []string
	Summary  string
	Sections []string
}

// HTML renders p as a standalone page for the browser engine. Text is
// escaped by html/template.
func HTML(p resume.Profile) (string, error) {
	data := pageData{P: p, Summary: p.Summary, Sections: sectionOrder(p.Template)}
	if data.Summary == "" {
		data.Summary = defaultSummary
	}
	for _, v := range []string{p.Contact.Phone, p.Contact.Email, p.Location} {
		if v != "" {
			data.Contact = append(data.Contact, v)
		}
	}
	data.Bullets = append(data.Bullets, p.Skills...)
	for _, c := range p.Certifications {
		if !containsKey(p.Skills, c) {
			data.Bullets = append(data.Bullets, c)
		}
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
