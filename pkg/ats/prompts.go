package ats

import (
	"fmt"
	"strings"
)

const validateSystem = `You are a document classifier. Decide whether the text is a resume or CV.
Respond ONLY with JSON: {"isResume": true|false, "confidence": 0-100, "reason": "short explanation"}.
A resume lists a person's work history, skills, education or contact details.
Random articles, invoices, code, stories or gibberish are NOT resumes.`

const scoreSystem = `You are an ATS (Applicant Tracking System) analyst for blue-collar and skilled-trades jobs
(construction, welding, trucking, warehouse, manufacturing, maintenance).
Score the resume out of 100 using these weights:
- certifications (max 35): trade licenses and certificates such as CDL, OSHA, forklift, welding certifications
- equipment (max 25): tools, machinery and vehicles the candidate can operate
- safety (max 20): safety training, safety record, PPE and compliance mentions
- experience (max 10): years of relevant hands-on experience
- industryKeywords (max 10): trade terminology an ATS would match
Respond ONLY with JSON of this shape:
{
  "totalScore": number,
  "rating": "Excellent" | "Good" | "Fair" | "Needs Improvement",
  "feedback": "one paragraph",
  "breakdown": {
    "certifications": {"score": number, "max": 35, "found": [string], "missing": [string], "details": string},
    "equipment": {"score": number, "max": 25, "found": [string], "missing": [string], "details": string},
    "safety": {"score": number, "max": 20, "mentions": [string], "details": string},
    "experience": {"score": number, "max": 10, "years": number, "details": string},
    "industryKeywords": {"score": number, "max": 10, "matched": [string], "missing": [string], "details": string}
  },
  "suggestions": [string],
  "strengths": [string],
  "contactInfo": {"hasEmail": bool, "hasPhone": bool, "isComplete": bool}
}`

const suggestSystem = `You are a career coach for blue-collar and skilled-trades workers.
Suggest concrete changes that raise the resume's ATS score.
Respond ONLY with JSON of this shape:
{
  "currentEstimatedScore": number,
  "suggestedCertifications": [string],
  "skillsToHighlight": [string],
  "safetyImprovements": [string],
  "keywordSuggestions": [string],
  "formattingTips": [string]
}`

const quickSystem = `You are an ATS screener for blue-collar and skilled-trades jobs.
Quickly score how well the resume matches the job description (0-100).
Respond ONLY with JSON: {"score": number, "rating": "Excellent" | "Good" | "Fair" | "Poor", "topMissingItems": [string, string, string]}`

func validatePrompt(text string) string {
	return "Is the following text a resume?\n\n---\n" + text + "\n---"
}

func scorePrompt(text, jobDescription string) string {
	var b strings.Builder
	if jobDescription != "" {
		b.WriteString("Score this resume against the job description. Industry keywords and missing items must reflect the job's requirements.\n\n")
		b.WriteString("JOB DESCRIPTION:\n---\n")
		b.WriteString(jobDescription)
		b.WriteString("\n---\n\n")
	} else {
		b.WriteString("Score this resume for general blue-collar ATS compatibility.\n\n")
	}
	b.WriteString("RESUME:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---")
	return b.String()
}

func suggestPrompt(text string, target int) string {
	return fmt.Sprintf("The candidate wants to reach an ATS score of at least %d.\n\nRESUME:\n---\n%s\n---", target, text)
}

func quickPrompt(text, jobDescription string) string {
	return "RESUME:\n---\n" + text + "\n---\n\nJOB:\n---\n" + jobDescription + "\n---"
}
