package ats

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/llm"
)

type scriptedModel struct {
	validate string
	score    string
	suggest  string
	quick    string
	err      error
	prompts  []string
}

func (m *scriptedModel) Ask(_ context.Context, system, user string) (string, error) {
	m.prompts = append(m.prompts, user)
	if m.err != nil {
		return "", m.err
	}
	switch system {
	case validateSystem:
		return m.validate, nil
	case scoreSystem:
		return m.score, nil
	case quickSystem:
		return m.quick, nil
	default:
		return m.suggest, nil
	}
}

func (m *scriptedModel) Chat(ctx context.Context, system string, _ []llm.Message, user string) (string, error) {
	return m.Ask(ctx, system, user)
}

type recordingRepo struct {
	created []Record
	err     error
}

func (r *recordingRepo) Create(_ context.Context, rec Record) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, rec)
	return nil
}

func (r *recordingRepo) ListByOwner(context.Context, uuid.UUID, int, int) ([]Record, error) {
	return r.created, nil
}

func docxUpload(t *testing.T, lines ...string) Upload {
	t.Helper()
	var body strings.Builder
	for _, l := range lines {
		body.WriteString("<w:p><w:r><w:t>" + l + "</w:t></w:r></w:p>")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
		"word/document.xml": `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return Upload{Filename: "resume.docx", Data: buf.Bytes()}
}

const goodReport = "```json\n" + `{
	"totalScore": 140,
	"feedback": "Solid welding background.",
	"breakdown": {
		"certifications": {"score": 50, "max": 35, "found": ["AWS D1.1"], "missing": ["OSHA 30"], "details": "ok"},
		"equipment": {"score": 20, "found": ["MIG welder"], "details": "ok"},
		"safety": {"score": -4, "mentions": [], "details": "none"},
		"experience": {"score": 8, "years": 6, "details": "ok"},
		"industryKeywords": {"score": 7, "matched": ["structural"], "details": "ok"}
	},
	"suggestions": ["Add OSHA 30"],
	"contactInfo": {"hasEmail": true, "hasPhone": false, "isComplete": false}
}` + "\n```"

func TestScoreGeneral(t *testing.T) {
	model := &scriptedModel{validate: `{"isResume": true, "confidence": 92, "reason": "work history"}`, score: goodReport}
	repo := &recordingRepo{}
	svc := NewService(repo, model, Options{ModelName: "test-model"})
	owner := uuid.New()

	rec, err := svc.Score(context.Background(), owner, docxUpload(t, "Jane Doe", "Structural Welder, 6 years"), "  ")
	require.NoError(t, err)

	assert.Equal(t, owner, rec.OwnerID)
	assert.False(t, rec.JobMatched)
	assert.Equal(t, "test-model", rec.Model)
	assert.Equal(t, float64(70), rec.Report.TotalScore, "35+20+0+8+7 after clamping")
	assert.Equal(t, "Good", rec.Report.Rating)
	assert.Equal(t, float64(35), rec.Report.Breakdown.Certifications.Score)
	assert.Equal(t, float64(35), rec.Report.Breakdown.Certifications.Max)
	assert.Equal(t, float64(25), rec.Report.Breakdown.Equipment.Max)
	assert.Equal(t, float64(0), rec.Report.Breakdown.Safety.Score)
	assert.Equal(t, []string{}, rec.Report.Strengths)
	require.Len(t, repo.created, 1)
	assert.Equal(t, rec.ID, repo.created[0].ID)
	assert.Contains(t, model.prompts[1], "general blue-collar")
}

func TestScoreAgainstJobDescription(t *testing.T) {
	model := &scriptedModel{validate: `{"isResume": true, "confidence": 75}`, score: goodReport}
	svc := NewService(&recordingRepo{}, model, Options{})

	rec, err := svc.Score(context.Background(), uuid.New(), docxUpload(t, "Jane Doe", "Welder"), "Need a pipe welder with OSHA 30")
	require.NoError(t, err)
	assert.True(t, rec.JobMatched)
	assert.Contains(t, model.prompts[1], "JOB DESCRIPTION")
	assert.Contains(t, model.prompts[1], "OSHA 30")
}

func TestScoreRejectsNonResume(t *testing.T) {
	tests := []struct {
		name, reply string
	}{
		{"classified as not a resume", `{"isResume": false, "confidence": 95, "reason": "a recipe"}`},
		{"low confidence", `{"isResume": true, "confidence": 40, "reason": "unclear"}`},
		{"unparseable", `I think so?`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{validate: tt.reply, score: goodReport}
			repo := &recordingRepo{}
			svc := NewService(repo, model, Options{})

			_, err := svc.Score(context.Background(), uuid.New(), docxUpload(t, "Two cups of flour", "Bake for 20 minutes"), "")

			var rej *RejectedError
			require.ErrorAs(t, err, &rej)
			assert.Empty(t, repo.created)
			assert.Len(t, model.prompts, 1, "rejected files are never scored")
		})
	}
}

func TestScoreUnsupportedUpload(t *testing.T) {
	model := &scriptedModel{}
	svc := NewService(&recordingRepo{}, model, Options{})

	_, err := svc.Score(context.Background(), uuid.New(), Upload{Filename: "resume.pdf", ContentType: "application/pdf", Data: []byte("plain text pretending to be a pdf")}, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.Score(context.Background(), uuid.New(), Upload{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")}, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, model.prompts)
}

func TestScoreFileTooLarge(t *testing.T) {
	svc := NewService(&recordingRepo{}, &scriptedModel{}, Options{MaxFileBytes: 16})
	_, err := svc.Score(context.Background(), uuid.New(), Upload{Filename: "cv.pdf", Data: make([]byte, 17)}, "")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestScoreModelFailures(t *testing.T) {
	svc := NewService(&recordingRepo{}, &scriptedModel{err: errors.New("quota exceeded")}, Options{})
	_, err := svc.Score(context.Background(), uuid.New(), docxUpload(t, "Jane Doe", "Welder"), "")
	assert.ErrorIs(t, err, ErrServiceUnavailable)

	svc = NewService(&recordingRepo{}, &scriptedModel{validate: `{"isResume": true, "confidence": 90}`, score: `{"totalScore": "high"}`}, Options{})
	_, err = svc.Score(context.Background(), uuid.New(), docxUpload(t, "Jane Doe", "Welder"), "")
	assert.ErrorIs(t, err, ErrInvalidModelReply)
}

func TestScoreKeepsResultWhenHistoryWriteFails(t *testing.T) {
	model := &scriptedModel{validate: `{"isResume": true, "confidence": 90}`, score: goodReport}
	svc := NewService(&recordingRepo{err: errors.New("db down")}, model, Options{})

	rec, err := svc.Score(context.Background(), uuid.New(), docxUpload(t, "Jane Doe", "Welder"), "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rec.ID)
}

func TestQuickScore(t *testing.T) {
	model := &scriptedModel{quick: "```json\n" + `{"score": 104, "rating": "Poor", "topMissingItems": ["OSHA 30", "osha 30", "TIG", "Rigging", "CDL"]}` + "\n```"}
	repo := &recordingRepo{}
	svc := NewService(repo, model, Options{})

	out, err := svc.QuickScore(context.Background(), docxUpload(t, "Jane Doe", "Welder"), "Pipe welder, OSHA 30 required")
	require.NoError(t, err)
	assert.Equal(t, float64(100), out.Score)
	assert.Equal(t, "Excellent", out.Rating)
	assert.Equal(t, []string{"OSHA 30", "TIG", "Rigging"}, out.TopMissingItems)
	assert.True(t, out.IsQuickScan)
	require.Len(t, model.prompts, 1, "no resume validation pass")
	assert.Contains(t, model.prompts[0], "Pipe welder")
	assert.Empty(t, repo.created, "quick scans are not stored")
}

func TestQuickScoreErrors(t *testing.T) {
	model := &scriptedModel{quick: `{"score": "high"}`}
	svc := NewService(&recordingRepo{}, model, Options{})

	_, err := svc.QuickScore(context.Background(), docxUpload(t, "Jane Doe", "Welder"), " \n ")
	assert.ErrorIs(t, err, ErrJobDescriptionRequired)
	assert.Empty(t, model.prompts)

	_, err = svc.QuickScore(context.Background(), docxUpload(t, "Jane Doe", "Welder"), "Forklift operator")
	assert.ErrorIs(t, err, ErrInvalidModelReply)

	svc = NewService(&recordingRepo{}, &scriptedModel{err: errors.New("quota exceeded")}, Options{})
	_, err = svc.QuickScore(context.Background(), docxUpload(t, "Jane Doe", "Welder"), "Forklift operator")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSuggestions(t *testing.T) {
	model := &scriptedModel{suggest: `{
		"currentEstimatedScore": 62,
		"suggestedCertifications": ["OSHA 30", "osha 30 "],
		"skillsToHighlight": ["Blueprint reading"],
		"formattingTips": ["Use a simple layout"]
	}`}
	svc := NewService(&recordingRepo{}, model, Options{})

	out, err := svc.Suggestions(context.Background(), docxUpload(t, "Jane Doe", "Welder"), 0)
	require.NoError(t, err)
	assert.Equal(t, float64(62), out.CurrentEstimatedScore)
	assert.Equal(t, []string{"OSHA 30"}, out.SuggestedCertifications)
	assert.Equal(t, []string{}, out.SafetyImprovements)
	assert.Contains(t, model.prompts[0], "at least 80")
}

func TestNormalizeDerivesTotalFromBreakdown(t *testing.T) {
	r := Report{TotalScore: 95, Rating: "Excellent"}
	r.Breakdown.Certifications.Score = 90

	r.normalize()

	assert.Equal(t, float64(35), r.Breakdown.Certifications.Score)
	assert.Equal(t, float64(35), r.TotalScore)
	assert.Equal(t, "Needs Improvement", r.Rating)
}

func TestRatingFor(t *testing.T) {
	assert.Equal(t, "Excellent", ratingFor(85))
	assert.Equal(t, "Good", ratingFor(70))
	assert.Equal(t, "Fair", ratingFor(50))
	assert.Equal(t, "Needs Improvement", ratingFor(49.9))
}
