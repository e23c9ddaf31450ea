package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/handlers"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/assistant"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/ats"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/auth"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/health"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/intake"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/llm"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/lock"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/render"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/repository/memory"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/security/jwt"
)

const (
	testSecret = "test-secret"
	testIssuer = "resumedia-test"
)

type cannedModel struct{ reply string }

func (m cannedModel) Ask(context.Context, string, string) (string, error) { return m.reply, nil }
func (m cannedModel) Chat(context.Context, string, []llm.Message, string) (string, error) {
	return m.reply, nil
}

type fakeCompiler struct{}

func (fakeCompiler) Name() string { return "fake" }
func (fakeCompiler) Compile(_ context.Context, p resume.Profile) ([]byte, error) {
	return []byte("%PDF-1.7 " + p.FullName), nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	resumes := memory.NewResumeRepository()
	model := cannedModel{reply: `{"reply": "Sure, noted."}`}
	resumeUC := resume.NewService(resumes)
	helper := assistant.New(model)
	engine := intake.NewProcessor(resumes, helper, lock.NewLocalLocker(), intake.Options{})
	gen := jwt.NewGenerator(testSecret, testIssuer, time.Hour)

	app := fiber.New()
	Register(app, Handlers{
		Auth:    handlers.NewAuthHandler(auth.NewAuthService(memory.NewUserRepository(), gen)),
		Health:  handlers.NewHealthHandler(health.NewService()),
		Resumes: handlers.NewResumesHandler(resumeUC),
		Render:  handlers.NewRenderHandler(resumeUC, render.NewService(fakeCompiler{}, nil, 0)),
		Chat:    handlers.NewChatHandler(engine, helper, resumeUC),
		ATS:     handlers.NewATSHandler(ats.NewService(memory.NewATSRepository(), model, ats.Options{}), 1<<20),
	}, Middleware{Auth: jwt.NewAuthMiddleware(testSecret, testIssuer)})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*nethttp.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func register(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := call(t, app, "POST", "/api/v1/users/register", "", map[string]string{"email": email, "password": "secret123", "phone": ""})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func createResume(t *testing.T, app *fiber.App, token string, body any) resume.Profile {
	t.Helper()
	resp, raw := call(t, app, "POST", "/api/v1/resumes", token, body)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(raw))
	var p resume.Profile
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "Maria@Example.com")

	resp, _ := call(t, app, "POST", "/api/v1/users/register", "", map[string]string{"email": "maria@example.com", "password": "secret123"})
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)

	resp, _ = call(t, app, "POST", "/api/v1/users/register", "", map[string]string{"email": "short@example.com", "password": "123"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, "POST", "/api/v1/users/login", "", map[string]string{"email": "maria@example.com", "password": "wrong-pass"})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp, body := call(t, app, "POST", "/api/v1/users/login", "", map[string]string{"identifier": "maria@example.com", "password": "secret123"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"token"`)
	assert.NotContains(t, string(body), "PasswordHash")

	resp, body = call(t, app, "GET", "/api/v1/users/me", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "maria@example.com")

	resp, _ = call(t, app, "GET", "/api/v1/users/me", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestResumeCRUDIsOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice@example.com")
	bob := register(t, app, "bob@example.com")

	p := createResume(t, app, alice, nil)
	assert.Equal(t, "Untitled Resume", p.FullName)
	assert.Equal(t, resume.DefaultTemplate, p.Template)
	assert.Equal(t, intake.StepNameRole, p.IntakeStep)
	path := "/api/v1/resumes/" + p.ID.String()

	resp, _ := call(t, app, "GET", path, bob, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp, body := call(t, app, "PUT", path, alice, map[string]any{
		"skills":  []string{"Forklift", " forklift ", "CDL"},
		"contact": map[string]string{"phone": "555-0100"},
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))
	var updated resume.Profile
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, []string{"Forklift", "CDL"}, updated.Skills)
	assert.Equal(t, "555-0100", updated.Contact.Phone)

	resp, body = call(t, app, "PUT", path, alice, map[string]any{"contact": map[string]string{"email": "not-an-email"}})
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "contact.email")

	resp, body = call(t, app, "GET", "/api/v1/resumes/mine", alice, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var mine []resume.Profile
	require.NoError(t, json.Unmarshal(body, &mine))
	assert.Len(t, mine, 1)

	resp, _ = call(t, app, "DELETE", path, bob, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	resp, _ = call(t, app, "DELETE", path, alice, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, app, "GET", path, alice, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, app, "GET", "/api/v1/resumes/not-a-uuid", alice, nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

type chatReply struct {
	Reply   string   `json:"reply"`
	Outcome string   `json:"outcome"`
	Step    string   `json:"step"`
	Skills  []string `json:"skills"`
}

func chat(t *testing.T, app *fiber.App, token, path, msg string) chatReply {
	t.Helper()
	resp, body := call(t, app, "POST", path, token, map[string]any{"message": msg})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))
	var out chatReply
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestChatFlow(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "maria@example.com")
	p := createResume(t, app, token, nil)
	path := "/api/v1/resumes/" + p.ID.String() + "/chat"

	resp, body := call(t, app, "GET", path, token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), intake.StepNameRole)

	out := chat(t, app, token, path, "<b>Maria Gomez</b>, Welder")
	assert.Equal(t, string(intake.OutcomeAdvanced), out.Outcome)
	assert.Equal(t, intake.StepEducation, out.Step)

	_, body = call(t, app, "GET", "/api/v1/resumes/"+p.ID.String(), token, nil)
	var stored resume.Profile
	require.NoError(t, json.Unmarshal(body, &stored))
	assert.Equal(t, "Maria Gomez", stored.FullName)
	assert.Equal(t, "Welder", stored.ProfessionalTitle)

	for _, a := range []string{"Trade school", "04 March 1990"} {
		chat(t, app, token, path, a)
	}
	out = chat(t, app, token, path, "")
	assert.Equal(t, string(intake.OutcomeInvalidInput), out.Outcome)
	assert.Equal(t, intake.StepLocation, out.Step)

	for _, a := range []string{"Houston, TX", "8 years", "Open to work"} {
		chat(t, app, token, path, a)
	}
	out = chat(t, app, token, path, "MIG Welding, Forklift")
	assert.Equal(t, intake.StepComplete, out.Step)
	assert.Equal(t, []string{"MIG Welding", "Forklift"}, out.Skills)

	out = chat(t, app, token, path, "Can you polish my summary?")
	assert.Equal(t, string(intake.OutcomeAnswered), out.Outcome)
	assert.Equal(t, "Sure, noted.", out.Reply)

	resp, body = call(t, app, "POST", path+"/reset", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), intake.StepNameRole)

	other := register(t, app, "other@example.com")
	out = chat(t, app, other, path, "Mallory, Hacker")
	assert.Equal(t, string(intake.OutcomeNotFound), out.Outcome)
}

func TestSkillExtract(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "maria@example.com")
	p := createResume(t, app, token, nil)
	path := "/api/v1/resumes/" + p.ID.String() + "/skills/extract"

	resp, _ := call(t, app, "POST", path, token, map[string]string{"text": "short"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, body := call(t, app, "POST", path, token, map[string]string{"text": "Welding\nForklift; CDL"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"skills": ["Welding", "Forklift", "CDL"]}`, string(body))
}

func TestPDFRequiresExportableResume(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "maria@example.com")
	p := createResume(t, app, token, map[string]string{"fullName": "Maria Gomez", "professionalTitle": "Welder"})
	path := "/api/v1/resumes/" + p.ID.String()

	resp, body := call(t, app, "GET", path+"/pdf", token, nil)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "contact.email")

	resp, _ = call(t, app, "PUT", path, token, map[string]any{"contact": map[string]string{"email": "maria@example.com"}})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body = call(t, app, "GET", path+"/pdf", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="Maria_Gomez_Resume.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = call(t, app, "GET", path+"/pdf?download=1", token, nil)
	assert.Equal(t, `attachment; filename="Maria_Gomez_Resume.pdf"`, resp.Header.Get("Content-Disposition"))

	resp, body = call(t, app, "GET", path+"/markup", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(body), "Maria Gomez")
}

func TestATSUploadRejectsBadFiles(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "maria@example.com")

	send := func(field, filename string, data []byte) int {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if field != "" {
			w, err := mw.CreateFormFile(field, filename)
			require.NoError(t, err)
			_, err = w.Write(data)
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest("POST", "/api/v1/ats/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, nethttp.StatusBadRequest, send("", "", nil), "missing file")
	assert.Equal(t, nethttp.StatusBadRequest, send("resume", "resume.pdf", []byte("plain text, not a pdf")))
	assert.Equal(t, nethttp.StatusBadRequest, send("resume", "notes.txt", []byte("hello")))
	assert.Equal(t, nethttp.StatusRequestEntityTooLarge, send("resume", "big.pdf", make([]byte, 2<<20)))

	resp, body := call(t, app, "GET", "/api/v1/ats/reports", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestATSQuickScoreNeedsJobDescription(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "maria@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	w, err := mw.CreateFormFile("resume", "resume.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/ats/quick-score", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, "POST", "/api/v1/ats/quick-score", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestUserKey(t *testing.T) {
	app := fiber.New()
	app.Get("/key", func(c *fiber.Ctx) error {
		if uid := c.Get("X-User"); uid != "" {
			c.Locals(jwt.LocalUserID, uid)
		}
		return c.SendString(UserKey(c))
	})

	get := func(user string) string {
		req := httptest.NewRequest("GET", "/key", nil)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(b)
	}

	assert.Equal(t, "user:42", get("42"))
	assert.Equal(t, "", get(""), "anonymous callers are keyed by IP inside the limiter")
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, _ := call(t, app, "GET", "/api/v1/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, "GET", "/api/v1/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}
