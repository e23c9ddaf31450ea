package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/presenter"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/assistant"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/intake"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/lock"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/security/sanitize"
)

// ChatEngine runs guided-intake turns.
type ChatEngine interface {
	Handle(ctx context.Context, ownerID, resumeID uuid.UUID, message string, history []intake.Turn) intake.Result
	Current(ctx context.Context, ownerID, resumeID uuid.UUID) (intake.Result, error)
	Reset(ctx context.Context, ownerID, resumeID uuid.UUID) (intake.Result, error)
}

type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) ([]string, error)
}

type ChatHandler struct {
	engine  ChatEngine
	skills  SkillExtractor
	resumes resume.UseCase
}

func NewChatHandler(engine ChatEngine, skills SkillExtractor, resumes resume.UseCase) *ChatHandler {
	return &ChatHandler{engine: engine, skills: skills, resumes: resumes}
}

type chatRequest struct {
	Message string        `json:"message" validate:"max=4000"`
	History []intake.Turn `json:"history" validate:"max=100"`
}

type chatResponse struct {
	Role           string         `json:"role"`
	Reply          string         `json:"reply"`
	Outcome        intake.Outcome `json:"outcome,omitempty"`
	Step           string         `json:"step"`
	Prompt         string         `json:"prompt"`
	Skills         []string       `json:"skills,omitempty"`
	Certifications []string       `json:"certifications,omitempty"`
}

func toChatResponse(r intake.Result) chatResponse {
	return chatResponse{
		Role:           "assistant",
		Reply:          r.Reply,
		Outcome:        r.Outcome,
		Step:           r.Step,
		Prompt:         r.Prompt,
		Skills:         r.Skills,
		Certifications: r.Certifications,
	}
}

// State returns the current intake step and its question.
// @Summary Chat state
// @Tags    chat
// @Produce json
// @Param   id path string true "resume id (UUID)"
// @Security BearerAuth
// @Success 200 {object} chatResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/chat [get]
func (h *ChatHandler) State(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	res, err := h.engine.Current(c.Context(), uid, id)
	if err != nil {
		return resumeError(c, err, "load chat")
	}
	return presenter.JSON(c, http.StatusOK, toChatResponse(res))
}

// Send processes one chat message. Failures come back as an assistant reply
// with a non-advancing outcome, never as an HTTP error.
// @Summary Send chat message
// @Tags    chat
// @Accept  json
// @Produce json
// @Param   id    path string      true "resume id (UUID)"
// @Param   input body chatRequest true "message and transcript"
// @Security BearerAuth
// @Success 200 {object} chatResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/chat [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	history := make([]intake.Turn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, intake.Turn{Role: t.Role, Content: sanitize.Text(t.Content)})
	}
	res := h.engine.Handle(c.Context(), uid, id, sanitize.Text(req.Message), history)
	return presenter.JSON(c, http.StatusOK, toChatResponse(res))
}

// Reset restarts the guided intake. Stored fields are kept.
// @Summary Restart chat
// @Tags    chat
// @Produce json
// @Param   id path string true "resume id (UUID)"
// @Security BearerAuth
// @Success 200 {object} chatResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/chat/reset [post]
func (h *ChatHandler) Reset(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	res, err := h.engine.Reset(c.Context(), uid, id)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return presenter.Error(c, http.StatusConflict, "a message is still being processed")
		}
		return resumeError(c, err, "reset chat")
	}
	return presenter.JSON(c, http.StatusOK, toChatResponse(res))
}

type extractSkillsRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// ExtractSkills suggests skills found in free text. Nothing is saved.
// @Summary Extract skills
// @Tags    chat
// @Accept  json
// @Produce json
// @Param   id    path string               true "resume id (UUID)"
// @Param   input body extractSkillsRequest true "text to analyze"
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/skills/extract [post]
func (h *ChatHandler) ExtractSkills(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	var req extractSkillsRequest
	if err := bindJSON(c, &req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if _, err := h.resumes.Get(c.Context(), uid, id); err != nil {
		return resumeError(c, err, "load resume")
	}
	skills, err := h.skills.ExtractSkills(c.Context(), sanitize.Text(req.Text))
	if err != nil {
		if errors.Is(err, assistant.ErrTextTooShort) {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		log.Warn().Err(err).Str("resume_id", id.String()).Msg("extract skills")
		return presenter.Error(c, http.StatusServiceUnavailable, "skill extraction is unavailable, please try again")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"skills": skills})
}
