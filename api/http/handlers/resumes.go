package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/presenter"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// ResumesHandler serves owner-scoped resume CRUD.
type ResumesHandler struct {
	uc resume.UseCase
}

func NewResumesHandler(uc resume.UseCase) *ResumesHandler {
	return &ResumesHandler{uc: uc}
}

type createResumeRequest struct {
	FullName          string `json:"fullName" validate:"max=200"`
	ProfessionalTitle string `json:"professionalTitle" validate:"max=200"`
	Template          string `json:"template" validate:"omitempty,oneof=skills-first experience-first"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone" validate:"max=32"`
}

// Create starts a new resume seeded from the chosen template.
// @Summary Create resume
// @Tags    resumes
// @Accept  json
// @Produce json
// @Param   input body createResumeRequest false "initial fields"
// @Security BearerAuth
// @Success 201 {object} resume.Profile
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /resumes [post]
func (h *ResumesHandler) Create(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
	}
	var req createResumeRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
	}
	p, err := h.uc.Create(c.Context(), uid, resume.CreateInput{
		FullName:          req.FullName,
		ProfessionalTitle: req.ProfessionalTitle,
		Template:          req.Template,
		Email:             req.Email,
		Phone:             req.Phone,
	})
	if err != nil {
		return resumeError(c, err, "create resume")
	}
	return presenter.JSON(c, http.StatusCreated, p)
}

// Mine lists the caller's resumes, newest first.
// @Summary List my resumes
// @Tags    resumes
// @Produce json
// @Param   limit  query int false "page size (max 200)"
// @Param   offset query int false "offset"
// @Security BearerAuth
// @Success 200 {array} resume.Profile
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /resumes/mine [get]
func (h *ResumesHandler) Mine(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
	}
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.uc.ListMine(c.Context(), uid, limit, offset)
	if err != nil {
		return resumeError(c, err, "list resumes")
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get returns one resume.
// @Summary Get resume
// @Tags    resumes
// @Produce json
// @Param   id path string true "resume id (UUID)"
// @Security BearerAuth
// @Success 200 {object} resume.Profile
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [get]
func (h *ResumesHandler) Get(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	p, err := h.uc.Get(c.Context(), uid, id)
	if err != nil {
		return resumeError(c, err, "load resume")
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// Update applies a partial update. Absent fields are left untouched; list
// fields replace the stored list.
// @Summary Update resume
// @Tags    resumes
// @Accept  json
// @Produce json
// @Param   id    path string       true "resume id (UUID)"
// @Param   input body resume.Patch true "fields to change"
// @Security BearerAuth
// @Success 200 {object} resume.Profile
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.FieldErrorResponse
// @Router  /resumes/{id} [put]
func (h *ResumesHandler) Update(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	var patch resume.Patch
	if err := c.BodyParser(&patch); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	p, err := h.uc.Update(c.Context(), uid, id, patch)
	if err != nil {
		return resumeError(c, err, "update resume")
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// Delete removes a resume.
// @Summary Delete resume
// @Tags    resumes
// @Param   id path string true "resume id (UUID)"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [delete]
func (h *ResumesHandler) Delete(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.Context(), uid, id); err != nil {
		return resumeError(c, err, "delete resume")
	}
	return c.SendStatus(http.StatusNoContent)
}
