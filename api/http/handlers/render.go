package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/presenter"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/render"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// RenderHandler turns stored resumes into markup and PDF documents.
type RenderHandler struct {
	resumes  resume.UseCase
	renderer *render.Service
}

func NewRenderHandler(resumes resume.UseCase, renderer *render.Service) *RenderHandler {
	return &RenderHandler{resumes: resumes, renderer: renderer}
}

// Markup returns the Typst source of the resume.
// @Summary Resume markup
// @Tags    render
// @Produce plain
// @Param   id path string true "resume id (UUID)"
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/markup [get]
func (h *RenderHandler) Markup(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	p, err := h.resumes.Get(c.Context(), uid, id)
	if err != nil {
		return resumeError(c, err, "load resume")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(h.renderer.Markup(p))
}

// PDF compiles the resume. Pass download=1 to get an attachment.
// @Summary Resume PDF
// @Tags    render
// @Produce application/pdf
// @Param   id       path  string true  "resume id (UUID)"
// @Param   download query bool   false "send as attachment"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.FieldErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/pdf [get]
func (h *RenderHandler) PDF(c *fiber.Ctx) error {
	uid, id, ok := ownerAndID(c)
	if !ok {
		return nil
	}
	p, err := h.resumes.Get(c.Context(), uid, id)
	if err != nil {
		return resumeError(c, err, "load resume")
	}
	if err := resume.CheckExportable(p.Content); err != nil {
		var verr *resume.ValidationError
		if errors.As(err, &verr) {
			return presenter.FieldError(c, http.StatusUnprocessableEntity, "resume is missing required fields", verr.Fields)
		}
		return resumeError(c, err, "check resume")
	}

	pdf, err := h.renderer.PDF(c.Context(), p)
	if err != nil {
		logger := log.With().Err(err).Str("resume_id", id.String()).Str("engine", h.renderer.Engine()).Logger()
		if errors.Is(err, render.ErrCompilerMissing) {
			logger.Error().Msg("render: compiler unavailable")
			return presenter.Error(c, http.StatusInternalServerError, "PDF engine is not installed on the server")
		}
		logger.Error().Msg("render: compile")
		return presenter.Error(c, http.StatusInternalServerError, "failed to generate PDF")
	}

	disposition := "inline"
	if d := c.Query("download"); d == "1" || strings.EqualFold(d, "true") {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, pdfFilename(p.FullName)))
	return c.Send(pdf)
}

// pdfFilename builds an ASCII-safe "<Name>_Resume.pdf".
func pdfFilename(fullName string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(fullName) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "Resume"
	} else {
		name += "_Resume"
	}
	return name + ".pdf"
}
