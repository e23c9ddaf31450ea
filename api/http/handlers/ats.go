package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/presenter"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/ats"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/security/sanitize"
)

// ATSHandler scores uploaded resume files.
type ATSHandler struct {
	uc       ats.UseCase
	maxBytes int64
}

func NewATSHandler(uc ats.UseCase, maxBytes int64) *ATSHandler {
	if maxBytes <= 0 {
		maxBytes = ats.DefaultMaxFileBytes
	}
	return &ATSHandler{uc: uc, maxBytes: maxBytes}
}

type rejectedResponse struct {
	Message    string  `json:"message"`
	IsResume   bool    `json:"isResume"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Upload scores a resume for general blue-collar ATS compatibility.
// @Summary Score resume
// @Tags    ats
// @Accept  multipart/form-data
// @Produce json
// @Param   resume formData file true "resume file (PDF or DOCX)"
// @Security BearerAuth
// @Success 200 {object} ats.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 413 {object} presenter.ErrorResponse
// @Failure 422 {object} rejectedResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /ats/upload [post]
func (h *ATSHandler) Upload(c *fiber.Ctx) error {
	return h.score(c, "")
}

// Analyze scores a resume against a job description.
// @Summary Score resume against a job
// @Tags    ats
// @Accept  multipart/form-data
// @Produce json
// @Param   resume         formData file   true "resume file (PDF or DOCX)"
// @Param   jobDescription formData string true "job posting text"
// @Security BearerAuth
// @Success 200 {object} ats.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} rejectedResponse
// @Router  /ats/analyze [post]
func (h *ATSHandler) Analyze(c *fiber.Ctx) error {
	jd := sanitize.Text(c.FormValue("jobDescription"))
	if jd == "" {
		return presenter.Error(c, http.StatusBadRequest, "jobDescription is required")
	}
	return h.score(c, jd)
}

// Quick gives a fast job-match score without the category breakdown.
// @Summary Quick job-match score
// @Tags    ats
// @Accept  multipart/form-data
// @Produce json
// @Param   resume         formData file   true "resume file (PDF or DOCX)"
// @Param   jobDescription formData string true "job posting text"
// @Security BearerAuth
// @Success 200 {object} ats.QuickScore
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /ats/quick-score [post]
func (h *ATSHandler) Quick(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
	}
	jd := sanitize.Text(c.FormValue("jobDescription"))
	if jd == "" {
		return presenter.Error(c, http.StatusBadRequest, "jobDescription is required")
	}
	up, ok := h.upload(c)
	if !ok {
		return nil
	}
	out, err := h.uc.QuickScore(c.Context(), up, jd)
	if err != nil {
		return atsError(c, err, uid)
	}
	return presenter.JSON(c, http.StatusOK, out)
}

func (h *ATSHandler) score(c *fiber.Ctx, jobDescription string) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
	}
	up, ok := h.upload(c)
	if !ok {
		return nil
	}
	rec, err := h.uc.Score(c.Context(), uid, up, jobDescription)
	if err != nil {
		return atsError(c, err, uid)
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

// Suggestions proposes changes that raise the ATS score.
// @Summary Improvement suggestions
// @Tags    ats
// @Accept  multipart/form-data
// @Produce json
// @Param   resume      formData file true  "resume file (PDF or DOCX)"
// @Param   targetScore formData int  false "desired score (default 80)"
// @Security BearerAuth
// @Success 200 {object} ats.Suggestions
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /ats/suggestions [post]
func (h *ATSHandler) Suggestions(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
	}
	target := 0
	if v := strings.TrimSpace(c.FormValue("targetScore")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return presenter.Error(c, http.StatusBadRequest, "targetScore must be between 1 and 100")
		}
		target = n
	}
	up, ok := h.upload(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Suggestions(c.Context(), up, target)
	if err != nil {
		return atsError(c, err, uid)
	}
	return presenter.JSON(c, http.StatusOK, out)
}

// Reports lists the caller's past scoring runs.
// @Summary My ATS reports
// @Tags    ats
// @Produce json
// @Param   limit  query int false "page size (max 200)"
// @Param   offset query int false "offset"
// @Security BearerAuth
// @Success 200 {array} ats.Record
// @Router  /ats/reports [get]
func (h *ATSHandler) Reports(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
	}
	limit, offset := parseLimitOffset(c, 20)
	items, err := h.uc.List(c.Context(), uid, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid.String()).Msg("list ats reports")
		return presenter.Error(c, http.StatusInternalServerError, "failed to list reports")
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// upload reads the multipart file from the "resume" field ("file" also works).
func (h *ATSHandler) upload(c *fiber.Ctx) (ats.Upload, bool) {
	fh, err := c.FormFile("resume")
	if err != nil || fh == nil {
		fh, err = c.FormFile("file")
	}
	if err != nil || fh == nil {
		_ = presenter.Error(c, http.StatusBadRequest, "resume file is required (pdf or docx)")
		return ats.Upload{}, false
	}
	if fh.Size > h.maxBytes {
		_ = presenter.Error(c, http.StatusRequestEntityTooLarge, ats.ErrFileTooLarge.Error())
		return ats.Upload{}, false
	}
	f, err := fh.Open()
	if err != nil {
		_ = presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
		return ats.Upload{}, false
	}
	defer f.Close()
	data, err := readAtMost(f, h.maxBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			_ = presenter.Error(c, http.StatusRequestEntityTooLarge, ats.ErrFileTooLarge.Error())
		} else {
			_ = presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		return ats.Upload{}, false
	}
	return ats.Upload{Filename: fh.Filename, ContentType: fh.Header.Get(fiber.HeaderContentType), Data: data}, true
}

func atsError(c *fiber.Ctx, err error, uid uuid.UUID) error {
	var rejected *ats.RejectedError
	switch {
	case errors.As(err, &rejected):
		return presenter.JSON(c, http.StatusUnprocessableEntity, rejectedResponse{
			Message:    "The uploaded file does not appear to be a resume.",
			IsResume:   rejected.IsResume,
			Confidence: rejected.Confidence,
			Reason:     rejected.Reason,
		})
	case errors.Is(err, ats.ErrJobDescriptionRequired):
		return presenter.Error(c, http.StatusBadRequest, "jobDescription is required")
	case errors.Is(err, ats.ErrUnsupportedFormat):
		return presenter.Error(c, http.StatusBadRequest, "only PDF and DOCX files are supported")
	case errors.Is(err, ats.ErrFileTooLarge):
		return presenter.Error(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ats.ErrUnreadable):
		return presenter.Error(c, http.StatusUnprocessableEntity, "could not read any text from the file")
	case errors.Is(err, ats.ErrServiceUnavailable):
		log.Warn().Err(err).Str("user_id", uid.String()).Msg("ats: completion service")
		return presenter.Error(c, http.StatusServiceUnavailable, "scoring is temporarily unavailable, please try again")
	case errors.Is(err, ats.ErrInvalidModelReply):
		log.Warn().Err(err).Str("user_id", uid.String()).Msg("ats: bad model reply")
		return presenter.Error(c, http.StatusBadGateway, "scoring failed, please try again")
	default:
		log.Error().Err(err).Str("user_id", uid.String()).Msg("ats: score")
		return presenter.Error(c, http.StatusInternalServerError, "failed to score resume")
	}
}
