package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/presenter"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/security/jwt"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// bindJSON parses the body into req and runs its validate tags.
func bindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("invalid JSON payload")
	}
	return checkStruct(req)
}

func checkStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// currentUser reads the account id the auth middleware stored.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(jwt.LocalUserID).(string)
	return uuid.Parse(s)
}

// ownerAndID resolves the caller and the :id path parameter, writing the
// error response itself when either is unusable.
func ownerAndID(c *fiber.Ctx) (owner, id uuid.UUID, ok bool) {
	owner, err := currentUser(c)
	if err != nil {
		_ = presenter.Error(c, http.StatusUnauthorized, "unable to identify user")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Params("id"))
	if err != nil {
		_ = presenter.Error(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}

// resumeError maps resume errors to responses.
func resumeError(c *fiber.Ctx, err error, action string) error {
	var verr *resume.ValidationError
	switch {
	case errors.Is(err, resume.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "resume not found")
	case errors.As(err, &verr):
		return presenter.FieldError(c, http.StatusUnprocessableEntity, "resume is invalid", verr.Fields)
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg(action)
		return presenter.Error(c, http.StatusInternalServerError, "failed to "+action)
	}
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, errFileTooLarge
	}
	return b, nil
}

var errFileTooLarge = errors.New("file too large")
