package resume

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError lists offending fields with a reason each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid resume: " + strings.Join(parts, "; ")
}

// ValidatePatch rejects patches that would break the document invariants:
// blank name or title, unknown template, malformed email.
func ValidatePatch(p Patch) error {
	fields := map[string]string{}
	if p.FullName != nil && *p.FullName == "" {
		fields["fullName"] = "must not be empty"
	}
	if p.ProfessionalTitle != nil && *p.ProfessionalTitle == "" {
		fields["professionalTitle"] = "must not be empty"
	}
	if p.Template != nil && !IsTemplate(*p.Template) {
		fields["template"] = "unknown template"
	}
	if p.Contact != nil && p.Contact.Email != nil && *p.Contact.Email != "" {
		if validate.Var(*p.Contact.Email, "email") != nil {
			fields["contact.email"] = "must be a valid email"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type exportCheck struct {
	FullName          string `validate:"required"`
	ProfessionalTitle string `validate:"required"`
	Email             string `validate:"required,email"`
}

var exportFieldNames = map[string]string{
	"FullName":          "fullName",
	"ProfessionalTitle": "professionalTitle",
	"Email":             "contact.email",
}

// CheckExportable reports whether c has what a rendered document needs:
// a name, a title and a valid contact email.
func CheckExportable(c Content) error {
	err := validate.Struct(exportCheck{
		FullName:          strings.TrimSpace(c.FullName),
		ProfessionalTitle: strings.TrimSpace(c.ProfessionalTitle),
		Email:             strings.TrimSpace(c.Contact.Email),
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := map[string]string{}
	for _, fe := range verrs {
		msg := "is required"
		if fe.Tag() == "email" {
			msg = "must be a valid email"
		}
		fields[exportFieldNames[fe.Field()]] = msg
	}
	return &ValidationError{Fields: fields}
}
