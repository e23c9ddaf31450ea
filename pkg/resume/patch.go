package resume

import "strings"

// ContactPatch updates phone and email independently.
type ContactPatch struct {
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Patch is a typed merge-patch over the editable resume fields. A nil field is
// left untouched; list fields replace the stored list once normalized.
type Patch struct {
	FullName          *string       `json:"fullName,omitempty"`
	ProfessionalTitle *string       `json:"professionalTitle,omitempty"`
	DateOfBirth       *string       `json:"dateOfBirth,omitempty"`
	Location          *string       `json:"location,omitempty"`
	Education         *string       `json:"education,omitempty"`
	Summary           *string       `json:"summary,omitempty"`
	JobStatus         *string       `json:"jobStatus,omitempty"`
	ExperienceSummary *string       `json:"experienceSummary,omitempty"`
	Template          *string       `json:"template,omitempty"`
	Contact           *ContactPatch `json:"contact,omitempty"`
	WorkExperience    *[]WorkEntry  `json:"workExperience,omitempty"`
	Skills            *[]string     `json:"skills,omitempty"`
	Certifications    *[]string     `json:"certifications,omitempty"`
}

// Str returns a pointer to s, for building patches.
func Str(s string) *string { return &s }

// Strings returns a pointer to list, for building patches.
func Strings(list []string) *[]string { return &list }

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.ProfessionalTitle == nil && p.DateOfBirth == nil &&
		p.Location == nil && p.Education == nil && p.Summary == nil && p.JobStatus == nil &&
		p.ExperienceSummary == nil && p.Template == nil && p.WorkExperience == nil &&
		p.Skills == nil && p.Certifications == nil &&
		(p.Contact == nil || (p.Contact.Phone == nil && p.Contact.Email == nil))
}

// TouchesLists reports whether the patch writes skills or certifications.
func (p Patch) TouchesLists() bool {
	return p.Skills != nil || p.Certifications != nil
}

// Normalized trims scalar values and restores list invariants.
func (p Patch) Normalized() Patch {
	for _, f := range []**string{&p.FullName, &p.ProfessionalTitle, &p.DateOfBirth, &p.Location,
		&p.Education, &p.Summary, &p.JobStatus, &p.ExperienceSummary, &p.Template} {
		if *f != nil {
			*f = Str(strings.TrimSpace(**f))
		}
	}
	if p.Contact != nil {
		c := *p.Contact
		if c.Phone != nil {
			c.Phone = Str(strings.TrimSpace(*c.Phone))
		}
		if c.Email != nil {
			c.Email = Str(strings.TrimSpace(*c.Email))
		}
		p.Contact = &c
	}
	if p.Skills != nil {
		p.Skills = Strings(MergeList(nil, *p.Skills))
	}
	if p.Certifications != nil {
		p.Certifications = Strings(MergeList(nil, *p.Certifications))
	}
	if p.WorkExperience != nil {
		w := MergeWork(nil, *p.WorkExperience)
		p.WorkExperience = &w
	}
	return p
}

// Apply writes the patch into c.
func (p Patch) Apply(c *Content) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.FullName, p.FullName)
	set(&c.ProfessionalTitle, p.ProfessionalTitle)
	set(&c.DateOfBirth, p.DateOfBirth)
	set(&c.Location, p.Location)
	set(&c.Education, p.Education)
	set(&c.Summary, p.Summary)
	set(&c.JobStatus, p.JobStatus)
	set(&c.ExperienceSummary, p.ExperienceSummary)
	set(&c.Template, p.Template)
	if p.Contact != nil {
		set(&c.Contact.Phone, p.Contact.Phone)
		set(&c.Contact.Email, p.Contact.Email)
	}
	if p.WorkExperience != nil {
		c.WorkExperience = append([]WorkEntry(nil), *p.WorkExperience...)
	}
	if p.Skills != nil {
		c.Skills = append([]string{}, *p.Skills...)
	}
	if p.Certifications != nil {
		c.Certifications = append([]string{}, *p.Certifications...)
	}
}

// Fields returns the top-level document keys written by the patch. Contact
// is excluded: it is merged key by key, see ContactFields.
func (p Patch) Fields() map[string]any {
	out := map[string]any{}
	put := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	put("fullName", p.FullName)
	put("professionalTitle", p.ProfessionalTitle)
	put("dateOfBirth", p.DateOfBirth)
	put("location", p.Location)
	put("education", p.Education)
	put("summary", p.Summary)
	put("jobStatus", p.JobStatus)
	put("experienceSummary", p.ExperienceSummary)
	put("template", p.Template)
	if p.WorkExperience != nil {
		out["workExperience"] = *p.WorkExperience
	}
	if p.Skills != nil {
		out["skills"] = *p.Skills
	}
	if p.Certifications != nil {
		out["certifications"] = *p.Certifications
	}
	return out
}

// ContactFields returns the contact sub-keys written by the patch.
func (p Patch) ContactFields() map[string]any {
	out := map[string]any{}
	if p.Contact == nil {
		return out
	}
	if p.Contact.Phone != nil {
		out["phone"] = *p.Contact.Phone
	}
	if p.Contact.Email != nil {
		out["email"] = *p.Contact.Email
	}
	return out
}
