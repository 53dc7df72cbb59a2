// Package schema holds the declarative validation rules for each form section.
// Validation is pure: it never mutates its input and keeps no state between calls.
package schema

import (
	"sort"
	"strings"

	"github.com/npratt/applyform/internal/application"
)

// Validation messages shown next to the offending field.
const (
	MsgFullNameRequired    = "El nombre completo es obligatorio"
	MsgEmailRequired       = "El correo electrónico es obligatorio"
	MsgPhoneRequired       = "El teléfono es obligatorio"
	MsgCurrentRoleRequired = "El rol actual es obligatorio"
	MsgYearsRequired       = "Los años de experiencia son obligatorios"
	MsgYearsMin            = "Debe tener al menos 1 año de experiencia"
	MsgSkillsRequired      = "Debe ingresar al menos una habilidad"
	MsgCompanyRequired     = "El nombre de la compañía es obligatorio"
)

// MinYearsOfExperience is the floor for the years field.
const MinYearsOfExperience = 1

// Errors maps each invalid field to its message. An empty map means valid.
type Errors map[application.FieldPath]string

// Valid reports whether there are no field errors.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Fields returns the invalid field paths in a stable order.
func (e Errors) Fields() []application.FieldPath {
	paths := make([]application.FieldPath, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

// rule checks one field of a state and returns its message, or "" when valid.
type rule func(application.State) string

var rules = map[application.FieldPath]rule{
	application.FieldFullName: func(s application.State) string {
		return required(s.PersonalInfo.FullName, MsgFullNameRequired)
	},
	application.FieldEmail: func(s application.State) string {
		return required(s.PersonalInfo.Email, MsgEmailRequired)
	},
	application.FieldPhone: func(s application.State) string {
		return required(s.PersonalInfo.Phone, MsgPhoneRequired)
	},
	application.FieldPortfolioURL: func(application.State) string { return "" },
	application.FieldCurrentRole: func(s application.State) string {
		return required(s.Experience.CurrentRole, MsgCurrentRoleRequired)
	},
	application.FieldYearsOfExperience: func(s application.State) string {
		years := s.Experience.YearsOfExperience
		switch {
		case years == nil:
			return MsgYearsRequired
		case *years < MinYearsOfExperience:
			return MsgYearsMin
		}
		return ""
	},
	application.FieldSkills: func(s application.State) string {
		for _, skill := range s.Experience.Skills {
			if strings.TrimSpace(skill) != "" {
				return ""
			}
		}
		return MsgSkillsRequired
	},
	application.FieldCompany: func(s application.State) string {
		return required(s.Experience.Company, MsgCompanyRequired)
	},
}

func required(value, msg string) string {
	if strings.TrimSpace(value) == "" {
		return msg
	}
	return ""
}

// ValidateField returns the error message for a single field, or "" when the
// field is valid or unknown.
func ValidateField(s application.State, path application.FieldPath) string {
	r, ok := rules[path]
	if !ok {
		return ""
	}
	return r(s)
}

// ValidateSection validates every field of a section.
func ValidateSection(s application.State, section application.Section) Errors {
	errs := Errors{}
	for _, path := range application.SectionFields[section] {
		if msg := ValidateField(s, path); msg != "" {
			errs[path] = msg
		}
	}
	return errs
}

// ValidatePersonalInfo validates the personal information section.
func ValidatePersonalInfo(p application.PersonalInfo) Errors {
	return ValidateSection(application.State{PersonalInfo: p}, application.SectionPersonalInfo)
}

// ValidateExperience validates the experience section.
func ValidateExperience(e application.Experience) Errors {
	return ValidateSection(application.State{Experience: e}, application.SectionExperience)
}

// ValidateAll validates both sections.
func ValidateAll(s application.State) Errors {
	errs := ValidateSection(s, application.SectionPersonalInfo)
	for path, msg := range ValidateSection(s, application.SectionExperience) {
		errs[path] = msg
	}
	return errs
}
