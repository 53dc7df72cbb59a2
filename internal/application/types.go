// Package application defines the job application data model shared by the
// form sections, the controller and the storage slot.
package application

import (
	"slices"
	"strings"
)

// Section identifies a group of fields validated and displayed together.
type Section string

// Form sections.
const (
	SectionPersonalInfo Section = "personalInfo"
	SectionExperience   Section = "experience"
)

// FieldPath addresses a single field as "<section>.<field>".
type FieldPath string

// Field paths, named after the JSON keys of the persisted state.
const (
	FieldFullName     FieldPath = "personalInfo.fullName"
	FieldEmail        FieldPath = "personalInfo.email"
	FieldPhone        FieldPath = "personalInfo.phone"
	FieldPortfolioURL FieldPath = "personalInfo.portfolioUrl"

	FieldCurrentRole       FieldPath = "experience.currentRole"
	FieldYearsOfExperience FieldPath = "experience.yearsOfExperience"
	FieldSkills            FieldPath = "experience.skills"
	FieldCompany           FieldPath = "experience.company"
)

// Section returns the section the field belongs to.
func (p FieldPath) Section() Section {
	s, _, _ := strings.Cut(string(p), ".")
	return Section(s)
}

// Name returns the field name without its section prefix.
func (p FieldPath) Name() string {
	_, name, _ := strings.Cut(string(p), ".")
	return name
}

// SectionFields lists the fields of each section in display order.
var SectionFields = map[Section][]FieldPath{
	SectionPersonalInfo: {FieldFullName, FieldEmail, FieldPhone, FieldPortfolioURL},
	SectionExperience:   {FieldCurrentRole, FieldYearsOfExperience, FieldSkills, FieldCompany},
}

// Step indices and labels for the three form steps.
const (
	StepPersonalInfo = 0
	StepExperience   = 1
	StepReview       = 2
	StepCount        = 3
)

// StepLabels are the titles shown in the progress indicator.
var StepLabels = [StepCount]string{"Información Personal", "Experiencia", "Revisión"}

// StepSection returns the section edited on the given step.
// The review step has no section and returns false.
func StepSection(step int) (Section, bool) {
	switch step {
	case StepPersonalInfo:
		return SectionPersonalInfo, true
	case StepExperience:
		return SectionExperience, true
	default:
		return "", false
	}
}

// PersonalInfo holds the first step's fields.
type PersonalInfo struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PortfolioURL string `json:"portfolioUrl,omitempty"`
}

// Experience holds the second step's fields.
type Experience struct {
	CurrentRole string `json:"currentRole"`
	// YearsOfExperience is nil until the applicant enters a value.
	YearsOfExperience *int     `json:"yearsOfExperience,omitempty"`
	Skills            []string `json:"skills"`
	Company           string   `json:"company"`
}

// State is the complete application as persisted in the storage slot.
type State struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   Experience   `json:"experience"`
}

// Clone returns a deep copy so callers can't alias the skills slice or the
// years pointer of a shared state.
func (s State) Clone() State {
	out := s
	out.Experience.Skills = slices.Clone(s.Experience.Skills)
	if s.Experience.YearsOfExperience != nil {
		years := *s.Experience.YearsOfExperience
		out.Experience.YearsOfExperience = &years
	}
	return out
}

// IsZero reports whether no field has been entered.
func (s State) IsZero() bool {
	p, e := s.PersonalInfo, s.Experience
	return p == PersonalInfo{} &&
		e.CurrentRole == "" && e.YearsOfExperience == nil && len(e.Skills) == 0 && e.Company == ""
}

// Years is a convenience constructor for YearsOfExperience.
func Years(n int) *int {
	return &n
}

// ParseSkills splits comma-separated input into trimmed, non-empty skills.
func ParseSkills(raw string) []string {
	var skills []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// FormatSkills joins skills for display and editing.
func FormatSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
