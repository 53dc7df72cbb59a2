// Package review projects the application state into read-only display rows.
package review

import (
	"strconv"
	"strings"

	"github.com/npratt/applyform/internal/application"
)

// Placeholders for values the applicant has not entered.
const (
	NotEntered  = "No ingresado"
	NotProvided = "No proporcionado"
)

// Row is one labelled value.
type Row struct {
	Field application.FieldPath
	Label string
	Value string
	// Missing is true when Value is a placeholder.
	Missing bool
}

// Section groups the rows of one form section.
type Section struct {
	Title string
	Rows  []Row
}

// Review is the full read-only projection.
type Review struct {
	Title    string
	Sections []Section
}

// Labels maps each field to its review label.
var Labels = map[application.FieldPath]string{
	application.FieldFullName:          "Nombre",
	application.FieldEmail:             "Email",
	application.FieldPhone:             "Teléfono",
	application.FieldPortfolioURL:      "Portafolio",
	application.FieldCurrentRole:       "Rol Actual",
	application.FieldYearsOfExperience: "Años de Experiencia",
	application.FieldSkills:            "Habilidades",
	application.FieldCompany:           "Compañía",
}

// Build returns the review of s. It reads the same field names the section
// forms write; s is not modified.
func Build(s application.State) Review {
	p, e := s.PersonalInfo, s.Experience

	years := ""
	if e.YearsOfExperience != nil {
		years = strconv.Itoa(*e.YearsOfExperience)
	}

	return Review{
		Title: application.StepLabels[application.StepReview],
		Sections: []Section{
			{
				Title: application.StepLabels[application.StepPersonalInfo],
				Rows: []Row{
					row(application.FieldFullName, p.FullName, NotEntered),
					row(application.FieldEmail, p.Email, NotEntered),
					row(application.FieldPhone, p.Phone, NotEntered),
					row(application.FieldPortfolioURL, p.PortfolioURL, NotProvided),
				},
			},
			{
				Title: application.StepLabels[application.StepExperience],
				Rows: []Row{
					row(application.FieldCurrentRole, e.CurrentRole, NotEntered),
					row(application.FieldYearsOfExperience, years, NotEntered),
					row(application.FieldSkills, application.FormatSkills(nonEmpty(e.Skills)), NotEntered),
					row(application.FieldCompany, e.Company, NotEntered),
				},
			},
		},
	}
}

func row(path application.FieldPath, value, placeholder string) Row {
	if strings.TrimSpace(value) == "" {
		return Row{Field: path, Label: Labels[path], Value: placeholder, Missing: true}
	}
	return Row{Field: path, Label: Labels[path], Value: value}
}

func nonEmpty(skills []string) []string {
	var out []string
	for _, s := range skills {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Rows flattens all sections.
func (r Review) Rows() []Row {
	var rows []Row
	for _, s := range r.Sections {
		rows = append(rows, s.Rows...)
	}
	return rows
}

// Value returns the displayed value for a field.
func (r Review) Value(path application.FieldPath) string {
	for _, row := range r.Rows() {
		if row.Field == path {
			return row.Value
		}
	}
	return ""
}

// MissingCount returns how many rows show a placeholder.
func (r Review) MissingCount() int {
	n := 0
	for _, row := range r.Rows() {
		if row.Missing {
			n++
		}
	}
	return n
}

// Text renders the review as plain text, one "Label: value" per line.
func (r Review) Text() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString("\n")
	for _, s := range r.Sections {
		b.WriteString("\n")
		b.WriteString(s.Title)
		b.WriteString("\n")
		for _, row := range s.Rows {
			b.WriteString("  ")
			b.WriteString(row.Label)
			b.WriteString(": ")
			b.WriteString(row.Value)
			b.WriteString("\n")
		}
	}
	return b.String()
}
