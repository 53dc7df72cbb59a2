// Package testutil holds fixtures and helpers shared by package tests.
package testutil

import "github.com/npratt/applyform/internal/application"

// ValidState returns an application that passes every section.
func ValidState() application.State {
	return application.State{
		PersonalInfo: application.PersonalInfo{
			FullName:     "Ana García",
			Email:        "ana@example.com",
			Phone:        "+34 600 123 456",
			PortfolioURL: "https://ana.dev",
		},
		Experience: application.Experience{
			CurrentRole:       "Desarrollador",
			YearsOfExperience: application.Years(5),
			Skills:            []string{"React"},
			Company:           "Mi Empresa",
		},
	}
}

// PersonalOnlyState returns an application whose first section is complete
// and whose experience section is empty.
func PersonalOnlyState() application.State {
	s := ValidState()
	s.Experience = application.Experience{}
	return s
}

// EmptyState returns an application with no fields entered.
func EmptyState() application.State {
	return application.State{}
}

// SlotJSON is a storage file holding ValidState under "formData".
var SlotJSON = `{
  "formData": "{\"personalInfo\":{\"fullName\":\"Ana García\",\"email\":\"ana@example.com\",\"phone\":\"+34 600 123 456\",\"portfolioUrl\":\"https://ana.dev\"},\"experience\":{\"currentRole\":\"Desarrollador\",\"yearsOfExperience\":5,\"skills\":[\"React\"],\"company\":\"Mi Empresa\"}}"
}`

// CorruptSlotJSON is a storage file that is not valid JSON.
var CorruptSlotJSON = `{"formData": `
