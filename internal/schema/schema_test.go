package schema

import (
	"testing"

	"github.com/npratt/applyform/internal/application"
)

func validState() application.State {
	return application.State{
		PersonalInfo: application.PersonalInfo{
			FullName: "Ana Pérez",
			Email:    "ana@example.com",
			Phone:    "+34 600 000 000",
		},
		Experience: application.Experience{
			CurrentRole:       "Desarrollador",
			YearsOfExperience: application.Years(5),
			Skills:            []string{"React"},
			Company:           "Mi Empresa",
		},
	}
}

func TestValidatePersonalInfo_Empty(t *testing.T) {
	errs := ValidatePersonalInfo(application.PersonalInfo{})

	want := map[application.FieldPath]string{
		application.FieldFullName: MsgFullNameRequired,
		application.FieldEmail:    MsgEmailRequired,
		application.FieldPhone:    MsgPhoneRequired,
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for path, msg := range want {
		if errs[path] != msg {
			t.Errorf("errs[%s] = %q, want %q", path, errs[path], msg)
		}
	}
	if _, ok := errs[application.FieldPortfolioURL]; ok {
		t.Error("portfolioUrl is optional and must not produce an error")
	}
}

func TestValidateExperience_Empty(t *testing.T) {
	errs := ValidateExperience(application.Experience{})

	want := map[application.FieldPath]string{
		application.FieldCurrentRole:       MsgCurrentRoleRequired,
		application.FieldYearsOfExperience: MsgYearsRequired,
		application.FieldSkills:            MsgSkillsRequired,
		application.FieldCompany:           MsgCompanyRequired,
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for path, msg := range want {
		if errs[path] != msg {
			t.Errorf("errs[%s] = %q, want %q", path, errs[path], msg)
		}
	}
}

func TestValidateYearsOfExperience(t *testing.T) {
	tests := []struct {
		name  string
		years *int
		want  string
	}{
		{"absent", nil, MsgYearsRequired},
		{"zero", application.Years(0), MsgYearsMin},
		{"negative", application.Years(-2), MsgYearsMin},
		{"one", application.Years(1), ""},
		{"many", application.Years(40), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			s.Experience.YearsOfExperience = tt.years
			if got := ValidateField(s, application.FieldYearsOfExperience); got != tt.want {
				t.Errorf("ValidateField(years) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSkills(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		valid  bool
	}{
		{"nil", nil, false},
		{"only blanks", []string{"", "  "}, false},
		{"first blank second set", []string{"", "Go"}, true},
		{"one", []string{"React"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			s.Experience.Skills = tt.skills
			got := ValidateField(s, application.FieldSkills)
			if (got == "") != tt.valid {
				t.Errorf("ValidateField(skills=%v) = %q, want valid=%v", tt.skills, got, tt.valid)
			}
		})
	}
}

func TestValidateAll_Valid(t *testing.T) {
	errs := ValidateAll(validState())
	if !errs.Valid() {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_WhitespaceIsEmpty(t *testing.T) {
	s := validState()
	s.PersonalInfo.FullName = "   "
	errs := ValidateSection(s, application.SectionPersonalInfo)
	if errs[application.FieldFullName] != MsgFullNameRequired {
		t.Errorf("whitespace-only name should be rejected, got %v", errs)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	s := application.State{PersonalInfo: application.PersonalInfo{FullName: "Ana"}}

	first := ValidateSection(s, application.SectionPersonalInfo)
	second := ValidateSection(s, application.SectionPersonalInfo)

	if len(first) != len(second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	for path, msg := range first {
		if second[path] != msg {
			t.Errorf("errs[%s]: %q vs %q", path, msg, second[path])
		}
	}
	if s.PersonalInfo.FullName != "Ana" {
		t.Error("validation mutated its input")
	}
}

func TestValidateField_Unknown(t *testing.T) {
	if got := ValidateField(application.State{}, "experience.salary"); got != "" {
		t.Errorf("unknown field should be valid, got %q", got)
	}
}

func TestErrorsFields_Sorted(t *testing.T) {
	errs := ValidateAll(application.State{})
	fields := errs.Fields()
	for i := 1; i < len(fields); i++ {
		if fields[i-1] > fields[i] {
			t.Fatalf("Fields() not sorted: %v", fields)
		}
	}
	if len(fields) != 7 {
		t.Errorf("expected 7 invalid fields on empty state, got %d", len(fields))
	}
}
