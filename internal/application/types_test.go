package application

import "testing"

func TestFieldPathParts(t *testing.T) {
	tests := []struct {
		path    FieldPath
		section Section
		name    string
	}{
		{FieldFullName, SectionPersonalInfo, "fullName"},
		{FieldPortfolioURL, SectionPersonalInfo, "portfolioUrl"},
		{FieldYearsOfExperience, SectionExperience, "yearsOfExperience"},
		{FieldSkills, SectionExperience, "skills"},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			if got := tt.path.Section(); got != tt.section {
				t.Errorf("Section() = %q, want %q", got, tt.section)
			}
			if got := tt.path.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "React", []string{"React"}},
		{"comma separated", "React, TypeScript,Go", []string{"React", "TypeScript", "Go"}},
		{"blank entries dropped", " , React,, ", []string{"React"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSkills(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSkills(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSkills(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStateClone(t *testing.T) {
	orig := State{Experience: Experience{YearsOfExperience: Years(3), Skills: []string{"Go"}}}
	clone := orig.Clone()

	*clone.Experience.YearsOfExperience = 9
	clone.Experience.Skills[0] = "Rust"

	if *orig.Experience.YearsOfExperience != 3 {
		t.Error("clone shares years pointer with original")
	}
	if orig.Experience.Skills[0] != "Go" {
		t.Error("clone shares skills slice with original")
	}
}

func TestStateIsZero(t *testing.T) {
	if !(State{}).IsZero() {
		t.Error("empty state should be zero")
	}
	s := State{Experience: Experience{YearsOfExperience: Years(0)}}
	if s.IsZero() {
		t.Error("state with entered years should not be zero")
	}
}

func TestStepSection(t *testing.T) {
	if s, ok := StepSection(StepPersonalInfo); !ok || s != SectionPersonalInfo {
		t.Errorf("StepSection(0) = %q, %v", s, ok)
	}
	if s, ok := StepSection(StepExperience); !ok || s != SectionExperience {
		t.Errorf("StepSection(1) = %q, %v", s, ok)
	}
	if _, ok := StepSection(StepReview); ok {
		t.Error("review step should have no section")
	}
}
