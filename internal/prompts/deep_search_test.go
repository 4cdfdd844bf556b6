package prompts

import (
	"strings"
	"testing"

	"deepjobsearch/internal/server/ports"
)

func TestDeepSearch(t *testing.T) {
	prompt := DeepSearch(
		map[string]any{"skills": []string{"go", "distributed systems"}},
		ports.Preferences{
			Location:       "Berlin",
			CompanySize:    "Startup",
			RoleType:       "Backend Engineer",
			AdditionalInfo: "visa sponsorship needed",
		},
	)

	for _, want := range []string{
		"Location: Berlin",
		"Company Size: Startup",
		"Role Type: Backend Engineer",
		"Additional Info: visa sponsorship needed",
		"distributed systems",
		`"followup_questions"`,
		`"match_score"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestDeepSearch_Defaults(t *testing.T) {
	prompt := DeepSearch(nil, ports.Preferences{})

	for _, want := range []string{
		"Location: Any",
		"Company Size: Any",
		"Role Type: Any",
		"Additional Info: None",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing default %q", want)
		}
	}
}

func TestResumeSummary(t *testing.T) {
	prompt := ResumeSummary("Jane Doe, 5 years of Go experience")

	if !strings.Contains(prompt, "Jane Doe, 5 years of Go experience") {
		t.Error("Prompt should embed the resume text")
	}
	for _, field := range []string{`"skills"`, `"experience"`, `"education"`, `"summary"`} {
		if !strings.Contains(prompt, field) {
			t.Errorf("Prompt missing schema field %s", field)
		}
	}
}
