package prompts

import (
	"testing"
	"time"
)

func TestSubstituteReplacesKnownTokens(t *testing.T) {
	got := Substitute("Hello {jobTitle}, today is {date}", Vars{JobTitle: "Engineer", Date: "01/01/2025"})
	if got != "Hello Engineer, today is 01/01/2025" {
		t.Fatalf("unexpected substitution: %q", got)
	}
}

func TestSubstituteWithoutTokensIsIdentity(t *testing.T) {
	body := "Write a letter. Keep it {short} and {{plain}}."
	vars := Vars{JobTitle: "x", JobDescription: "y", ResumeText: "z", Date: "01/01/2025"}
	if got := Substitute(body, vars); got != body {
		t.Fatalf("expected body unchanged, got %q", got)
	}
}

func TestSubstituteReplacesEveryOccurrence(t *testing.T) {
	got := Substitute("{jobTitle}/{jobTitle}/{resumeText}/{jobDescription}", Vars{
		JobTitle:       "SRE",
		JobDescription: "on call",
		ResumeText:     "k8s",
	})
	if got != "SRE/SRE/k8s/on call" {
		t.Fatalf("unexpected substitution: %q", got)
	}
}

func TestSubstituteDoesNotRescanValues(t *testing.T) {
	got := Substitute("{resumeText} {date}", Vars{ResumeText: "I wrote {date} and {jobTitle}", JobTitle: "X", Date: "02/03/2024"})
	if got != "I wrote {date} and {jobTitle} 02/03/2024" {
		t.Fatalf("inserted value was rescanned: %q", got)
	}
}

func TestNewVarsFormatsDate(t *testing.T) {
	now := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.UTC)
	v := NewVars("Engineer", "Build", "C++", now)
	if v.Date != "03/07/2025" {
		t.Fatalf("expected 03/07/2025, got %q", v.Date)
	}
	if v.JobTitle != "Engineer" || v.JobDescription != "Build" || v.ResumeText != "C++" {
		t.Fatalf("unexpected vars: %+v", v)
	}
}
