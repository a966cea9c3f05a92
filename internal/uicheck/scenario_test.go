package uicheck

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEnvShotPath(t *testing.T) {
	env := Env{ScreenshotDir: "/tmp/shots"}

	got := env.ShotPath("demo-final")
	want := filepath.Join("/tmp/shots", "demo-final.png")
	if got != want {
		t.Errorf("ShotPath() = %q, want %q", got, want)
	}
}

func TestRegisteredScenarios(t *testing.T) {
	wantOrder := []string{
		"smoke",
		"live-extraction",
		"demo-walkthrough",
		"highlight-precision",
		"highlight-audit",
		"console-audit",
	}

	all := All()
	if len(all) != len(wantOrder) {
		t.Fatalf("Expected %d registered scenarios, got %d", len(wantOrder), len(all))
	}
	for i, name := range wantOrder {
		if all[i].Name != name {
			t.Errorf("All()[%d].Name = %q, want %q", i, all[i].Name, name)
		}
		if _, ok := Lookup(name); !ok {
			t.Errorf("Expected Lookup(%q) to succeed", name)
		}
		if all[i].Run == nil {
			t.Errorf("Scenario %q has no Run function", name)
		}
		if all[i].Description == "" {
			t.Errorf("Scenario %q has no description", name)
		}
	}

	if _, ok := Lookup("nonexistent"); ok {
		t.Error("Expected Lookup of an unknown scenario to fail")
	}
}

func TestRunScenarioRequiresPDF(t *testing.T) {
	sc := Scenario{
		Name:     "needs-pdf",
		NeedsPDF: true,
		Run: func(*Session, Env, *Report) error {
			t.Fatal("Run must not be called without a PDF path")
			return nil
		},
	}

	_, err := RunScenario(nil, sc, Env{AppURL: "http://localhost:3001"})
	if err == nil {
		t.Fatal("Expected an error when the scenario needs a PDF and none is set")
	}
	if !strings.Contains(err.Error(), "requires a PDF path") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRunScenarioRecordsReport(t *testing.T) {
	sc := Scenario{
		Name: "fake",
		Run: func(_ *Session, env Env, r *Report) error {
			r.Pass("step one", env.AppURL)
			return nil
		},
	}

	report, err := RunScenario(nil, sc, Env{AppURL: "http://example.test", StepTimeout: time.Second})
	if err != nil {
		t.Fatalf("RunScenario() unexpected error: %v", err)
	}
	if report.Scenario != "fake" {
		t.Errorf("Expected report scenario 'fake', got %q", report.Scenario)
	}
	if len(report.Steps) != 1 || report.Steps[0].Detail != "http://example.test" {
		t.Errorf("Unexpected recorded steps: %+v", report.Steps)
	}
	if report.Failed() {
		t.Error("Expected passing report")
	}
}

func TestRunScenarioWrapsRunError(t *testing.T) {
	broken := errors.New("browser gone")
	sc := Scenario{
		Name: "broken",
		Run: func(_ *Session, _ Env, r *Report) error {
			r.Pass("partial", "")
			return broken
		},
	}

	report, err := RunScenario(nil, sc, Env{})
	if err == nil {
		t.Fatal("Expected the run error to propagate")
	}
	if !errors.Is(err, broken) {
		t.Errorf("Expected wrapped error to match the original, got %v", err)
	}
	if report == nil || len(report.Steps) != 1 {
		t.Error("Expected the partial report to be returned alongside the error")
	}
}
