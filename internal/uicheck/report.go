package uicheck

import (
	"fmt"
	"strings"
)

// StepStatus is the outcome of one scenario step.
type StepStatus string

const (
	// StatusPass marks a step whose assertion held.
	StatusPass StepStatus = "pass"
	// StatusFail marks a step whose assertion did not hold. A failed
	// step fails the whole scenario; there is no warning tier that lets
	// a broken page produce a passing run.
	StatusFail StepStatus = "fail"
)

// Step is one recorded scenario step.
type Step struct {
	Name   string
	Status StepStatus
	Detail string
}

// Report collects the ordered step results of one scenario run.
type Report struct {
	Scenario string
	Steps    []Step
}

// NewReport creates an empty report for the named scenario.
func NewReport(scenario string) *Report {
	return &Report{Scenario: scenario}
}

// Pass records a passing step.
func (r *Report) Pass(name, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Status: StatusPass, Detail: detail})
}

// Passf records a passing step with a formatted detail.
func (r *Report) Passf(name, format string, args ...interface{}) {
	r.Pass(name, fmt.Sprintf(format, args...))
}

// Fail records a failing step.
func (r *Report) Fail(name, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Status: StatusFail, Detail: detail})
}

// Failf records a failing step with a formatted detail.
func (r *Report) Failf(name, format string, args ...interface{}) {
	r.Fail(name, fmt.Sprintf(format, args...))
}

// Check records a step as passing when err is nil and failing otherwise.
// It returns true when the step passed.
func (r *Report) Check(name string, err error) bool {
	if err != nil {
		r.Fail(name, err.Error())
		return false
	}
	r.Pass(name, "")
	return true
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, step := range r.Steps {
		if step.Status == StatusFail {
			return true
		}
	}
	return false
}

// String renders the report as readable text, one line per step.
func (r *Report) String() string {
	var b strings.Builder
	verdict := "PASS"
	if r.Failed() {
		verdict = "FAIL"
	}
	fmt.Fprintf(&b, "%s: %s\n", r.Scenario, verdict)
	for _, step := range r.Steps {
		marker := "ok"
		if step.Status == StatusFail {
			marker = "FAIL"
		}
		if step.Detail != "" {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", marker, step.Name, step.Detail)
		} else {
			fmt.Fprintf(&b, "  [%s] %s\n", marker, step.Name)
		}
	}
	return b.String()
}
