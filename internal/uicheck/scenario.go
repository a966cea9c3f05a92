package uicheck

import (
	"fmt"
	"path/filepath"
	"time"
)

// Env carries the per-run parameters shared by all scenarios.
type Env struct {
	AppURL        string
	PDFPath       string
	ScreenshotDir string
	StepTimeout   time.Duration
}

// ShotPath returns the path for a named screenshot artifact.
func (e Env) ShotPath(name string) string {
	return filepath.Join(e.ScreenshotDir, name+".png")
}

// Scenario is one self-contained regression recipe against a running
// application instance.
type Scenario struct {
	Name        string
	Description string
	NeedsPDF    bool

	// Run drives the session and records assertions on the report.
	// A returned error means the run infrastructure broke (browser gone,
	// navigation impossible); assertion outcomes belong on the report.
	Run func(s *Session, env Env, r *Report) error
}

var (
	registry      = map[string]Scenario{}
	registryOrder []string
)

// register adds a scenario to the registry. Duplicate names are a
// programming error.
func register(sc Scenario) {
	if _, dup := registry[sc.Name]; dup {
		panic(fmt.Sprintf("uicheck: duplicate scenario %q", sc.Name))
	}
	registry[sc.Name] = sc
	registryOrder = append(registryOrder, sc.Name)
}

// Lookup returns the named scenario.
func Lookup(name string) (Scenario, bool) {
	sc, ok := registry[name]
	return sc, ok
}

// All returns every registered scenario in registration order.
func All() []Scenario {
	out := make([]Scenario, 0, len(registryOrder))
	for _, name := range registryOrder {
		out = append(out, registry[name])
	}
	return out
}

// RunScenario executes one scenario on the session and returns its report.
func RunScenario(s *Session, sc Scenario, env Env) (*Report, error) {
	if sc.NeedsPDF && env.PDFPath == "" {
		return nil, fmt.Errorf("uicheck: scenario %q requires a PDF path", sc.Name)
	}

	r := NewReport(sc.Name)
	if err := sc.Run(s, env, r); err != nil {
		return r, fmt.Errorf("uicheck: scenario %q: %w", sc.Name, err)
	}
	return r, nil
}
