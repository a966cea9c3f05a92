// Command uicheck runs browser-driven regression scenarios against a
// running Clinical Data Extractor instance.
//
// Each scenario launches a fresh browser session, drives the app through
// an upload/extraction flow, and records pass/fail steps. Any failed step
// fails the run.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/evidencelab/clinextract/internal/config"
	"github.com/evidencelab/clinextract/internal/uicheck"
)

func main() {
	scenarios := pflag.StringSlice("scenario", nil, "Scenario(s) to run (default: all)")
	list := pflag.Bool("list", false, "List available scenarios and exit")
	visible := pflag.Bool("visible", false, "Run the browser with a visible window")
	noSandbox := pflag.Bool("no-sandbox", false, "Disable the Chrome sandbox (required when running as root)")
	autoDownload := pflag.Bool("auto-download", false, "Download a Chromium binary if none is installed")

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if cfg.IsDebug() {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *list {
		for _, sc := range uicheck.All() {
			fmt.Printf("%-20s %s\n", sc.Name, sc.Description)
		}
		return
	}

	selected, err := selectScenarios(*scenarios)
	if err != nil {
		logger.Fatal().Err(err).Msg("scenario selection failed")
	}

	env := uicheck.Env{
		AppURL:        cfg.AppURL,
		PDFPath:       cfg.PDFPath,
		ScreenshotDir: cfg.ScreenshotDir,
		StepTimeout:   cfg.StepTimeout,
	}

	opts := []uicheck.Option{uicheck.WithNavTimeout(cfg.NavTimeout)}
	if *visible || !cfg.Headless {
		opts = append(opts, uicheck.WithVisible())
	}
	if *noSandbox {
		opts = append(opts, uicheck.WithNoSandbox())
	}
	if *autoDownload {
		opts = append(opts, uicheck.WithAutoDownload())
	}

	failed := false
	for _, sc := range selected {
		report, err := runOne(logger, sc, env, opts)
		if err != nil {
			logger.Error().Err(err).Str("scenario", sc.Name).Msg("scenario aborted")
			failed = true
			continue
		}

		fmt.Print(report.String())
		if report.Failed() {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// runOne runs a single scenario in its own browser session. Each scenario
// gets a fresh session so state never leaks between recipes.
func runOne(logger zerolog.Logger, sc uicheck.Scenario, env uicheck.Env, opts []uicheck.Option) (*uicheck.Report, error) {
	logger.Info().Str("scenario", sc.Name).Str("url", env.AppURL).Msg("starting scenario")

	session, err := uicheck.NewSession(opts...)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	report, err := uicheck.RunScenario(session, sc, env)
	if err != nil {
		return report, err
	}

	logger.Info().
		Str("scenario", sc.Name).
		Bool("failed", report.Failed()).
		Int("steps", len(report.Steps)).
		Msg("scenario finished")
	return report, nil
}

// selectScenarios resolves the requested scenario names, defaulting to
// every registered scenario.
func selectScenarios(names []string) ([]uicheck.Scenario, error) {
	if len(names) == 0 {
		return uicheck.All(), nil
	}

	selected := make([]uicheck.Scenario, 0, len(names))
	for _, name := range names {
		sc, ok := uicheck.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, sc)
	}
	return selected, nil
}
