package uicheck

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// UI strings the application exposes. These are the implicit markup
// contract of the app under test; if its wording changes, scenarios fail.
const (
	extractButtonLabel = "Automate Full Agentic Extraction"
	demoToggleLabel    = "Demo Mode"
	demoButtonLabel    = "Run Demo Extraction"
	sourceTagPrefix    = "P."
	firstTabLabel      = "Study ID"
	totalNFieldPath    = "baseline.sampleSize.totalN"
)

// resultTabs are the data-panel tabs in display order.
var resultTabs = []string{
	"Study ID", "PICO-T", "Baseline", "Imaging",
	"Interventions", "Arms", "Outcomes", "Complications",
}

// aiBadgePattern matches the "<n> AI" annotation-count badge.
var aiBadgePattern = regexp.MustCompile(`\d+ AI`)

// Settle times for operations with no completion signal.
const (
	settleLoad    = 2 * time.Second
	settleUpload  = 3 * time.Second
	settleExtract = 3 * time.Second
	settleClick   = 500 * time.Millisecond
	settleTab     = time.Second
)

func init() {
	register(Scenario{
		Name:        "smoke",
		Description: "Load the app and check the page renders without console errors",
		Run:         runSmoke,
	})
	register(Scenario{
		Name:        "live-extraction",
		Description: "Upload a PDF, run the live extraction, and walk the result tabs",
		NeedsPDF:    true,
		Run:         runLiveExtraction,
	})
	register(Scenario{
		Name:        "demo-walkthrough",
		Description: "Run the canned demo extraction and exercise bidirectional navigation",
		NeedsPDF:    true,
		Run:         runDemoWalkthrough,
	})
	register(Scenario{
		Name:        "highlight-precision",
		Description: "Verify search-based highlighting produces precise, linkable highlights",
		NeedsPDF:    true,
		Run:         runHighlightPrecision,
	})
	register(Scenario{
		Name:        "highlight-audit",
		Description: "Census of highlights per rendered page with sampled span text",
		NeedsPDF:    true,
		Run:         runHighlightAudit,
	})
	register(Scenario{
		Name:        "console-audit",
		Description: "Collect all console output and page errors during load",
		Run:         runConsoleAudit,
	})
}

// loadApp navigates to the application and lets the initial render settle.
func loadApp(s *Session, env Env, r *Report) error {
	if err := s.Navigate(env.AppURL); err != nil {
		return err
	}
	if err := s.Settle(settleLoad); err != nil {
		return err
	}
	r.Pass("load app", env.AppURL)
	return nil
}

// uploadPDF uploads the scenario PDF and waits for rendering and
// text-index building.
func uploadPDF(s *Session, env Env, r *Report) error {
	if err := s.UploadPDF(env.PDFPath); err != nil {
		return err
	}
	if err := s.Settle(settleUpload); err != nil {
		return err
	}
	r.Pass("upload PDF", env.PDFPath)
	return nil
}

// runDemoExtraction enables demo mode and triggers the canned extraction.
func runDemoExtraction(s *Session, r *Report) error {
	if err := s.ClickText(demoToggleLabel); err != nil {
		r.Fail("enable demo mode", err.Error())
		return nil
	}
	if err := s.Settle(settleClick); err != nil {
		return err
	}
	r.Pass("enable demo mode", "")

	if err := s.ClickButton(demoButtonLabel); err != nil {
		r.Fail("run demo extraction", err.Error())
		return nil
	}
	if err := s.Settle(settleExtract); err != nil {
		return err
	}
	r.Pass("run demo extraction", "")
	return nil
}

func runSmoke(s *Session, env Env, r *Report) error {
	if err := loadApp(s, env, r); err != nil {
		return err
	}

	title, err := s.Title()
	if err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		r.Fail("page title", "empty title")
	} else {
		r.Pass("page title", title)
	}

	if errs := s.Console().Errors(); len(errs) > 0 {
		r.Failf("console clean", "%d console error(s), first: %s", len(errs), errs[0])
	} else {
		r.Pass("console clean", "")
	}

	return s.Screenshot(env.ShotPath("smoke_loaded"))
}

func runLiveExtraction(s *Session, env Env, r *Report) error {
	if err := loadApp(s, env, r); err != nil {
		return err
	}
	if err := uploadPDF(s, env, r); err != nil {
		return err
	}
	if err := s.Screenshot(env.ShotPath("live_01_uploaded")); err != nil {
		return err
	}

	if err := s.ClickButton(extractButtonLabel); err != nil {
		r.Fail("start extraction", err.Error())
		return nil
	}
	r.Pass("start extraction", "")

	// The live backend takes anywhere from seconds to minutes; a bounded
	// wait that expires is a failure, not a shrug.
	if err := s.WaitButton(firstTabLabel, env.StepTimeout); err != nil {
		_ = s.Screenshot(env.ShotPath("live_02_timeout"))
		r.Failf("extraction complete", "result tabs never appeared: %v", err)
		return nil
	}
	r.Pass("extraction complete", "")
	if err := s.Screenshot(env.ShotPath("live_03_results")); err != nil {
		return err
	}

	walkTabs(s, r, []string{"Study ID", "Baseline", "Outcomes"})

	clickSourceTag(s, env, r, "live_04_source_clicked")
	return nil
}

func runDemoWalkthrough(s *Session, env Env, r *Report) error {
	if err := loadApp(s, env, r); err != nil {
		return err
	}
	if err := uploadPDF(s, env, r); err != nil {
		return err
	}
	if err := runDemoExtraction(s, r); err != nil {
		return err
	}
	if err := s.Screenshot(env.ShotPath("demo_01_results")); err != nil {
		return err
	}

	walkTabs(s, r, resultTabs)

	// Panel to PDF: a source tag scrolls the PDF pane to its evidence.
	returnToFirstTab(s, r)
	clickSourceTag(s, env, r, "demo_02_panel_to_pdf")

	// PDF to panel: clicking a painted highlight selects its field.
	count, err := s.Count(`span[style*="background"]`)
	if err != nil {
		return err
	}
	if count == 0 {
		r.Fail("highlights present", "no highlighted spans in PDF pane")
	} else {
		r.Passf("highlights present", "%d highlighted spans", count)
		if err := s.ClickSelector(`span[style*="background"]`); err != nil {
			r.Fail("click highlight", err.Error())
		} else {
			_ = s.Settle(settleClick)
			r.Pass("click highlight", "")
		}
	}
	if err := s.Screenshot(env.ShotPath("demo_03_pdf_to_panel")); err != nil {
		return err
	}

	// Annotation badges.
	verified, err := s.CountByXPath(textXPath("Verified"))
	if err != nil {
		return err
	}
	if verified == 0 {
		r.Fail("verified badge", "no Verified badge visible")
	} else {
		r.Passf("verified badge", "%d element(s)", verified)
	}

	html, err := s.OuterHTML()
	if err != nil {
		return err
	}
	if aiBadgePattern.MatchString(html) {
		r.Pass("ai count badge", aiBadgePattern.FindString(html))
	} else {
		r.Fail("ai count badge", "no AI annotation count badge found")
	}

	return s.FullScreenshot(env.ShotPath("demo_04_final"))
}

func runHighlightPrecision(s *Session, env Env, r *Report) error {
	if err := loadApp(s, env, r); err != nil {
		return err
	}
	if err := uploadPDF(s, env, r); err != nil {
		return err
	}

	if entry, ok := s.Console().Contains("text index"); ok {
		r.Pass("text index built", entry)
	} else {
		r.Fail("text index built", "no text index message on the console")
	}

	if err := runDemoExtraction(s, r); err != nil {
		return err
	}

	if entry, ok := s.Console().Contains("precise highlights"); ok {
		r.Pass("precise highlights applied", entry)
	} else {
		r.Fail("precise highlights applied", "no precise highlights message on the console")
	}

	html, err := s.OuterHTML()
	if err != nil {
		return err
	}
	pages, err := CensusByPage(html)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		r.Fail("page one highlights", "no rendered pages found")
	} else {
		first := pages[0]
		r.Passf("page one highlights", "%d verified + %d AI-suggested",
			first.ByKind[HighlightVerified], first.ByKind[HighlightSuggested])
		if first.Total == 0 {
			r.Fail("page one highlighted", "first page has no highlights")
		}
	}

	// Field-to-highlight linking.
	if err := s.ClickText("Baseline"); err != nil {
		r.Fail("open baseline tab", err.Error())
		return nil
	}
	_ = s.Settle(settleClick)

	if err := s.ClickSelector(fieldSelector(totalNFieldPath)); err != nil {
		r.Failf("click total-n field", "field %s: %v", totalNFieldPath, err)
		return nil
	}
	_ = s.Settle(settleClick)
	r.Pass("click total-n field", "")

	focused, err := s.Count(fmt.Sprintf(`span[style*=%q]`, HighlightFocused.RGB()))
	if err != nil {
		return err
	}
	if focused == 0 {
		r.Fail("focused highlight", "no focused highlight after field click")
	} else {
		r.Passf("focused highlight", "%d focused span(s)", focused)
	}

	return s.Screenshot(env.ShotPath("precision_final"))
}

func runHighlightAudit(s *Session, env Env, r *Report) error {
	if err := loadApp(s, env, r); err != nil {
		return err
	}
	if err := uploadPDF(s, env, r); err != nil {
		return err
	}
	if err := runDemoExtraction(s, r); err != nil {
		return err
	}

	html, err := s.OuterHTML()
	if err != nil {
		return err
	}
	pages, err := CensusByPage(html)
	if err != nil {
		return err
	}

	total := 0
	for _, page := range pages {
		total += page.Total
		if page.Total == 0 {
			continue
		}
		var samples []string
		for _, h := range page.Samples {
			samples = append(samples, fmt.Sprintf("%q -> %s", truncate(h.Text, 40), truncate(h.Title, 30)))
		}
		r.Passf(fmt.Sprintf("page %d", page.Page), "%d highlights: %s",
			page.Total, strings.Join(samples, "; "))
	}

	if total == 0 {
		r.Fail("highlight census", "no highlights on any page")
	} else {
		r.Passf("highlight census", "%d highlights across %d pages", total, len(pages))
	}

	return nil
}

func runConsoleAudit(s *Session, env Env, r *Report) error {
	if err := s.Navigate(env.AppURL); err != nil {
		return err
	}
	if err := s.Settle(5 * time.Second); err != nil {
		return err
	}

	messages := s.Console().Messages()
	r.Passf("console captured", "%d message(s)", len(messages))
	for i, msg := range messages {
		r.Pass(fmt.Sprintf("console %02d", i+1), truncate(msg, 200))
	}

	if errs := s.Console().Errors(); len(errs) > 0 {
		r.Failf("page errors", "%d error(s), first: %s", len(errs), errs[0])
	} else {
		r.Pass("page errors", "none")
	}

	return nil
}

// returnToFirstTab reopens the first data-panel tab so source tags are in
// view. A failed click is a failed step, not a silent skip.
func returnToFirstTab(s *Session, r *Report) {
	if err := s.ClickButton(firstTabLabel); err != nil {
		r.Failf("return to first tab", "not clickable: %v", err)
		return
	}
	_ = s.Settle(settleClick)
	r.Pass("return to first tab", "")
}

// walkTabs clicks through the named tabs, recording each as its own step.
func walkTabs(s *Session, r *Report, tabs []string) {
	for _, tab := range tabs {
		if err := s.ClickButton(tab); err != nil {
			r.Failf("tab "+tab, "not clickable: %v", err)
			continue
		}
		_ = s.Settle(settleTab)
		r.Pass("tab "+tab, "")
	}
}

// clickSourceTag clicks the first page-source tag ("P.<n>") in the data
// panel and screenshots the result.
func clickSourceTag(s *Session, env Env, r *Report, shot string) {
	count, err := s.CountByXPath(buttonXPath(sourceTagPrefix))
	if err != nil {
		r.Fail("source tags", err.Error())
		return
	}
	if count == 0 {
		r.Fail("source tags", "no page-source tags in panel")
		return
	}
	r.Passf("source tags", "%d tag(s)", count)

	if err := s.ClickButton(sourceTagPrefix); err != nil {
		r.Fail("click source tag", err.Error())
		return
	}
	_ = s.Settle(settleTab)
	r.Pass("click source tag", "")
	_ = s.Screenshot(env.ShotPath(shot))
}

// truncate shortens s to at most n runes for report details. Slicing on
// runes keeps multi-byte characters intact.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
