package uicheck

import (
	"fmt"
	"sync"
	"testing"
)

func TestConsoleLogMessages(t *testing.T) {
	var log ConsoleLog

	if got := log.Messages(); len(got) != 0 {
		t.Errorf("Expected no messages in a fresh log, got %v", got)
	}

	log.Append("[log] first")
	log.Append("[warning] second")

	got := log.Messages()
	if len(got) != 2 || got[0] != "[log] first" || got[1] != "[warning] second" {
		t.Errorf("Messages() = %v, want entries in arrival order", got)
	}

	// Returned slice is a copy; mutating it must not affect the log.
	got[0] = "mutated"
	if log.Messages()[0] != "[log] first" {
		t.Error("Expected Messages() to return an independent copy")
	}
}

func TestConsoleLogContains(t *testing.T) {
	var log ConsoleLog
	log.Append("[log] Starting text index build")
	log.Append("[log] Built 37 precise highlights")
	log.Append("[log] text index ready, 12 pages")

	entry, ok := log.Contains("TEXT INDEX")
	if !ok {
		t.Fatal("Expected a case-insensitive match for 'TEXT INDEX'")
	}
	// Contains returns the most recent match.
	if entry != "[log] text index ready, 12 pages" {
		t.Errorf("Contains() returned %q, want the last matching entry", entry)
	}

	if _, ok := log.Contains("no such marker"); ok {
		t.Error("Expected no match for an absent substring")
	}
}

func TestConsoleLogErrors(t *testing.T) {
	var log ConsoleLog
	log.Append("[log] fine")
	log.Append("[error] request failed with status 500")
	log.Append("[warning] slow response")
	log.Append("[pageerror] TypeError: x is undefined")

	errs := log.Errors()
	if len(errs) != 2 {
		t.Fatalf("Expected 2 error entries, got %d: %v", len(errs), errs)
	}
	if errs[0] != "[error] request failed with status 500" {
		t.Errorf("Unexpected first error entry: %q", errs[0])
	}
	if errs[1] != "[pageerror] TypeError: x is undefined" {
		t.Errorf("Unexpected second error entry: %q", errs[1])
	}
}

func TestConsoleLogConcurrentAppend(t *testing.T) {
	var log ConsoleLog
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log.Append(fmt.Sprintf("[log] entry %d", n))
		}(i)
	}
	wg.Wait()

	if got := len(log.Messages()); got != 10 {
		t.Errorf("Expected 10 entries after concurrent appends, got %d", got)
	}
}
