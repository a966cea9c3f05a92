package uicheck

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
)

// ConsoleLog is an append-only ordered capture of browser console output
// and page exceptions for one session. Entries are formatted as
// "[level] message" to keep substring queries simple.
type ConsoleLog struct {
	mu      sync.Mutex
	entries []string
}

// Append records a console entry.
func (c *ConsoleLog) Append(entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

// Messages returns a copy of all captured entries in arrival order.
func (c *ConsoleLog) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether any captured entry contains substr,
// case-insensitively, and returns the last matching entry.
func (c *ConsoleLog) Contains(substr string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	needle := strings.ToLower(substr)
	for i := len(c.entries) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(c.entries[i]), needle) {
			return c.entries[i], true
		}
	}
	return "", false
}

// Errors returns all entries recorded at error level or thrown as page
// exceptions.
func (c *ConsoleLog) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, entry := range c.entries {
		if strings.HasPrefix(entry, "[error]") || strings.HasPrefix(entry, "[pageerror]") {
			out = append(out, entry)
		}
	}
	return out
}

// recordConsoleEvent converts a DevTools console API event into a log entry.
func (c *ConsoleLog) recordConsoleEvent(ev *runtime.EventConsoleAPICalled) {
	parts := make([]string, 0, len(ev.Args))
	for _, arg := range ev.Args {
		parts = append(parts, formatRemoteObject(arg))
	}
	c.Append(fmt.Sprintf("[%s] %s", ev.Type, strings.Join(parts, " ")))
}

// recordException converts a thrown page exception into a log entry.
func (c *ConsoleLog) recordException(ev *runtime.EventExceptionThrown) {
	detail := ev.ExceptionDetails.Text
	if ev.ExceptionDetails.Exception != nil && ev.ExceptionDetails.Exception.Description != "" {
		detail = ev.ExceptionDetails.Exception.Description
	}
	c.Append(fmt.Sprintf("[pageerror] %s", detail))
}

// formatRemoteObject renders a console argument as plain text. String
// values arrive JSON-encoded; other values fall back to their description
// or raw JSON.
func formatRemoteObject(obj *runtime.RemoteObject) string {
	if obj == nil {
		return ""
	}
	if len(obj.Value) > 0 {
		raw := string(obj.Value)
		if unquoted, err := strconv.Unquote(raw); err == nil {
			return unquoted
		}
		return raw
	}
	if obj.Description != "" {
		return obj.Description
	}
	return string(obj.Type)
}
