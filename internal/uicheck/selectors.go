package uicheck

import (
	"fmt"
	"strings"
)

// xpathLiteral quotes s for use inside an XPath expression. XPath 1.0 has
// no escape syntax, so strings containing both quote characters are built
// with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, `'`)
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// buttonXPath matches buttons whose visible text contains label, the same
// element the application wires its actions to.
func buttonXPath(label string) string {
	return fmt.Sprintf("//button[contains(normalize-space(.), %s)]", xpathLiteral(label))
}

// textXPath matches elements with a direct text node containing text.
// Matching on direct text nodes keeps ancestors of the labeled element
// out of the result set.
func textXPath(text string) string {
	return fmt.Sprintf("//*[text()[contains(., %s)]]", xpathLiteral(text))
}

// fieldSelector builds the CSS selector for a data-panel field by its
// field-path identifier, e.g. "baseline.sampleSize.totalN".
func fieldSelector(fieldPath string) string {
	return fmt.Sprintf(`[id="field-%s"]`, fieldPath)
}
