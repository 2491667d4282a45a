// Package template substitutes {{UPPER_SNAKE_CASE}} placeholder tokens into
// notification message strings. It performs no locale-aware formatting and no
// time arithmetic; callers pass already-formatted string values.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// tokenPattern is the strict non-nested token grammar. Anything that does not
// match (lowercase names, unclosed braces, nested openings) is left verbatim.
var tokenPattern = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// Built-in token names.
const (
	TokenProjectAddress = "PROJECT_ADDRESS"
	TokenClientName     = "CLIENT_NAME"
	TokenClientEmail    = "CLIENT_EMAIL"
	TokenStatusName     = "STATUS_NAME"
	TokenEstTime        = "EST_TIME"
	TokenCountdown      = "COUNTDOWN"
)

// builtinDefaults are the fallback values used when a built-in token is
// absent from the caller's context. Unknown tokens fall back to the empty
// string and are reported as unresolved instead.
var builtinDefaults = map[string]string{
	TokenProjectAddress: "N/A",
	TokenClientName:     "Client",
	TokenClientEmail:    "",
	TokenStatusName:     "Status Update",
	TokenEstTime:        "N/A",
}

// RenderedMessage is the output of a render pass.
type RenderedMessage struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
	// UnresolvedPlaceholders lists non-built-in tokens that had no context
	// value. Diagnostic only; the body already substituted them with "".
	UnresolvedPlaceholders []string `json:"unresolvedPlaceholders,omitempty"`
}

// Render substitutes every token occurrence in tmpl against ctx. A token may
// appear any number of times; every occurrence receives the same value. An
// empty template renders to an empty body with no diagnostics.
func Render(tmpl string, ctx map[string]string) RenderedMessage {
	if tmpl == "" {
		return RenderedMessage{}
	}

	unresolved := make(map[string]struct{})

	body := tokenPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-2]

		if name == TokenCountdown {
			return renderCountdown(ctx[TokenCountdown])
		}

		if v, ok := ctx[name]; ok {
			return v
		}
		if def, ok := builtinDefaults[name]; ok {
			return def
		}

		unresolved[name] = struct{}{}
		return ""
	})

	return RenderedMessage{
		Body:                   body,
		UnresolvedPlaceholders: sortedKeys(unresolved),
	}
}

// RenderWithSubject renders a subject/body template pair against one context.
// Subject diagnostics are merged into the body's.
func RenderWithSubject(subject, body string, ctx map[string]string) RenderedMessage {
	rs := Render(subject, ctx)
	rb := Render(body, ctx)

	merged := make(map[string]struct{})
	for _, t := range rs.UnresolvedPlaceholders {
		merged[t] = struct{}{}
	}
	for _, t := range rb.UnresolvedPlaceholders {
		merged[t] = struct{}{}
	}

	return RenderedMessage{
		Subject:                rs.Body,
		Body:                   rb.Body,
		UnresolvedPlaceholders: sortedKeys(merged),
	}
}

// renderCountdown emits a placeholder element carrying the duration; the
// countdown ticks client-side after render. Non-numeric or missing durations
// render as zero.
func renderCountdown(duration string) string {
	secs, err := strconv.Atoi(duration)
	if err != nil || secs < 0 {
		secs = 0
	}
	return fmt.Sprintf(`<span class="countdown-timer" data-duration="%d"></span>`, secs)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HasTokens reports whether s still contains anything matching the token
// grammar, used by callers asserting a complete render.
func HasTokens(s string) bool {
	return strings.Contains(s, "{{") && tokenPattern.MatchString(s)
}
