// Package think splits assistant output into an optional reasoning segment
// and the final answer. Reasoning is delimited by a literal closing
// "</think>" marker; the backend only emits it when think mode is requested.
package think

import (
	"regexp"
	"strings"
)

// Result holds the two segments of a parsed response. Reasoning is only
// meaningful when HasReasoning is set.
type Result struct {
	Reasoning    string
	HasReasoning bool
	Answer       string
}

var (
	// Marker alone on its own line. Tried first: the looser pattern below
	// would otherwise swallow content across the intended line boundary.
	newlinePattern = regexp.MustCompile(`(?s)^(.+?)\n</think>\n(.+)$`)
	// Marker anywhere, optionally followed by whitespace.
	loosePattern = regexp.MustCompile(`(?s)^(.*?)</think>\s*(.*)$`)
)

// Parse extracts the reasoning segment from raw assistant text. Input with
// no marker comes back whole as the answer. The marker is textual, not
// structural, so answer text that happens to contain "</think>" still
// splits; that imprecision is accepted and mirrored by the tests.
func Parse(raw string) Result {
	if raw == "" {
		return Result{}
	}

	if m := newlinePattern.FindStringSubmatch(raw); m != nil {
		return Result{
			Reasoning:    strings.TrimSpace(m[1]),
			HasReasoning: true,
			Answer:       strings.TrimSpace(m[2]),
		}
	}

	if m := loosePattern.FindStringSubmatch(raw); m != nil {
		return Result{
			Reasoning:    strings.TrimSpace(m[1]),
			HasReasoning: true,
			Answer:       strings.TrimSpace(m[2]),
		}
	}

	return Result{Answer: raw}
}
