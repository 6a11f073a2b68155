package think

import "testing"

func TestParseMarkerOnOwnLine(t *testing.T) {
	got := Parse("<reasoning>\n</think>\nFinal answer")

	if !got.HasReasoning {
		t.Fatal("expected reasoning segment")
	}
	if got.Reasoning != "<reasoning>" {
		t.Fatalf("unexpected reasoning: %q", got.Reasoning)
	}
	if got.Answer != "Final answer" {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
}

func TestParseInlineMarker(t *testing.T) {
	got := Parse("<think>step one, step two</think>\n\nThe answer is four.")

	if !got.HasReasoning {
		t.Fatal("expected reasoning segment")
	}
	if got.Reasoning != "<think>step one, step two" {
		t.Fatalf("unexpected reasoning: %q", got.Reasoning)
	}
	if got.Answer != "The answer is four." {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
}

func TestParseNoMarker(t *testing.T) {
	got := Parse("No marker at all here")

	if got.HasReasoning {
		t.Fatalf("unexpected reasoning: %q", got.Reasoning)
	}
	if got.Answer != "No marker at all here" {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
}

func TestParseEmpty(t *testing.T) {
	got := Parse("")

	if got.HasReasoning || got.Answer != "" {
		t.Fatalf("expected zero result, got %+v", got)
	}
}

// The marker is textual, so answer text containing a literal </think> still
// splits. That imprecision is accepted; this test pins the behavior down so
// nobody "fixes" it silently.
func TestParseAdversarialMarkerInAnswer(t *testing.T) {
	got := Parse("The closing tag </think> can appear mid-sentence")

	if !got.HasReasoning {
		t.Fatal("expected the false-positive split")
	}
	if got.Reasoning != "The closing tag" {
		t.Fatalf("unexpected reasoning: %q", got.Reasoning)
	}
	if got.Answer != "can appear mid-sentence" {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
}

func TestParseStrictPatternWinsOverLoose(t *testing.T) {
	// With the marker alone on its own line, the strict pattern must take
	// the split at the line boundary rather than letting the loose pattern
	// swallow the trailing newline into the reasoning.
	got := Parse("line one\nline two\n</think>\nanswer body")

	if got.Reasoning != "line one\nline two" {
		t.Fatalf("unexpected reasoning: %q", got.Reasoning)
	}
	if got.Answer != "answer body" {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
}
