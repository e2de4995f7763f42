package emotion

import "testing"

func TestNormalizeClassifierOutputs(t *testing.T) {
	cases := map[string]Label{
		"Sadness":   Sad,
		" FEAR ":    Anxious,
		"anger":     Angry,
		"disgust":   Angry,
		"Happy":     Happy,
		"surprise":  Neutral,
		"":          Neutral,
		"confusion": Neutral,
	}
	for raw, want := range cases {
		if got := Normalize(raw); got != want {
			t.Fatalf("Normalize(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseReportsUnknownLabels(t *testing.T) {
	if _, ok := Parse("bored"); ok {
		t.Fatal("expected bored to be unknown")
	}
	label, ok := Parse("anxiety")
	if !ok || label != Anxious {
		t.Fatalf("expected anxious, got %s (%v)", label, ok)
	}
}

func TestDisplay(t *testing.T) {
	if got := Sad.Display(); got != "Sad" {
		t.Fatalf("expected Sad, got %s", got)
	}
	if got := Label("").Display(); got != "Neutral" {
		t.Fatalf("expected Neutral for empty label, got %s", got)
	}
}
