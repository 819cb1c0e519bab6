package schriftsatz

import (
	"strings"
	"testing"
	"time"

	"kanzlei-ai-be/internal/entity"
)

func kscDef(t *testing.T) *Definition {
	t.Helper()
	def := NewRegistry().Get("kuendigungsschutzklage")
	if def.ID != "kuendigungsschutzklage" {
		t.Fatalf("registry returned %q", def.ID)
	}
	return def
}

func TestFillAsksOneQuestionAtATime(t *testing.T) {
	def := kscDef(t)

	res := Fill(def, nil, nil, time.Now())
	if res.Vollstaendig {
		t.Fatal("expected incomplete fill")
	}
	// KUENDIGUNG_ART has a default, so the first missing slot is the date.
	if res.Fehlend[0] != "ZUGANG_DATUM" {
		t.Fatalf("first missing slot = %q, want ZUGANG_DATUM", res.Fehlend[0])
	}
	if !strings.Contains(res.Frage, "Zugangs") {
		t.Errorf("question should ask for the delivery date, got %q", res.Frage)
	}
	if strings.Contains(res.Frage, "Bruttomonatsgehalt") {
		t.Errorf("question must cover only one slot, got %q", res.Frage)
	}
	if !strings.Contains(res.Frage, "unbekannt") {
		t.Errorf("question should mention the escape hatch, got %q", res.Frage)
	}
}

func TestFillPrecedence(t *testing.T) {
	def := kscDef(t)

	prefilled := SlotValues{"KUENDIGUNG_ART": "außerordentlich"}
	answers := SlotValues{"MONATSGEHALT": "3.800,50 €"}

	res := Fill(def, prefilled, answers, time.Now())

	if got := res.Werte["KUENDIGUNG_ART"]; got != "außerordentlich" {
		t.Errorf("prefill should override default, got %v", got)
	}
	if got := res.Werte["MONATSGEHALT"]; got != 3800.50 {
		t.Errorf("German number format not parsed, got %v", got)
	}
}

func TestFillAnswerOverridesPrefill(t *testing.T) {
	def := kscDef(t)

	prefilled := SlotValues{"MONATSGEHALT": 2000.0}
	answers := SlotValues{"MONATSGEHALT": "4200"}

	res := Fill(def, prefilled, answers, time.Now())
	if got := res.Werte["MONATSGEHALT"]; got != 4200.0 {
		t.Errorf("answer should win over prefill, got %v", got)
	}
}

func TestFillUnknownAnswerBecomesPlaceholder(t *testing.T) {
	def := kscDef(t)

	answers := SlotValues{"ZUGANG_DATUM": "weiß ich nicht"}
	res := Fill(def, nil, answers, time.Now())

	if got := res.Werte["ZUGANG_DATUM"]; got != "{{ZUGANG_DATUM}}" {
		t.Fatalf("escape hatch answer = %v, want placeholder", got)
	}
	for _, key := range res.Fehlend {
		if key == "ZUGANG_DATUM" {
			t.Error("placeholder slot must not be asked again")
		}
	}
}

func TestFillRejectsUnparseableValues(t *testing.T) {
	def := kscDef(t)

	tests := []struct {
		name string
		key  string
		raw  interface{}
	}{
		{"garbage date", "ZUGANG_DATUM", "irgendwann letzte Woche"},
		{"garbage number", "MONATSGEHALT", "ein gutes Gehalt"},
		{"nil answer", "MONATSGEHALT", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Fill(def, nil, SlotValues{tc.key: tc.raw}, time.Now())
			if !IsPlaceholder(res.Werte[tc.key]) {
				t.Errorf("got %v, want placeholder", res.Werte[tc.key])
			}
		})
	}
}

func TestFillQuestionCarriesDeadlineHint(t *testing.T) {
	def := kscDef(t)
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	// Anchor known, 21 day deadline ends 22.06., so 12 days remain.
	res := Fill(def, SlotValues{"ZUGANG_DATUM": "01.06.2025"}, nil, now)
	if res.Vollstaendig {
		t.Fatal("expected missing slots")
	}
	if !strings.Contains(res.Frage, "§ 4 S. 1 KSchG") {
		t.Errorf("question should name the deadline, got %q", res.Frage)
	}
	if !strings.Contains(res.Frage, "12 Tagen") {
		t.Errorf("question should state remaining days, got %q", res.Frage)
	}

	// Same anchor after the deadline has run out.
	late := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	res = Fill(def, SlotValues{"ZUGANG_DATUM": "01.06.2025"}, nil, late)
	if !strings.Contains(res.Frage, "abgelaufen") {
		t.Errorf("question should flag the expired deadline, got %q", res.Frage)
	}
}

func TestFillCompletes(t *testing.T) {
	def := kscDef(t)

	answers := SlotValues{
		"ZUGANG_DATUM":      "14.02.2025",
		"MONATSGEHALT":      "3800",
		"BESCHAEFTIGT_SEIT": "01.04.2019",
	}
	res := Fill(def, nil, answers, time.Now())
	if !res.Vollstaendig {
		t.Fatalf("expected complete fill, missing %v", res.Fehlend)
	}
	if res.Frage != "" {
		t.Errorf("complete fill must not ask, got %q", res.Frage)
	}
}

func TestPrefillFromAkte(t *testing.T) {
	def := NewRegistry().Get(GenerischID)

	akte := &entity.Akte{Titel: "Müller ./. Schulze GmbH", Streitwert: 5000}
	prefilled := PrefillFromAkte(def, akte)

	if prefilled["GEGENSTAND"] != "Müller ./. Schulze GmbH" {
		t.Errorf("GEGENSTAND = %v", prefilled["GEGENSTAND"])
	}
	if prefilled["STREITWERT"] != 5000.0 {
		t.Errorf("STREITWERT = %v", prefilled["STREITWERT"])
	}

	if got := PrefillFromAkte(def, nil); len(got) != 0 {
		t.Errorf("nil akte should prefill nothing, got %v", got)
	}
}

func TestFillIsIdempotent(t *testing.T) {
	def := kscDef(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	prefilled := SlotValues{"KUENDIGUNG_ART": "außerordentlich"}
	answers := SlotValues{
		"ZUGANG_DATUM": "14.02.2025",
		"MONATSGEHALT": "3.800,50 €",
	}

	first := Fill(def, prefilled, answers, now)
	second := Fill(def, prefilled, answers, now)

	if len(first.Werte) != len(second.Werte) {
		t.Fatalf("value counts differ: %d vs %d", len(first.Werte), len(second.Werte))
	}
	for k, v := range first.Werte {
		if second.Werte[k] != v {
			t.Errorf("slot %s changed between runs: %v vs %v", k, v, second.Werte[k])
		}
	}
	if first.Vollstaendig != second.Vollstaendig || first.Frage != second.Frage {
		t.Errorf("fill outcome changed between runs")
	}
	if len(first.Fehlend) != len(second.Fehlend) {
		t.Errorf("missing slots differ: %v vs %v", first.Fehlend, second.Fehlend)
	}
}
