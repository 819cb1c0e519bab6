package schriftsatz

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolvePlaceholders(t *testing.T) {
	doc := &Schriftsatz{
		Rubrum: Rubrum{
			Gericht:     "Arbeitsgericht Berlin",
			KlaegerName: "{{KLAEGER_NAME}}",
		},
		Antraege:             []string{"dem Beklagten die Zahlung von {{FORDERUNG_BETRAG}} EUR aufzuerlegen"},
		Sachverhalt:          "Am {{ZUGANG_DATUM}} ging die Kündigung zu. Monatsgehalt: {{MONATSGEHALT}} EUR.",
		RechtlicheWuerdigung: "Vgl. {{ORT}}.",
	}

	slots := SlotValues{
		"ZUGANG_DATUM":     "14.02.2025",
		"MONATSGEHALT":     3800.0,
		"FORDERUNG_BETRAG": 5400.50,
		// Accepted but never answered, stays open.
		"KLAEGER_NAME": "{{KLAEGER_NAME}}",
	}

	ResolvePlaceholders(doc, slots)

	if !strings.Contains(doc.Sachverhalt, "Am 14.02.2025") {
		t.Errorf("date not substituted: %q", doc.Sachverhalt)
	}
	if !strings.Contains(doc.Sachverhalt, "3800 EUR") {
		t.Errorf("whole number should render without decimals: %q", doc.Sachverhalt)
	}
	if !strings.Contains(doc.Antraege[0], "5400,50 EUR") {
		t.Errorf("fraction should render with comma: %q", doc.Antraege[0])
	}
	if doc.Rubrum.KlaegerName != "{{KLAEGER_NAME}}" {
		t.Errorf("placeholder-valued slot must stay open, got %q", doc.Rubrum.KlaegerName)
	}

	want := []string{"KLAEGER_NAME", "ORT"}
	if !reflect.DeepEqual(doc.OffenePlatzhalter, want) {
		t.Errorf("OffenePlatzhalter = %v, want %v", doc.OffenePlatzhalter, want)
	}
}

func TestFormatSlotValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{"text", "text"},
		{3800.0, "3800"},
		{3800.5, "3800,50"},
		{true, "ja"},
		{false, "nein"},
	}
	for _, tc := range tests {
		if got := formatSlotValue(tc.in); got != tc.want {
			t.Errorf("formatSlotValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
