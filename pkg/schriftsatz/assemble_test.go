package schriftsatz

import (
	"strings"
	"testing"
	"unicode/utf8"

	"kanzlei-ai-be/internal/entity"
)

func TestBuildBeweiseNumbersExhibits(t *testing.T) {
	def := NewRegistry().Get("kuendigungsschutzklage")

	angebote, anlagen := buildBeweise(def)

	if len(angebote) != 2 {
		t.Fatalf("angebote = %d, want 2", len(angebote))
	}
	if len(anlagen) != 2 {
		t.Fatalf("anlagen = %d, want 2", len(anlagen))
	}
	if anlagen[0].Nummer != "K1" || anlagen[1].Nummer != "K2" {
		t.Errorf("exhibit numbering = %s, %s, want K1, K2", anlagen[0].Nummer, anlagen[1].Nummer)
	}
	if !strings.Contains(angebote[0].Beweismittel, "(Anlage K1)") {
		t.Errorf("offer should reference its exhibit, got %q", angebote[0].Beweismittel)
	}
}

func TestBuildBeweiseDeduplicatesExhibits(t *testing.T) {
	def := &Definition{
		Beweise: []BeweisDef{
			{Behauptung: "Das Arbeitsverhältnis besteht.", Beweismittel: "Vorlage des Arbeitsvertrags", Anlage: "Arbeitsvertrag"},
			{Behauptung: "Die Vergütung ist vereinbart.", Beweismittel: "Vorlage des Arbeitsvertrags", Anlage: "Arbeitsvertrag"},
		},
	}

	angebote, anlagen := buildBeweise(def)

	if len(anlagen) != 1 {
		t.Fatalf("same document listed %d times, want 1", len(anlagen))
	}
	for _, a := range angebote {
		if !strings.Contains(a.Beweismittel, "(Anlage K1)") {
			t.Errorf("both offers should point at K1, got %q", a.Beweismittel)
		}
	}
}

func TestSubstituteSlots(t *testing.T) {
	slots := SlotValues{
		"KUENDIGUNGSGRUND":   "betriebsbedingt",
		"FORDERUNG_ZEITRAUM": Placeholder("FORDERUNG_ZEITRAUM"),
	}

	got := substituteSlots("Kündigung {{KUENDIGUNGSGRUND}} Sachverhaltsdarstellung", slots)
	if got != "Kündigung betriebsbedingt Sachverhaltsdarstellung" {
		t.Errorf("query = %q", got)
	}

	// Unknown and still-unresolved slots vanish without leaving gaps.
	got = substituteSlots("Vergütung {{FORDERUNG_ZEITRAUM}} offen {{UNBEKANNT}}", slots)
	if got != "Vergütung offen" {
		t.Errorf("query = %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Errorf("placeholder leaked into the query: %q", got)
	}
}

func TestBuildRubrumCourtFromIntent(t *testing.T) {
	def := NewRegistry().Get("kuendigungsschutzklage")
	intent := &Intent{Parteirolle: entity.RolleKlaeger, Gericht: "Arbeitsgericht Köln"}
	akte := &entity.Akte{
		MandantName:  "Max Muster",
		MandantRolle: entity.RolleKlaeger,
		GegnerName:   "Beispiel GmbH",
	}

	rubrum := buildRubrum(def, intent, akte)
	if rubrum.Gericht != "Arbeitsgericht Köln" {
		t.Errorf("court = %q, want the one named in the request", rubrum.Gericht)
	}

	// A court on the Akte always wins over the request.
	akte.Gericht = "Arbeitsgericht Bonn"
	rubrum = buildRubrum(def, intent, akte)
	if rubrum.Gericht != "Arbeitsgericht Bonn" {
		t.Errorf("court = %q, want the Akte's", rubrum.Gericht)
	}
}

func TestFirstCharsKeepsUmlautsIntact(t *testing.T) {
	s := strings.Repeat("Kündigung ", 30)

	got := firstChars(s, 25)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if utf8.RuneCountInString(got) != 26 {
		t.Errorf("rune count = %d, want 25 plus ellipsis", utf8.RuneCountInString(got))
	}
}
