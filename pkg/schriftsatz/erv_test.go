package schriftsatz

import (
	"strings"
	"testing"
	"time"
)

func completeDoc() *Schriftsatz {
	return &Schriftsatz{
		KlageartId: "kuendigungsschutzklage",
		Rubrum: Rubrum{
			Gericht:       "Arbeitsgericht Berlin",
			KlaegerName:   "Max Müller",
			BeklagterName: "Schulze GmbH",
			Datum:         "10.06.2025",
		},
		Antraege:             []string{"festzustellen, dass das Arbeitsverhältnis nicht aufgelöst ist"},
		Sachverhalt:          "Der Kläger ist seit 2019 beschäftigt.",
		RechtlicheWuerdigung: "Die Kündigung ist sozial ungerechtfertigt.",
		Schlussformel:        "Rechtsanwalt",
	}
}

func findWarnung(warnungen []Warnung, kategorie, schwere string) *Warnung {
	for i := range warnungen {
		if warnungen[i].Kategorie == kategorie && warnungen[i].Schwere == schwere {
			return &warnungen[i]
		}
	}
	return nil
}

func TestValidateCleanDraft(t *testing.T) {
	def := kscDef(t)
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	// Anchor 5 days back, 16 days of the 21 day period remain.
	warnungen := Validate(completeDoc(), def, SlotValues{"ZUGANG_DATUM": "05.06.2025"}, now)

	if w := findWarnung(warnungen, KategorieFrist, SchwereWarnung); w != nil {
		t.Errorf("no deadline warning expected, got %q", w.Meldung)
	}
	if w := findWarnung(warnungen, KategorieFrist, SchwereKritisch); w != nil {
		t.Errorf("no critical deadline expected, got %q", w.Meldung)
	}
	// The beA submission notice is always present.
	if findWarnung(warnungen, KategorieForm, SchwereInfo) == nil {
		t.Error("missing § 130a ZPO submission notice")
	}
}

func TestValidateDeadlineBands(t *testing.T) {
	def := kscDef(t)
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		zugang  string
		schwere string
	}{
		// Deadline ran out on 05.06., five days before now.
		{"expired", "15.05.2025", SchwereKritisch},
		// Deadline 15.06., five days left.
		{"closing in", "25.05.2025", SchwereWarnung},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			warnungen := Validate(completeDoc(), def, SlotValues{"ZUGANG_DATUM": tc.zugang}, now)
			w := findWarnung(warnungen, KategorieFrist, tc.schwere)
			if w == nil {
				t.Fatalf("expected %s deadline warning, got %+v", tc.schwere, warnungen)
			}
			if !strings.Contains(w.Meldung, "§ 4 S. 1 KSchG") {
				t.Errorf("warning should name the statute, got %q", w.Meldung)
			}
		})
	}
}

func TestValidateMissingAnchor(t *testing.T) {
	def := kscDef(t)

	warnungen := Validate(completeDoc(), def, SlotValues{"ZUGANG_DATUM": "{{ZUGANG_DATUM}}"}, time.Now())
	w := findWarnung(warnungen, KategorieFrist, SchwereWarnung)
	if w == nil {
		t.Fatal("expected a warning that the deadline cannot be checked")
	}
	if !strings.Contains(w.Meldung, "kann nicht geprüft werden") {
		t.Errorf("got %q", w.Meldung)
	}
}

func TestValidateEmptyDraft(t *testing.T) {
	def := kscDef(t)

	warnungen := Validate(&Schriftsatz{}, def, SlotValues{}, time.Now())
	if len(warnungen) == 0 {
		t.Fatal("empty draft must produce warnings")
	}
	// Critical findings sort first.
	if warnungen[0].Schwere != SchwereKritisch {
		t.Errorf("first warning = %s, want kritisch", warnungen[0].Schwere)
	}
	if findWarnung(warnungen, KategorieInhalt, SchwereKritisch) == nil {
		t.Error("expected critical Rubrum findings")
	}
}

func TestValidateOpenPlaceholders(t *testing.T) {
	def := kscDef(t)

	doc := completeDoc()
	doc.OffenePlatzhalter = []string{"MONATSGEHALT"}

	warnungen := Validate(doc, def, SlotValues{"ZUGANG_DATUM": "05.06.2025"},
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	w := findWarnung(warnungen, KategorieInhalt, SchwereWarnung)
	if w == nil || !strings.Contains(w.Meldung, "MONATSGEHALT") {
		t.Errorf("expected open placeholder warning, got %+v", warnungen)
	}
}
