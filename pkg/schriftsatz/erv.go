package schriftsatz

import (
	"fmt"
	"sort"
	"time"
)

// Deadline band: a warning fires when at most this many days remain.
const fristWarnTage = 7

// Validate runs the compliance checks required before a filing can go
// through the elektronischer Rechtsverkehr. It never breaks the pipeline:
// an internal failure degrades to a single critical warning telling the
// lawyer the check itself is unreliable.
func Validate(doc *Schriftsatz, def *Definition, slots SlotValues, now time.Time) (warnungen []Warnung) {
	defer func() {
		if r := recover(); r != nil {
			warnungen = []Warnung{{
				Kategorie: KategorieForm,
				Schwere:   SchwereKritisch,
				Meldung:   "Die Compliance-Prüfung ist fehlgeschlagen. Der Entwurf muss vollständig manuell geprüft werden.",
			}}
		}
	}()

	warnungen = append(warnungen, checkInhalt(doc)...)
	warnungen = append(warnungen, checkForm(doc)...)
	warnungen = append(warnungen, checkFristen(def, slots, now)...)
	warnungen = append(warnungen, checkPlatzhalter(doc)...)

	sort.SliceStable(warnungen, func(i, j int) bool {
		return severityRank(warnungen[i].Schwere) < severityRank(warnungen[j].Schwere)
	})
	return warnungen
}

func severityRank(s string) int {
	switch s {
	case SchwereKritisch:
		return 0
	case SchwereWarnung:
		return 1
	default:
		return 2
	}
}

func checkInhalt(doc *Schriftsatz) []Warnung {
	var w []Warnung

	rubrumFields := []struct {
		value string
		feld  string
		label string
	}{
		{doc.Rubrum.Gericht, "gericht", "das zuständige Gericht"},
		{doc.Rubrum.KlaegerName, "klaeger_name", "der Name des Klägers"},
		{doc.Rubrum.BeklagterName, "beklagter_name", "der Name des Beklagten"},
	}
	for _, f := range rubrumFields {
		if f.value == "" || IsPlaceholder(f.value) {
			w = append(w, Warnung{
				Kategorie: KategorieInhalt,
				Schwere:   SchwereKritisch,
				Meldung:   fmt.Sprintf("Im Rubrum fehlt %s.", f.label),
				Feld:      f.feld,
			})
		}
	}

	if len(doc.Antraege) == 0 {
		w = append(w, Warnung{
			Kategorie: KategorieInhalt,
			Schwere:   SchwereKritisch,
			Meldung:   "Der Schriftsatz enthält keinen Antrag.",
			Feld:      "antraege",
		})
	}
	if doc.Sachverhalt == "" {
		w = append(w, Warnung{
			Kategorie: KategorieInhalt,
			Schwere:   SchwereWarnung,
			Meldung:   "Der Sachverhalt ist leer.",
			Feld:      "sachverhalt",
		})
	}
	return w
}

func checkForm(doc *Schriftsatz) []Warnung {
	var w []Warnung

	if doc.Rubrum.Datum == "" {
		w = append(w, Warnung{
			Kategorie: KategorieForm,
			Schwere:   SchwereWarnung,
			Meldung:   "Das Datum des Schriftsatzes fehlt.",
			Feld:      "datum",
		})
	}
	if doc.Schlussformel == "" {
		w = append(w, Warnung{
			Kategorie: KategorieForm,
			Schwere:   SchwereWarnung,
			Meldung:   "Die Schlussformel (Unterschriftszeile) fehlt.",
			Feld:      "schlussformel",
		})
	}

	// Static ERV notice, always present.
	w = append(w, Warnung{
		Kategorie: KategorieForm,
		Schwere:   SchwereInfo,
		Meldung:   "Einreichung als elektronisches Dokument nach § 130a ZPO über das beA erforderlich.",
	})
	return w
}

// checkFristen maps every statutory deadline of the Klageart onto a
// severity band: expired is critical, 7 days or less is a warning,
// otherwise silence.
func checkFristen(def *Definition, slots SlotValues, now time.Time) []Warnung {
	var w []Warnung
	for _, frist := range def.Fristen {
		raw, ok := slots[frist.SlotKey].(string)
		if !ok || IsPlaceholder(raw) {
			w = append(w, Warnung{
				Kategorie: KategorieFrist,
				Schwere:   SchwereWarnung,
				Meldung: fmt.Sprintf("Die Frist %s (%s) kann nicht geprüft werden, das Anknüpfungsdatum fehlt.",
					frist.Paragraf, frist.Beschreibung),
				Feld: frist.SlotKey,
			})
			continue
		}
		anchor, err := parseDate(raw)
		if err != nil {
			continue
		}

		deadline := anchor.AddDate(0, 0, frist.FristTage)
		remaining := int(deadline.Sub(now).Hours() / 24)

		switch {
		case now.After(deadline):
			w = append(w, Warnung{
				Kategorie: KategorieFrist,
				Schwere:   SchwereKritisch,
				Meldung: fmt.Sprintf("Die Frist %s (%s) ist am %s abgelaufen.",
					frist.Paragraf, frist.Beschreibung, deadline.Format("02.01.2006")),
				Feld: frist.SlotKey,
			})
		case remaining <= fristWarnTage:
			w = append(w, Warnung{
				Kategorie: KategorieFrist,
				Schwere:   SchwereWarnung,
				Meldung: fmt.Sprintf("Die Frist %s (%s) läuft am %s ab, noch %d Tage.",
					frist.Paragraf, frist.Beschreibung, deadline.Format("02.01.2006"), remaining),
				Feld: frist.SlotKey,
			})
		}
	}
	return w
}

func checkPlatzhalter(doc *Schriftsatz) []Warnung {
	if len(doc.OffenePlatzhalter) == 0 {
		return nil
	}
	return []Warnung{{
		Kategorie: KategorieInhalt,
		Schwere:   SchwereWarnung,
		Meldung: fmt.Sprintf("Der Entwurf enthält %d offene Platzhalter: %v.",
			len(doc.OffenePlatzhalter), doc.OffenePlatzhalter),
	}}
}
