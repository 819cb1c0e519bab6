package schriftsatz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kanzlei-ai-be/internal/entity"
)

// Accepted date layouts for date slots.
var dateLayouts = []string{"02.01.2006", "2006-01-02"}

// Phrases that mean "I don't know yet". They turn the slot into an open
// placeholder instead of blocking the pipeline forever.
var unknownPhrases = []string{
	"weiß ich nicht", "weiss ich nicht", "unbekannt", "keine ahnung",
	"offen lassen", "später", "spaeter", "weiß ich noch nicht",
	"weiss ich noch nicht",
}

// FillResult is the outcome of one slot filling pass.
type FillResult struct {
	Werte        SlotValues
	Vollstaendig bool
	Fehlend      []string
	// Frage is the single follow-up question for the first missing slot.
	Frage string
}

// Placeholder returns the unresolved marker for a slot key.
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// IsPlaceholder reports whether a value is an accepted-but-unresolved
// placeholder.
func IsPlaceholder(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}")
}

// Fill merges slot values by precedence (defaults, then case prefill,
// then user answers) and determines what is still missing. It never asks
// for more than one slot at a time.
func Fill(def *Definition, prefilled, answers SlotValues, now time.Time) FillResult {
	werte := SlotValues{}
	for k, v := range def.Defaults {
		werte[k] = v
	}
	for k, v := range prefilled {
		if v != nil && v != "" {
			werte[k] = v
		}
	}

	for k, raw := range answers {
		slot, ok := findSlot(def, k)
		if !ok {
			continue
		}
		werte[k] = normalizeValue(slot, raw)
	}

	result := FillResult{Werte: werte}
	for _, slot := range def.PflichtSlots {
		v, present := werte[slot.Key]
		if !present || v == nil || v == "" {
			result.Fehlend = append(result.Fehlend, slot.Key)
		}
	}

	if len(result.Fehlend) == 0 {
		result.Vollstaendig = true
		return result
	}

	first, _ := findSlot(def, result.Fehlend[0])
	result.Frage = buildQuestion(def, first, werte, now)
	return result
}

// PrefillFromAkte derives slot values that already live on the case.
func PrefillFromAkte(def *Definition, akte *entity.Akte) SlotValues {
	if akte == nil {
		return SlotValues{}
	}
	prefilled := SlotValues{}
	if akte.Streitwert > 0 {
		prefilled["STREITWERT"] = akte.Streitwert
	}
	if akte.Titel != "" {
		prefilled["GEGENSTAND"] = akte.Titel
	}
	return prefilled
}

func findSlot(def *Definition, key string) (SlotDef, bool) {
	for _, s := range def.PflichtSlots {
		if s.Key == key {
			return s, true
		}
	}
	for _, s := range def.OptionaleSlots {
		if s.Key == key {
			return s, true
		}
	}
	return SlotDef{}, false
}

// normalizeValue validates a raw answer against the slot type. Unusable
// answers and explicit "don't know" answers become placeholders so the
// pipeline can finish with a marked gap.
func normalizeValue(slot SlotDef, raw interface{}) interface{} {
	if raw == nil {
		return Placeholder(slot.Key)
	}

	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		lower := strings.ToLower(trimmed)
		for _, phrase := range unknownPhrases {
			if strings.Contains(lower, phrase) {
				return Placeholder(slot.Key)
			}
		}
		if trimmed == "" {
			return Placeholder(slot.Key)
		}

		switch slot.Typ {
		case SlotDatum:
			if _, err := parseDate(trimmed); err != nil {
				return Placeholder(slot.Key)
			}
			return trimmed
		case SlotZahl:
			n, err := parseNumber(trimmed)
			if err != nil {
				return Placeholder(slot.Key)
			}
			return n
		default:
			return trimmed
		}
	}

	if slot.Typ == SlotZahl {
		switch v := raw.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
		return Placeholder(slot.Key)
	}
	return raw
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", s)
}

func parseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "€")
	cleaned = strings.TrimSpace(cleaned)
	return strconv.ParseFloat(cleaned, 64)
}

// buildQuestion phrases the follow-up for one missing slot, including an
// example and the escape hatch. When a statutory deadline hangs on an
// already known date slot, the remaining time is appended so the user
// understands the urgency.
func buildQuestion(def *Definition, slot SlotDef, werte SlotValues, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Für die %s fehlt noch: %s.", def.Name, slot.Label)
	if slot.Beispiel != "" {
		fmt.Fprintf(&b, " (z.B. %q)", slot.Beispiel)
	}
	b.WriteString(" Antworten Sie mit \"unbekannt\", um die Angabe als Platzhalter offen zu lassen.")

	for _, frist := range def.Fristen {
		raw, ok := werte[frist.SlotKey].(string)
		if !ok || IsPlaceholder(raw) {
			continue
		}
		anchor, err := parseDate(raw)
		if err != nil {
			continue
		}
		deadline := anchor.AddDate(0, 0, frist.FristTage)
		remaining := int(deadline.Sub(now).Hours() / 24)
		if remaining < 0 {
			fmt.Fprintf(&b, " ACHTUNG: Die Frist %s (%s) ist seit %d Tagen abgelaufen.",
				frist.Paragraf, frist.Beschreibung, -remaining)
		} else {
			fmt.Fprintf(&b, " Hinweis: Die Frist %s läuft in %d Tagen ab (%s).",
				frist.Paragraf, remaining, deadline.Format("02.01.2006"))
		}
	}
	return b.String()
}
