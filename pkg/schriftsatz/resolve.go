package schriftsatz

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

// ResolvePlaceholders walks every text field of the filing and substitutes
// {{KEY}} markers from the slot values. Markers without a usable value
// stay in the text and are collected in OffenePlatzhalter, each exactly
// once, so the reviewing lawyer sees every gap.
func ResolvePlaceholders(doc *Schriftsatz, slots SlotValues) {
	open := map[string]bool{}

	resolve := func(text string) string {
		return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
			key := placeholderRe.FindStringSubmatch(match)[1]
			v, ok := slots[key]
			if !ok || v == nil || IsPlaceholder(v) {
				open[key] = true
				return match
			}
			return formatSlotValue(v)
		})
	}

	doc.Rubrum.Gericht = resolve(doc.Rubrum.Gericht)
	doc.Rubrum.KlaegerName = resolve(doc.Rubrum.KlaegerName)
	doc.Rubrum.KlaegerAdresse = resolve(doc.Rubrum.KlaegerAdresse)
	doc.Rubrum.BeklagterName = resolve(doc.Rubrum.BeklagterName)
	doc.Rubrum.BeklagterAdresse = resolve(doc.Rubrum.BeklagterAdresse)
	doc.Rubrum.Betreff = resolve(doc.Rubrum.Betreff)

	for i := range doc.Antraege {
		doc.Antraege[i] = resolve(doc.Antraege[i])
	}
	doc.Sachverhalt = resolve(doc.Sachverhalt)
	doc.RechtlicheWuerdigung = resolve(doc.RechtlicheWuerdigung)
	for i := range doc.Beweisangebote {
		doc.Beweisangebote[i].Behauptung = resolve(doc.Beweisangebote[i].Behauptung)
		doc.Beweisangebote[i].Beweismittel = resolve(doc.Beweisangebote[i].Beweismittel)
	}
	for i := range doc.Anlagen {
		doc.Anlagen[i].Bezeichnung = resolve(doc.Anlagen[i].Bezeichnung)
	}
	doc.Schlussformel = resolve(doc.Schlussformel)

	keys := make([]string, 0, len(open))
	for k := range open {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	doc.OffenePlatzhalter = keys
}

func formatSlotValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return strings.Replace(fmt.Sprintf("%.2f", val), ".", ",", 1)
	case bool:
		if val {
			return "ja"
		}
		return "nein"
	default:
		return fmt.Sprintf("%v", val)
	}
}
