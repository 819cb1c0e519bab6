package schriftsatz

import (
	"fmt"
	"strings"
)

// Render produces the plain text form of the filing in the conventional
// German layout: Rubrum, Anträge, Begründung, Beweisangebote, Anlagen,
// Schlussformel.
func Render(doc *Schriftsatz, def *Definition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "An das\n%s\n\n", orPlaceholder(doc.Rubrum.Gericht, "GERICHT"))
	if doc.Rubrum.Aktenzeichen != "" {
		fmt.Fprintf(&b, "Aktenzeichen: %s\n\n", doc.Rubrum.Aktenzeichen)
	}

	fmt.Fprintf(&b, "%s\n\n", strings.ToUpper(def.Name))

	fmt.Fprintf(&b, "des %s, %s\n", orPlaceholder(doc.Rubrum.KlaegerName, "KLAEGER_NAME"),
		orPlaceholder(doc.Rubrum.KlaegerAdresse, "KLAEGER_ADRESSE"))
	b.WriteString("  - Kläger -\n\n")
	b.WriteString("gegen\n\n")
	fmt.Fprintf(&b, "%s, %s\n", orPlaceholder(doc.Rubrum.BeklagterName, "BEKLAGTER_NAME"),
		orPlaceholder(doc.Rubrum.BeklagterAdresse, "BEKLAGTER_ADRESSE"))
	b.WriteString("  - Beklagter -\n\n")

	if doc.Rubrum.Betreff != "" {
		fmt.Fprintf(&b, "wegen: %s\n", doc.Rubrum.Betreff)
	}
	if doc.Kosten.Streitwert > 0 {
		fmt.Fprintf(&b, "Streitwert: %s EUR\n", formatSlotValue(doc.Kosten.Streitwert))
	}
	b.WriteString("\n")

	if len(doc.Antraege) > 0 {
		b.WriteString("Namens und in Vollmacht des Klägers erheben wir Klage und beantragen:\n\n")
		for i, antrag := range doc.Antraege {
			fmt.Fprintf(&b, "%d. %s\n", i+1, antrag)
		}
		b.WriteString("\n")
	}

	b.WriteString("Begründung:\n\nI. Sachverhalt\n\n")
	b.WriteString(doc.Sachverhalt)
	b.WriteString("\n\nII. Rechtliche Würdigung\n\n")
	b.WriteString(doc.RechtlicheWuerdigung)
	b.WriteString("\n")

	if len(doc.Beweisangebote) > 0 {
		b.WriteString("\nBeweisangebote:\n")
		for _, bw := range doc.Beweisangebote {
			fmt.Fprintf(&b, "- %s; Beweis: %s\n", bw.Behauptung, bw.Beweismittel)
		}
	}

	if len(doc.Anlagen) > 0 {
		b.WriteString("\nAnlagen:\n")
		for _, a := range doc.Anlagen {
			fmt.Fprintf(&b, "- %s: %s\n", a.Nummer, a.Bezeichnung)
		}
	}

	fmt.Fprintf(&b, "\n%s, den %s\n\n%s\n",
		Placeholder("ORT"), orPlaceholder(doc.Rubrum.Datum, "DATUM"), doc.Schlussformel)

	return b.String()
}

func orPlaceholder(value, key string) string {
	if value == "" {
		return Placeholder(key)
	}
	return value
}
