package schriftsatz

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"kanzlei-ai-be/internal/constant"
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/llm"
	"kanzlei-ai-be/pkg/retrieval"

	"github.com/google/uuid"
)

// Retrieved context per section is capped so three sections cannot blow
// the generation budget.
const maxSectionContextChars = 6000

// Assembler builds the filing: deterministic frame (Rubrum, Kosten,
// Schlussformel) plus model-written sections grounded on retrieved
// statutes, case law and templates.
type Assembler struct {
	searcher *retrieval.Searcher
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewAssembler(searcher *retrieval.Searcher, provider llm.LLMProvider, log logger.ILogger) *Assembler {
	return &Assembler{
		searcher: searcher,
		provider: provider,
		log:      log,
	}
}

func (a *Assembler) Assemble(ctx context.Context, def *Definition, intent *Intent, akte *entity.Akte, slots SlotValues) (*Schriftsatz, error) {
	doc := &Schriftsatz{
		KlageartId:    def.ID,
		Rubrum:        buildRubrum(def, intent, akte),
		Schlussformel: def.Schlussformel,
		ErstelltAm:    time.Now(),
	}

	streitwert := def.Streitwert.Berechnen(slots)
	if streitwert == 0 && akte != nil {
		streitwert = akte.Streitwert
	}
	doc.Kosten = schaetzeKosten(streitwert)

	doc.Beweisangebote, doc.Anlagen = buildBeweise(def)

	facts := buildFacts(def, akte, slots)
	seen := map[uuid.UUID]bool{}

	for _, section := range def.Sections {
		query := substituteSlots(section.QueryTemplate, slots)
		chunks, err := a.searcher.Search(ctx, query, section.Quellen, retrieval.DefaultTopK)
		if err != nil {
			// Retrieval loss degrades the grounding, not the draft.
			a.log.Warn("schriftsatz", "section retrieval failed", map[string]interface{}{
				"section": section.ID,
				"error":   err.Error(),
			})
			chunks = nil
		}

		for _, c := range chunks {
			if seen[c.Id] {
				continue
			}
			seen[c.Id] = true
			doc.Zitate = append(doc.Zitate, Zitat{
				ChunkId:    c.Id,
				SourceType: c.SourceType,
				Referenz:   c.Referenz,
				Similarity: c.Similarity,
				Auszug:     firstChars(c.Inhalt, 200),
			})
		}

		text, err := a.writeSection(ctx, section, facts, chunks)
		if err != nil {
			return nil, fmt.Errorf("failed to write section %s: %w", section.ID, err)
		}

		switch section.ID {
		case "antraege":
			doc.Antraege = splitAntraege(text)
		case "sachverhalt":
			doc.Sachverhalt = text
		case "wuerdigung":
			doc.RechtlicheWuerdigung = text
		default:
			doc.Sachverhalt += "\n\n" + text
		}
	}

	sort.SliceStable(doc.Zitate, func(i, j int) bool {
		return doc.Zitate[i].Similarity > doc.Zitate[j].Similarity
	})
	return doc, nil
}

func (a *Assembler) writeSection(ctx context.Context, section SectionDef, facts string, chunks []*entity.LegalChunk) (string, error) {
	var contextText strings.Builder
	for _, c := range chunks {
		entry := fmt.Sprintf("[%s] %s\n%s\n\n", c.SourceType, c.Referenz, c.Inhalt)
		if contextText.Len()+len(entry) > maxSectionContextChars {
			break
		}
		contextText.WriteString(entry)
	}
	if contextText.Len() == 0 {
		contextText.WriteString("(keine Treffer in der Wissensbasis)")
	}

	prompt := fmt.Sprintf(constant.SchriftsatzSectionPromptV1,
		section.Titel, facts, contextText.String())

	text, err := a.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func buildRubrum(def *Definition, intent *Intent, akte *entity.Akte) Rubrum {
	rubrum := Rubrum{
		Betreff: def.Name,
		Datum:   time.Now().Format("02.01.2006"),
	}
	// The Akte wins on the court, a court named in the request only
	// fills the gap.
	if intent != nil {
		rubrum.Gericht = intent.Gericht
	}
	if akte == nil {
		return rubrum
	}

	if akte.Gericht != "" {
		rubrum.Gericht = akte.Gericht
	}
	rubrum.Aktenzeichen = akte.Aktenzeichen

	// Party mapping: the Mandant takes the side the intent says, the
	// opponent takes the other.
	mandantIstKlaeger := intent == nil || intent.Parteirolle != entity.RolleBeklagter
	if akte.MandantRolle == entity.RolleBeklagter {
		mandantIstKlaeger = false
	}

	if mandantIstKlaeger {
		rubrum.KlaegerName = akte.MandantName
		rubrum.KlaegerAdresse = akte.MandantAdresse
		rubrum.BeklagterName = akte.GegnerName
		rubrum.BeklagterAdresse = akte.GegnerAdresse
	} else {
		rubrum.KlaegerName = akte.GegnerName
		rubrum.KlaegerAdresse = akte.GegnerAdresse
		rubrum.BeklagterName = akte.MandantName
		rubrum.BeklagterAdresse = akte.MandantAdresse
	}
	return rubrum
}

// substituteSlots fills known slot values into a retrieval query
// template. Unresolved placeholders are dropped so they do not end up
// in the embedding.
func substituteSlots(template string, slots SlotValues) string {
	out := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		v, ok := slots[key]
		if !ok || v == nil {
			return ""
		}
		if s, isStr := v.(string); isStr && placeholderRe.MatchString(s) {
			return ""
		}
		return formatSlotValue(v)
	})
	return strings.Join(strings.Fields(out), " ")
}

// buildBeweise materializes the declarative evidence offers of a
// Klageart and numbers the exhibits K1, K2, ..., each document once.
func buildBeweise(def *Definition) ([]Beweisangebot, []Anlage) {
	var angebote []Beweisangebot
	var anlagen []Anlage
	nummern := map[string]string{}

	for _, b := range def.Beweise {
		mittel := b.Beweismittel
		if b.Anlage != "" {
			nummer, ok := nummern[b.Anlage]
			if !ok {
				nummer = fmt.Sprintf("K%d", len(anlagen)+1)
				nummern[b.Anlage] = nummer
				anlagen = append(anlagen, Anlage{Nummer: nummer, Bezeichnung: b.Anlage})
			}
			mittel = fmt.Sprintf("%s (Anlage %s)", mittel, nummer)
		}
		angebote = append(angebote, Beweisangebot{Behauptung: b.Behauptung, Beweismittel: mittel})
	}
	return angebote, anlagen
}

func buildFacts(def *Definition, akte *entity.Akte, slots SlotValues) string {
	var b strings.Builder
	if akte != nil {
		fmt.Fprintf(&b, "Akte: %s (%s)\nMandant: %s, Rolle: %s\nGegner: %s\nGericht: %s\n",
			akte.Aktenzeichen, akte.Titel, akte.MandantName, akte.MandantRolle,
			akte.GegnerName, akte.Gericht)
	}
	b.WriteString("Angaben:\n")

	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, formatSlotValue(slots[k]))
	}
	return b.String()
}

// schaetzeKosten gives a rough fee estimate from the Streitwert. The
// draft flags it as an approximation, exact values come from the RVG/GKG
// tables at billing time.
func schaetzeKosten(streitwert float64) Kosten {
	if streitwert <= 0 {
		return Kosten{Hinweis: "Streitwert offen, Kosten nicht geschätzt."}
	}
	gebuehr := 45 + 30*math.Ceil(streitwert/3000)
	return Kosten{
		Streitwert:     streitwert,
		Gerichtskosten: math.Round(3 * gebuehr),
		Anwaltskosten:  math.Round(2.5 * gebuehr * 1.19),
		Hinweis:        "Überschlägige Schätzung, keine RVG/GKG-Berechnung.",
	}
}

func splitAntraege(text string) []string {
	var antraege []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.)- ")
		if line != "" {
			antraege = append(antraege, line)
		}
	}
	return antraege
}

// firstChars truncates on rune boundaries, umlauts stay intact.
func firstChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
