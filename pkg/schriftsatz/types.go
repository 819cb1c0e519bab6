package schriftsatz

import (
	"time"

	"github.com/google/uuid"
)

// SlotValues holds the filled slot values of a drafting run. Values are
// JSON scalar types; a string of the form "{{KEY}}" is an accepted but
// unresolved placeholder.
type SlotValues map[string]interface{}

// Intent is the routing decision for a drafting request.
type Intent struct {
	KlageartId      string  `json:"klageart_id"`
	Rechtsgebiet    string  `json:"rechtsgebiet"`
	Gerichtsbarkeit string  `json:"gerichtsbarkeit"`
	Verfahrensstand string  `json:"verfahrensstand"`
	Parteirolle     string  `json:"parteirolle"`
	Gericht         string  `json:"gericht,omitempty"`
	Confidence      float64 `json:"confidence"`
	Begruendung     string  `json:"begruendung"`
}

// Rubrum is the head of a German court filing.
type Rubrum struct {
	Gericht          string `json:"gericht"`
	Aktenzeichen     string `json:"aktenzeichen,omitempty"`
	KlaegerName      string `json:"klaeger_name"`
	KlaegerAdresse   string `json:"klaeger_adresse"`
	BeklagterName    string `json:"beklagter_name"`
	BeklagterAdresse string `json:"beklagter_adresse"`
	Betreff          string `json:"betreff"`
	Datum            string `json:"datum"`
}

// Beweisangebot pairs a factual claim with its offered proof.
type Beweisangebot struct {
	Behauptung   string `json:"behauptung"`
	Beweismittel string `json:"beweismittel"`
}

// Anlage is a numbered exhibit (K1, K2, ...).
type Anlage struct {
	Nummer      string `json:"nummer"`
	Bezeichnung string `json:"bezeichnung"`
}

// Kosten estimates court and attorney fees from the Streitwert.
type Kosten struct {
	Streitwert     float64 `json:"streitwert"`
	Gerichtskosten float64 `json:"gerichtskosten"`
	Anwaltskosten  float64 `json:"anwaltskosten"`
	Hinweis        string  `json:"hinweis,omitempty"`
}

// Zitat records one knowledge base chunk that flowed into the draft.
type Zitat struct {
	ChunkId    uuid.UUID `json:"chunk_id"`
	SourceType string    `json:"source_type"`
	Referenz   string    `json:"referenz"`
	Similarity float64   `json:"similarity"`
	Auszug     string    `json:"auszug,omitempty"`
}

// Compliance warning severities and categories.
const (
	SchwereInfo     = "info"
	SchwereWarnung  = "warnung"
	SchwereKritisch = "kritisch"

	KategorieInhalt = "inhalt"
	KategorieForm   = "form"
	KategorieFrist  = "frist"
)

type Warnung struct {
	Kategorie string `json:"kategorie"`
	Schwere   string `json:"schwere"`
	Meldung   string `json:"meldung"`
	Feld      string `json:"feld,omitempty"`
}

// Schriftsatz is the assembled filing before rendering.
type Schriftsatz struct {
	KlageartId           string          `json:"klageart_id"`
	Rubrum               Rubrum          `json:"rubrum"`
	Antraege             []string        `json:"antraege"`
	Sachverhalt          string          `json:"sachverhalt"`
	RechtlicheWuerdigung string          `json:"rechtliche_wuerdigung"`
	Beweisangebote       []Beweisangebot `json:"beweisangebote,omitempty"`
	Anlagen              []Anlage        `json:"anlagen,omitempty"`
	Kosten               Kosten          `json:"kosten"`
	Schlussformel        string          `json:"schlussformel"`
	Zitate               []Zitat         `json:"zitate,omitempty"`
	OffenePlatzhalter    []string        `json:"offene_platzhalter,omitempty"`
	Warnungen            []Warnung       `json:"warnungen,omitempty"`
	ErstelltAm           time.Time       `json:"erstellt_am"`
}

// Pipeline result statuses.
const (
	StatusComplete   = "complete"
	StatusNeedsInput = "needs_input"
	StatusError      = "error"
)

// PipelineResult is what the drafting pipeline hands back to the agent
// service.
type PipelineResult struct {
	Status    string     `json:"status"`
	Frage     string     `json:"frage,omitempty"`
	Intent    *Intent    `json:"intent,omitempty"`
	DraftId   *uuid.UUID `json:"draft_id,omitempty"`
	Titel     string     `json:"titel,omitempty"`
	Text      string     `json:"text,omitempty"`
	Warnungen []Warnung  `json:"warnungen,omitempty"`
	Runde     int        `json:"runde"`
}
