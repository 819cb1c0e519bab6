package schriftsatz

import (
	"fmt"
	"sort"
	"strings"
)

// Slot value types used for question phrasing and parsing.
const (
	SlotText  = "text"
	SlotDatum = "datum"
	SlotZahl  = "zahl"
)

// SlotDef describes one piece of information a Klageart needs.
type SlotDef struct {
	Key      string
	Label    string
	Typ      string
	Beispiel string
}

// SectionDef describes one section of the filing. Generiert sections are
// written by the model from retrieved context, the rest is assembled
// deterministically.
type SectionDef struct {
	ID            string
	Titel         string
	QueryTemplate string
	Quellen       []string
	Generiert     bool
}

// Streitwert rules. Data driven so new Klagearten stay declarative.
const (
	StreitwertFest           = "fest"
	StreitwertAusSlot        = "aus_slot"
	StreitwertQuartalsgehalt = "quartalsgehalt" // 3 months pay, § 42 Abs. 2 GKG
)

type StreitwertRegel struct {
	Art     string
	SlotKey string
	Betrag  float64
	Faktor  float64
}

// Berechnen resolves the Streitwert from the rule and the filled slots.
func (r StreitwertRegel) Berechnen(slots SlotValues) float64 {
	switch r.Art {
	case StreitwertFest:
		return r.Betrag
	case StreitwertAusSlot:
		return numericSlot(slots, r.SlotKey)
	case StreitwertQuartalsgehalt:
		return numericSlot(slots, r.SlotKey) * 3
	default:
		return 0
	}
}

func numericSlot(slots SlotValues, key string) float64 {
	switch v := slots[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// BeweisDef is a declarative evidence offer. Behauptung may carry slot
// placeholders, Anlage names the exhibit document the offer is backed by.
type BeweisDef struct {
	Behauptung   string
	Beweismittel string
	Anlage       string
}

// FristDef is a statutory deadline anchored on a date slot.
type FristDef struct {
	SlotKey      string
	FristTage    int
	Paragraf     string
	Beschreibung string
}

// Definition is the declarative description of one Klageart.
type Definition struct {
	ID              string
	Name            string
	Rechtsgebiet    string
	Gerichtsbarkeit string
	PflichtSlots    []SlotDef
	OptionaleSlots  []SlotDef
	Defaults        SlotValues
	Sections        []SectionDef
	Beweise         []BeweisDef
	Streitwert      StreitwertRegel
	Fristen         []FristDef
	Schlussformel   string
}

const GenerischID = "generisch"

// Registry holds the known Klagearten.
type Registry struct {
	defs  map[string]*Definition
	order []string
}

func NewRegistry() *Registry {
	r := &Registry{defs: map[string]*Definition{}}
	for _, def := range builtinDefinitions() {
		r.Register(def)
	}
	return r
}

func (r *Registry) Register(def *Definition) {
	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.defs[def.ID] = def
}

// Get resolves a Klageart, falling back to the generic filing.
func (r *Registry) Get(id string) *Definition {
	if def, ok := r.defs[id]; ok {
		return def
	}
	return r.defs[GenerischID]
}

func (r *Registry) Has(id string) bool {
	_, ok := r.defs[id]
	return ok
}

func (r *Registry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

// FormatForPrompt renders the Klageart list for the intent router prompt.
func (r *Registry) FormatForPrompt() string {
	var b strings.Builder
	for _, id := range r.order {
		def := r.defs[id]
		fmt.Fprintf(&b, "- %s: %s (%s)\n", def.ID, def.Name, def.Rechtsgebiet)
	}
	return b.String()
}

func builtinDefinitions() []*Definition {
	return []*Definition{
		{
			ID:              "kuendigungsschutzklage",
			Name:            "Kündigungsschutzklage",
			Rechtsgebiet:    "arbeitsrecht",
			Gerichtsbarkeit: "arbeitsgericht",
			PflichtSlots: []SlotDef{
				{Key: "ZUGANG_DATUM", Label: "Datum des Zugangs der Kündigung", Typ: SlotDatum, Beispiel: "14.02.2025"},
				{Key: "KUENDIGUNG_ART", Label: "Art der Kündigung (ordentlich/außerordentlich)", Typ: SlotText, Beispiel: "ordentlich"},
				{Key: "MONATSGEHALT", Label: "Bruttomonatsgehalt des Mandanten", Typ: SlotZahl, Beispiel: "3800"},
				{Key: "BESCHAEFTIGT_SEIT", Label: "Beschäftigungsbeginn", Typ: SlotDatum, Beispiel: "01.04.2019"},
			},
			OptionaleSlots: []SlotDef{
				{Key: "BETRIEBSRAT", Label: "Wurde der Betriebsrat angehört", Typ: SlotText},
				{Key: "KUENDIGUNGSGRUND", Label: "Vom Arbeitgeber genannter Kündigungsgrund", Typ: SlotText},
			},
			Defaults: SlotValues{
				"KUENDIGUNG_ART": "ordentlich",
			},
			Sections: []SectionDef{
				{ID: "antraege", Titel: "Anträge", QueryTemplate: "Klageantrag Kündigungsschutzklage § 4 KSchG", Quellen: []string{"muster"}, Generiert: true},
				{ID: "sachverhalt", Titel: "Sachverhalt", QueryTemplate: "Kündigung Arbeitsverhältnis {{KUENDIGUNGSGRUND}} Sachverhaltsdarstellung", Quellen: []string{"muster"}, Generiert: true},
				{ID: "wuerdigung", Titel: "Rechtliche Würdigung", QueryTemplate: "Sozialwidrigkeit {{KUENDIGUNG_ART}} Kündigung § 1 KSchG Rechtsprechung", Quellen: []string{"gesetz", "rechtsprechung"}, Generiert: true},
			},
			Beweise: []BeweisDef{
				{Behauptung: "Die Kündigung ging dem Kläger am {{ZUGANG_DATUM}} zu.", Beweismittel: "Vorlage des Kündigungsschreibens", Anlage: "Kündigungsschreiben"},
				{Behauptung: "Der Kläger ist seit dem {{BESCHAEFTIGT_SEIT}} bei der Beklagten beschäftigt.", Beweismittel: "Vorlage des Arbeitsvertrags", Anlage: "Arbeitsvertrag"},
			},
			Streitwert: StreitwertRegel{Art: StreitwertQuartalsgehalt, SlotKey: "MONATSGEHALT"},
			Fristen: []FristDef{
				{SlotKey: "ZUGANG_DATUM", FristTage: 21, Paragraf: "§ 4 S. 1 KSchG", Beschreibung: "Klagefrist nach Zugang der Kündigung"},
			},
			Schlussformel: "Rechtsanwalt",
		},
		{
			ID:              "lohnklage",
			Name:            "Klage auf Zahlung rückständiger Vergütung",
			Rechtsgebiet:    "arbeitsrecht",
			Gerichtsbarkeit: "arbeitsgericht",
			PflichtSlots: []SlotDef{
				{Key: "FORDERUNG_BETRAG", Label: "Offener Bruttobetrag", Typ: SlotZahl, Beispiel: "5400"},
				{Key: "FORDERUNG_ZEITRAUM", Label: "Zeitraum der offenen Vergütung", Typ: SlotText, Beispiel: "Januar bis März 2025"},
				{Key: "FAELLIGKEIT_DATUM", Label: "Fälligkeitsdatum", Typ: SlotDatum, Beispiel: "31.03.2025"},
			},
			Defaults: SlotValues{},
			Sections: []SectionDef{
				{ID: "antraege", Titel: "Anträge", QueryTemplate: "Klageantrag Zahlungsklage Arbeitsentgelt Verzugszinsen", Quellen: []string{"muster"}, Generiert: true},
				{ID: "sachverhalt", Titel: "Sachverhalt", QueryTemplate: "rückständige Vergütung {{FORDERUNG_ZEITRAUM}} Arbeitsverhältnis", Quellen: []string{"muster"}, Generiert: true},
				{ID: "wuerdigung", Titel: "Rechtliche Würdigung", QueryTemplate: "Vergütungsanspruch § 611a BGB Verzug § 288 BGB", Quellen: []string{"gesetz", "rechtsprechung"}, Generiert: true},
			},
			Beweise: []BeweisDef{
				{Behauptung: "Für den Zeitraum {{FORDERUNG_ZEITRAUM}} steht Vergütung in Höhe von {{FORDERUNG_BETRAG}} EUR brutto offen.", Beweismittel: "Vorlage der Lohnabrechnungen", Anlage: "Lohnabrechnungen"},
				{Behauptung: "Zwischen den Parteien besteht ein Arbeitsverhältnis.", Beweismittel: "Vorlage des Arbeitsvertrags", Anlage: "Arbeitsvertrag"},
			},
			Streitwert:    StreitwertRegel{Art: StreitwertAusSlot, SlotKey: "FORDERUNG_BETRAG"},
			Schlussformel: "Rechtsanwalt",
		},
		{
			ID:              "einstweilige_verfuegung",
			Name:            "Antrag auf Erlass einer einstweiligen Verfügung",
			Rechtsgebiet:    "zivilrecht",
			Gerichtsbarkeit: "landgericht",
			PflichtSlots: []SlotDef{
				{Key: "VERFUEGUNGSANSPRUCH", Label: "Zu sichernder Anspruch", Typ: SlotText},
				{Key: "VERFUEGUNGSGRUND", Label: "Grund der Eilbedürftigkeit", Typ: SlotText},
				{Key: "KENNTNIS_DATUM", Label: "Datum der Kenntnis vom Verstoß", Typ: SlotDatum, Beispiel: "02.05.2025"},
			},
			Defaults: SlotValues{},
			Sections: []SectionDef{
				{ID: "antraege", Titel: "Anträge", QueryTemplate: "Antrag einstweilige Verfügung §§ 935, 940 ZPO", Quellen: []string{"muster"}, Generiert: true},
				{ID: "sachverhalt", Titel: "Sachverhalt und Glaubhaftmachung", QueryTemplate: "Glaubhaftmachung § 294 ZPO eidesstattliche Versicherung", Quellen: []string{"muster", "gesetz"}, Generiert: true},
				{ID: "wuerdigung", Titel: "Rechtliche Würdigung", QueryTemplate: "Verfügungsanspruch {{VERFUEGUNGSANSPRUCH}} Verfügungsgrund Dringlichkeit Rechtsprechung", Quellen: []string{"gesetz", "rechtsprechung"}, Generiert: true},
			},
			Beweise: []BeweisDef{
				{Behauptung: "Der Antragsteller erlangte am {{KENNTNIS_DATUM}} Kenntnis von dem Verstoß.", Beweismittel: "Eidesstattliche Versicherung", Anlage: "Eidesstattliche Versicherung"},
			},
			Streitwert: StreitwertRegel{Art: StreitwertFest, Betrag: 10000},
			Fristen: []FristDef{
				{SlotKey: "KENNTNIS_DATUM", FristTage: 30, Paragraf: "Dringlichkeitsfrist (st. Rspr.)", Beschreibung: "Selbstwiderlegung der Dringlichkeit bei Zuwarten"},
			},
			Schlussformel: "Rechtsanwalt",
		},
		{
			ID:              GenerischID,
			Name:            "Allgemeiner Schriftsatz",
			Rechtsgebiet:    "allgemein",
			Gerichtsbarkeit: "unbekannt",
			PflichtSlots: []SlotDef{
				{Key: "GEGENSTAND", Label: "Gegenstand des Schriftsatzes", Typ: SlotText},
			},
			Defaults: SlotValues{},
			Sections: []SectionDef{
				{ID: "antraege", Titel: "Anträge", QueryTemplate: "Klageantrag Muster Zivilprozess", Quellen: []string{"muster"}, Generiert: true},
				{ID: "sachverhalt", Titel: "Sachverhalt", QueryTemplate: "Sachverhaltsdarstellung Schriftsatz {{GEGENSTAND}}", Quellen: []string{"muster"}, Generiert: true},
				{ID: "wuerdigung", Titel: "Rechtliche Würdigung", QueryTemplate: "rechtliche Würdigung", Quellen: []string{"gesetz", "rechtsprechung"}, Generiert: true},
			},
			Streitwert:    StreitwertRegel{Art: StreitwertAusSlot, SlotKey: "STREITWERT"},
			Schlussformel: "Rechtsanwalt",
		},
	}
}
