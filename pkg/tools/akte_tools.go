package tools

import (
	"context"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// AkteLesenTool loads the core data of a case.
type AkteLesenTool struct{}

func (t *AkteLesenTool) Name() string { return "akte_lesen" }
func (t *AkteLesenTool) Kind() Kind   { return KindRead }
func (t *AkteLesenTool) Description() string {
	return `Liest die Stammdaten einer Akte (Parteien, Gericht, Streitwert, Status). Parameter: {"akte_id": "<uuid, optional wenn Gespräch an Akte hängt>"}`
}

func (t *AkteLesenTool) Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result {
	akteID, err := resolveAkteID(tc, params)
	if err != nil {
		return Errorf("%v", err)
	}

	uow := tc.UOW.NewUnitOfWork(ctx)
	akte, err := uow.AkteRepository().FindOne(ctx, specification.ByID{ID: akteID})
	if err != nil {
		return Errorf("Akte konnte nicht geladen werden: %v", err)
	}
	if akte == nil {
		return Errorf("Akte %s nicht gefunden", akteID)
	}

	return Result{
		Data: map[string]interface{}{
			"aktenzeichen":  akte.Aktenzeichen,
			"titel":         akte.Titel,
			"rechtsgebiet":  akte.Rechtsgebiet,
			"gericht":       akte.Gericht,
			"streitwert":    akte.Streitwert,
			"mandant_name":  akte.MandantName,
			"mandant_rolle": akte.MandantRolle,
			"gegner_name":   akte.GegnerName,
			"status":        akte.Status,
		},
		Sources: []Source{{Table: "akten", ID: akte.Id.String()}},
	}
}

// DokumenteSuchenTool searches case documents by keyword.
type DokumenteSuchenTool struct{}

func (t *DokumenteSuchenTool) Name() string { return "dokumente_suchen" }
func (t *DokumenteSuchenTool) Kind() Kind   { return KindRead }
func (t *DokumenteSuchenTool) Description() string {
	return `Durchsucht die Dokumente einer Akte nach einem Stichwort. Parameter: {"akte_id": "<uuid, optional>", "stichwort": "<Suchbegriff>"}`
}

func (t *DokumenteSuchenTool) Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result {
	akteID, err := resolveAkteID(tc, params)
	if err != nil {
		return Errorf("%v", err)
	}
	stichwort := stringParam(params, "stichwort")
	if stichwort == "" {
		return Errorf("Parameter stichwort fehlt")
	}

	uow := tc.UOW.NewUnitOfWork(ctx)
	docs, err := uow.DokumentRepository().FindAll(ctx,
		specification.ByAkte{AkteID: akteID},
		specification.ContentLike{Keyword: stichwort},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 10},
	)
	if err != nil {
		return Errorf("Dokumentensuche fehlgeschlagen: %v", err)
	}

	items := make([]map[string]interface{}, len(docs))
	sources := make([]Source, len(docs))
	for i, d := range docs {
		items[i] = map[string]interface{}{
			"id":     d.Id.String(),
			"titel":  d.Titel,
			"art":    d.Art,
			"inhalt": truncate(d.Inhalt, 800),
		}
		sources[i] = Source{Table: "dokumente", ID: d.Id.String(), Query: stichwort}
	}

	return Result{
		Data: map[string]interface{}{
			"treffer":   len(items),
			"dokumente": items,
		},
		Sources: sources,
	}
}

// NotizErstellenTool writes a note onto the case.
type NotizErstellenTool struct{}

func (t *NotizErstellenTool) Name() string { return "notiz_erstellen" }
func (t *NotizErstellenTool) Kind() Kind   { return KindWrite }
func (t *NotizErstellenTool) Description() string {
	return `Legt eine Notiz in der Akte an. Parameter: {"akte_id": "<uuid, optional>", "inhalt": "<Text der Notiz>"}`
}

func (t *NotizErstellenTool) Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result {
	akteID, err := resolveAkteID(tc, params)
	if err != nil {
		return Errorf("%v", err)
	}
	inhalt := stringParam(params, "inhalt")
	if inhalt == "" {
		return Errorf("Parameter inhalt fehlt")
	}

	notiz := &entity.AkteNotiz{
		Id:     uuid.New(),
		AkteId: akteID,
		UserId: tc.UserID,
		Inhalt: inhalt,
	}

	uow := tc.UOW.NewUnitOfWork(ctx)
	if err := uow.AkteNotizRepository().Create(ctx, notiz); err != nil {
		return Errorf("Notiz konnte nicht gespeichert werden: %v", err)
	}

	return Result{
		Data: map[string]interface{}{
			"notiz_id": notiz.Id.String(),
			"status":   "gespeichert",
		},
		Sources: []Source{{Table: "akte_notizen", ID: notiz.Id.String()}},
	}
}

// AkteAktualisierenTool updates selected metadata fields of a case. The
// updatable field set is a fixed allowlist, everything else is rejected.
type AkteAktualisierenTool struct{}

func (t *AkteAktualisierenTool) Name() string { return "akte_aktualisieren" }
func (t *AkteAktualisierenTool) Kind() Kind   { return KindWrite }
func (t *AkteAktualisierenTool) Description() string {
	return `Aktualisiert Stammdaten einer Akte. Parameter: {"akte_id": "<uuid, optional>", "felder": {"gericht": "...", "streitwert": 0, "status": "..."}}`
}

var updatableAkteFields = map[string]bool{
	"gericht":    true,
	"streitwert": true,
	"status":     true,
}

func (t *AkteAktualisierenTool) Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result {
	akteID, err := resolveAkteID(tc, params)
	if err != nil {
		return Errorf("%v", err)
	}
	felder, ok := params["felder"].(map[string]interface{})
	if !ok || len(felder) == 0 {
		return Errorf("Parameter felder fehlt oder ist leer")
	}
	for key := range felder {
		if !updatableAkteFields[key] {
			return Errorf("Feld %q darf nicht über den Agenten geändert werden", key)
		}
	}

	uow := tc.UOW.NewUnitOfWork(ctx)
	repo := uow.AkteRepository()
	akte, err := repo.FindOne(ctx, specification.ByID{ID: akteID})
	if err != nil {
		return Errorf("Akte konnte nicht geladen werden: %v", err)
	}
	if akte == nil {
		return Errorf("Akte %s nicht gefunden", akteID)
	}

	if v, ok := felder["gericht"].(string); ok {
		akte.Gericht = v
	}
	if v, ok := felder["streitwert"].(float64); ok {
		akte.Streitwert = v
	}
	if v, ok := felder["status"].(string); ok {
		akte.Status = v
	}

	if err := repo.Update(ctx, akte); err != nil {
		return Errorf("Akte konnte nicht aktualisiert werden: %v", err)
	}

	return Result{
		Data: map[string]interface{}{
			"status":            "aktualisiert",
			"geaenderte_felder": keysOf(felder),
		},
		Sources: []Source{{Table: "akten", ID: akte.Id.String()}},
	}
}

// EntwuerfeLesenTool lists the drafts attached to a case.
type EntwuerfeLesenTool struct{}

func (t *EntwuerfeLesenTool) Name() string { return "entwuerfe_lesen" }
func (t *EntwuerfeLesenTool) Kind() Kind   { return KindRead }
func (t *EntwuerfeLesenTool) Description() string {
	return `Listet die Schriftsatz-Entwürfe einer Akte mit Status. Parameter: {"akte_id": "<uuid, optional>"}`
}

func (t *EntwuerfeLesenTool) Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result {
	akteID, err := resolveAkteID(tc, params)
	if err != nil {
		return Errorf("%v", err)
	}

	uow := tc.UOW.NewUnitOfWork(ctx)
	drafts, err := uow.DraftRepository().FindAll(ctx,
		specification.ByAkte{AkteID: akteID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return Errorf("Entwürfe konnten nicht geladen werden: %v", err)
	}

	items := make([]map[string]interface{}, len(drafts))
	sources := make([]Source, len(drafts))
	for i, d := range drafts {
		items[i] = map[string]interface{}{
			"id":     d.Id.String(),
			"art":    d.Art,
			"titel":  d.Titel,
			"status": d.Status,
		}
		sources[i] = Source{Table: "drafts", ID: d.Id.String()}
	}

	return Result{
		Data: map[string]interface{}{
			"anzahl":    len(items),
			"entwuerfe": items,
		},
		Sources: sources,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func keysOf(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// DefaultTools returns the standard tool set wired into every Helena run,
// before role filtering.
func DefaultTools() []Tool {
	return []Tool{
		&AkteLesenTool{},
		&DokumenteSuchenTool{},
		&EntwuerfeLesenTool{},
		&NotizErstellenTool{},
		&AkteAktualisierenTool{},
	}
}
