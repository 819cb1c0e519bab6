package main

import (
	"context"
	"log"

	"kanzlei-ai-be/internal/config"
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/pkg/database"
	"kanzlei-ai-be/pkg/embedding"

	"github.com/google/uuid"
)

type seedChunk struct {
	SourceType   string
	Referenz     string
	Titel        string
	Inhalt       string
	Rechtsgebiet string
}

// Starter knowledge base for retrieval. Real deployments replace this
// with a proper corpus import, the seeder only makes a fresh instance
// usable.
var seedChunks = []seedChunk{
	{
		SourceType:   entity.ChunkSourceGesetz,
		Referenz:     "§ 4 S. 1 KSchG",
		Titel:        "Anrufung des Arbeitsgerichts",
		Inhalt:       "Will ein Arbeitnehmer geltend machen, dass eine Kündigung sozial ungerechtfertigt oder aus anderen Gründen rechtsunwirksam ist, so muss er innerhalb von drei Wochen nach Zugang der schriftlichen Kündigung Klage beim Arbeitsgericht auf Feststellung erheben, dass das Arbeitsverhältnis durch die Kündigung nicht aufgelöst ist.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceGesetz,
		Referenz:     "§ 1 Abs. 2 KSchG",
		Titel:        "Sozial ungerechtfertigte Kündigungen",
		Inhalt:       "Sozial ungerechtfertigt ist die Kündigung, wenn sie nicht durch Gründe, die in der Person oder in dem Verhalten des Arbeitnehmers liegen, oder durch dringende betriebliche Erfordernisse, die einer Weiterbeschäftigung des Arbeitnehmers in diesem Betrieb entgegenstehen, bedingt ist.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceGesetz,
		Referenz:     "§ 7 KSchG",
		Titel:        "Wirksamwerden der Kündigung",
		Inhalt:       "Wird die Rechtsunwirksamkeit einer Kündigung nicht rechtzeitig geltend gemacht, so gilt die Kündigung als von Anfang an rechtswirksam.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceGesetz,
		Referenz:     "§ 611a BGB",
		Titel:        "Arbeitsvertrag",
		Inhalt:       "Durch den Arbeitsvertrag wird der Arbeitnehmer im Dienste eines anderen zur Leistung weisungsgebundener, fremdbestimmter Arbeit in persönlicher Abhängigkeit verpflichtet. Der Arbeitgeber ist zur Zahlung der vereinbarten Vergütung verpflichtet.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceGesetz,
		Referenz:     "§ 130a ZPO",
		Titel:        "Elektronisches Dokument",
		Inhalt:       "Vorbereitende Schriftsätze und deren Anlagen sowie schriftlich einzureichende Anträge und Erklärungen der Parteien können als elektronisches Dokument bei Gericht eingereicht werden. Das elektronische Dokument muss für die Bearbeitung durch das Gericht geeignet sein und mit einer qualifizierten elektronischen Signatur der verantwortenden Person versehen sein oder von der verantwortenden Person signiert und auf einem sicheren Übermittlungsweg eingereicht werden.",
		Rechtsgebiet: "zivilprozessrecht",
	},
	{
		SourceType:   entity.ChunkSourceGesetz,
		Referenz:     "§ 935 ZPO",
		Titel:        "Einstweilige Verfügung bezüglich Streitgegenstand",
		Inhalt:       "Einstweilige Verfügungen in Bezug auf den Streitgegenstand sind zulässig, wenn zu besorgen ist, dass durch eine Veränderung des bestehenden Zustandes die Verwirklichung des Rechts einer Partei vereitelt oder wesentlich erschwert werden könnte.",
		Rechtsgebiet: "zivilprozessrecht",
	},
	{
		SourceType:   entity.ChunkSourceRechtsprechung,
		Referenz:     "BAG 2 AZR 235/21",
		Titel:        "Zugang der Kündigungserklärung",
		Inhalt:       "Eine verkörperte Willenserklärung geht unter Abwesenden zu, sobald sie in verkehrsüblicher Weise in die tatsächliche Verfügungsgewalt des Empfängers gelangt ist und für diesen unter gewöhnlichen Verhältnissen die Möglichkeit besteht, von ihr Kenntnis zu nehmen. Ein in den Hausbriefkasten eingeworfenes Kündigungsschreiben geht zu, sobald nach der Verkehrsanschauung mit der nächsten Entnahme zu rechnen ist.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceRechtsprechung,
		Referenz:     "BAG 5 AZR 359/21",
		Titel:        "Annahmeverzugslohn und Auskunftsanspruch",
		Inhalt:       "Der Arbeitgeber schuldet nach § 615 BGB Annahmeverzugslohn, wenn er die vom Arbeitnehmer angebotene Arbeitsleistung nicht annimmt. Der Arbeitnehmer muss sich anderweitigen Verdienst sowie böswillig unterlassenen Verdienst anrechnen lassen.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceMuster,
		Referenz:     "muster-kschk-antrag",
		Titel:        "Antragsformulierung Kündigungsschutzklage",
		Inhalt:       "Es wird festgestellt, dass das Arbeitsverhältnis der Parteien durch die Kündigung der Beklagten vom [DATUM] nicht aufgelöst worden ist. Hilfsweise wird beantragt, die Beklagte zu verurteilen, den Kläger zu unveränderten Arbeitsbedingungen weiterzubeschäftigen.",
		Rechtsgebiet: "arbeitsrecht",
	},
	{
		SourceType:   entity.ChunkSourceMuster,
		Referenz:     "muster-lohnklage-antrag",
		Titel:        "Antragsformulierung Lohnklage",
		Inhalt:       "Die Beklagte wird verurteilt, an den Kläger [BETRAG] EUR brutto nebst Zinsen in Höhe von fünf Prozentpunkten über dem Basiszinssatz seit Rechtshängigkeit zu zahlen.",
		Rechtsgebiet: "arbeitsrecht",
	},
}

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	repo := uowFactory.NewUnitOfWork(ctx).LegalChunkRepository()

	existing, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to count legal chunks: %v", err)
	}
	if existing > 0 {
		log.Printf("Skipping seed: legal_chunks already has %d rows", existing)
		return
	}

	log.Printf("Embedding %d legal chunks...", len(seedChunks))

	chunks := make([]*entity.LegalChunk, 0, len(seedChunks))
	for _, sc := range seedChunks {
		resp, err := provider.Generate(sc.Inhalt, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Fatalf("Error: Failed to embed %q: %v", sc.Referenz, err)
		}
		chunks = append(chunks, &entity.LegalChunk{
			Id:           uuid.New(),
			SourceType:   sc.SourceType,
			Referenz:     sc.Referenz,
			Titel:        sc.Titel,
			Inhalt:       sc.Inhalt,
			Rechtsgebiet: sc.Rechtsgebiet,
			Embedding:    resp.Embedding.Values,
		})
		log.Printf("  embedded %s", sc.Referenz)
	}

	if err := repo.CreateBatch(ctx, chunks); err != nil {
		log.Fatalf("Error: Failed to insert legal chunks: %v", err)
	}

	log.Printf("Success: Seeded %d legal chunks.", len(chunks))
}
