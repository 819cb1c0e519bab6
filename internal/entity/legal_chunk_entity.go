package entity

import (
	"time"

	"github.com/google/uuid"
)

// Legal knowledge base source types.
const (
	ChunkSourceGesetz         = "gesetz"
	ChunkSourceRechtsprechung = "rechtsprechung"
	ChunkSourceMuster         = "muster"
)

type LegalChunk struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SourceType   string
	Referenz     string // e.g. "§ 4 KSchG", "BAG 2 AZR 235/21"
	Titel        string
	Inhalt       string
	Rechtsgebiet string
	Embedding    []float32
	// Similarity is only populated by vector search, 0..1.
	Similarity float64
	CreatedAt  time.Time
}
