package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type LegalChunk struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceType   string          `gorm:"type:varchar(32);not null;index"`
	Referenz     string          `gorm:"type:varchar(255);not null"`
	Titel        string          `gorm:"type:varchar(255)"`
	Inhalt       string          `gorm:"type:text;not null"`
	Rechtsgebiet string          `gorm:"type:varchar(64);index"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)"`
	// Populated by similarity queries, never stored.
	Similarity float64   `gorm:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (LegalChunk) TableName() string {
	return "legal_chunks"
}
