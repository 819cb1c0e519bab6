package entity

import (
	"time"

	"github.com/google/uuid"
)

type Dokument struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AkteId    uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Titel     string
	Art       string // vertrag, korrespondenz, schriftsatz, sonstiges
	Inhalt    string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
