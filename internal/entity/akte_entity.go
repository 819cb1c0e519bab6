package entity

import (
	"time"

	"github.com/google/uuid"
)

// Party roles of the Mandant within a case.
const (
	RolleKlaeger   = "klaeger"
	RolleBeklagter = "beklagter"
)

type Akte struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Aktenzeichen   string
	Titel          string
	Rechtsgebiet   string
	Gericht        string
	Streitwert     float64
	MandantName    string
	MandantAdresse string
	MandantRolle   string
	GegnerName     string
	GegnerAdresse  string
	Status         string
	OwnerId        uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

type AkteNotiz struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AkteId    uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Inhalt    string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
