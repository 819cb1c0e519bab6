package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Akte struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Aktenzeichen   string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Titel          string    `gorm:"type:varchar(255);not null"`
	Rechtsgebiet   string    `gorm:"type:varchar(64);index"`
	Gericht        string    `gorm:"type:varchar(255)"`
	Streitwert     float64
	MandantName    string         `gorm:"type:varchar(255);not null"`
	MandantAdresse string         `gorm:"type:text"`
	MandantRolle   string         `gorm:"type:varchar(16)"`
	GegnerName     string         `gorm:"type:varchar(255)"`
	GegnerAdresse  string         `gorm:"type:text"`
	Status         string         `gorm:"type:varchar(32);default:'offen'"`
	OwnerId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Akte) TableName() string {
	return "akten"
}

type AkteNotiz struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AkteId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Inhalt    string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AkteNotiz) TableName() string {
	return "akte_notizen"
}
