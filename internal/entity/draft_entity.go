package entity

import (
	"time"

	"github.com/google/uuid"
)

// Draft lifecycle. Drafts are never applied automatically, a lawyer has to
// approve them first.
const (
	DraftStatusPendingApproval = "pending_approval"
	DraftStatusApproved        = "approved"
	DraftStatusRejected        = "rejected"
)

type Draft struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AkteId    uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Art       string // klageart id, e.g. "kuendigungsschutzklage"
	Status    string
	Titel     string
	Inhalt    string
	Meta      []byte // JSON: citations, warnings, open placeholders
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
