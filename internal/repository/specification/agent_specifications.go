package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByOwner filters cases by the owning user.
type ByOwner struct {
	OwnerID uuid.UUID
}

func (s ByOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}

// ByUser filters by user_id.
type ByUser struct {
	UserID uuid.UUID
}

func (s ByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByAkte filters by akte_id.
type ByAkte struct {
	AkteID uuid.UUID
}

func (s ByAkte) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("akte_id = ?", s.AkteID)
}

// BySession filters agent messages by their session.
type BySession struct {
	SessionID uuid.UUID
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// BySourceType filters legal chunks by knowledge source.
type BySourceType struct {
	SourceType string
}

func (s BySourceType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_type = ?", s.SourceType)
}

// ByStatus filters drafts by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ContentLike matches documents whose title or content contains the
// keyword, case insensitively.
type ContentLike struct {
	Keyword string
}

func (s ContentLike) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Keyword + "%"
	return db.Where("titel ILIKE ? OR inhalt ILIKE ?", pattern, pattern)
}
