package mapper

import (
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/model"

	"gorm.io/datatypes"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}

	return &entity.Notification{
		Id:        n.Id,
		UserId:    n.UserId,
		Typ:       n.Typ,
		Titel:     n.Titel,
		Nachricht: n.Nachricht,
		DataJSON:  []byte(n.DataJSON),
		Gelesen:   n.Gelesen,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}

	return &model.Notification{
		Id:        n.Id,
		UserId:    n.UserId,
		Typ:       n.Typ,
		Titel:     n.Titel,
		Nachricht: n.Nachricht,
		DataJSON:  datatypes.JSON(n.DataJSON),
		Gelesen:   n.Gelesen,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NotificationMapper) ToEntities(ns []*model.Notification) []*entity.Notification {
	entities := make([]*entity.Notification, len(ns))
	for i, n := range ns {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
