package models

import (
	"time"
)

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent is published after every successful product mutation.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	ProductID  string           `json:"productId"`
	OwnerID    string           `json:"ownerId"`
	ActorID    string           `json:"actorId"`
	OccurredAt time.Time        `json:"occurredAt"`
	Product    *Product         `json:"product,omitempty"`
}

func NewProductEvent(typ ProductEventType, actor Caller, p *Product, at time.Time) ProductEvent {
	return ProductEvent{
		Type:       typ,
		ProductID:  p.ID.Hex(),
		OwnerID:    p.OwnerID.Hex(),
		ActorID:    actor.ID.Hex(),
		OccurredAt: at.UTC(),
		Product:    p,
	}
}
