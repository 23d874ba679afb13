package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventProductSaved   EventType = "product_saved"
	EventProductDeleted EventType = "product_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ProductSavedPayload payload.
type ProductSavedPayload struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Created   bool   `json:"created"`
}

// ProductDeletedPayload payload.
type ProductDeletedPayload struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
}
