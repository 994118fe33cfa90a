package request

import (
	"github.com/google/uuid"
)

type CreatePurchaseRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// PaymentWebhookRequest mirrors the payload the payment gateway posts on a
// confirmed charge. Only the purchase reference matters to the engine.
type PaymentWebhookRequest struct {
	PurchaseID uuid.UUID `json:"purchase_id" binding:"required"`
	EventType  string    `json:"event_type"`
	ProviderID string    `json:"provider_id,omitempty"`
}
