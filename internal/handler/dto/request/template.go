package request

import (
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/domain/template"

	"github.com/google/uuid"
)

type SaveTemplateRequest struct {
	ID             *uuid.UUID `json:"id,omitempty"`
	Name           string     `json:"name" binding:"required"`
	Capacity       *int       `json:"capacity,omitempty"`
	UnitPriceCents *int64     `json:"unit_price_cents,omitempty"`
	PrizeCostCents int64      `json:"prize_cost_cents" binding:"required"`
	MarginPercent  *float64   `json:"margin_percent,omitempty"`
	TicketCount    *int       `json:"ticket_count,omitempty"`
	Active         bool       `json:"active"`
}

func (r SaveTemplateRequest) ToParams() template.Params {
	params := template.Params{
		Name:          r.Name,
		Capacity:      r.Capacity,
		PrizeCost:     raffle.NewMoney(r.PrizeCostCents),
		MarginPercent: r.MarginPercent,
		TicketCount:   r.TicketCount,
		Active:        r.Active,
	}
	if r.ID != nil {
		params.ID = *r.ID
	}
	if r.UnitPriceCents != nil {
		m := raffle.NewMoney(*r.UnitPriceCents)
		params.UnitPrice = &m
	}
	return params
}
