package response

import (
	"raffle-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	PurchaseID     uuid.UUID           `json:"purchaseId"`
	RaffleID       uuid.UUID           `json:"raffleId"`
	Quantity       int                 `json:"quantity"`
	UnitPriceCents int64               `json:"unitPriceCents"`
	AmountCents    int64               `json:"amountCents"`
	Allocation     *AllocationResponse `json:"allocation,omitempty"`
}

type AllocationResponse struct {
	PurchaseID      uuid.UUID `json:"purchaseId"`
	RaffleID        uuid.UUID `json:"raffleId"`
	Status          string    `json:"status"`
	AssignedNumbers []int     `json:"assignedNumbers,omitempty"`
	CancelReason    string    `json:"cancelReason,omitempty"`
	Replayed        bool      `json:"replayed"`
	RaffleLocked    bool      `json:"raffleLocked"`
}

func FromPurchaseReceipt(receipt *commands.PurchaseReceipt) *PurchaseResponse {
	resp := &PurchaseResponse{
		PurchaseID:     receipt.PurchaseID,
		RaffleID:       receipt.RaffleID,
		Quantity:       receipt.Quantity,
		UnitPriceCents: receipt.UnitPriceCents,
		AmountCents:    receipt.AmountCents,
	}
	if receipt.Allocation != nil {
		resp.Allocation = FromAllocationResult(receipt.Allocation)
	}
	return resp
}

func FromAllocationResult(result *commands.AllocationResult) *AllocationResponse {
	return &AllocationResponse{
		PurchaseID:      result.PurchaseID,
		RaffleID:        result.RaffleID,
		Status:          string(result.Status),
		AssignedNumbers: result.AssignedNumbers,
		CancelReason:    result.CancelReason,
		Replayed:        result.Replayed,
		RaffleLocked:    result.RaffleLocked,
	}
}
