package commands

import (
	"context"

	"github.com/google/uuid"
)

// WinnerNotification is everything an external notifier needs after a draw.
// The engine only supplies the payload; formatting and delivery live outside.
type WinnerNotification struct {
	RaffleID      uuid.UUID
	RaffleName    string
	WinningNumber int
	WinnerUserID  uuid.UUID
	// Participants holds the user ids of everyone with a paid ticket, for
	// broadcast-style notifications.
	Participants []uuid.UUID
}

type Notifier interface {
	NotifyWinner(ctx context.Context, n WinnerNotification) error
}
