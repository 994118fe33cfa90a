package notify

import (
	"context"
	"log/slog"

	"raffle-engine/internal/usecase/commands"
)

// LogNotifier publishes winner announcements to the structured log. It stands
// in for a real push or mail gateway; swapping it out only needs another
// implementation of commands.Notifier.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyWinner(ctx context.Context, msg commands.WinnerNotification) error {
	n.logger.InfoContext(ctx, "raffle winner drawn",
		"raffle_id", msg.RaffleID,
		"raffle_name", msg.RaffleName,
		"winning_number", msg.WinningNumber,
		"winner_user_id", msg.WinnerUserID,
		"participant_count", len(msg.Participants),
	)
	return nil
}
