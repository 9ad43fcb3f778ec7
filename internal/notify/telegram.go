// Package notify pushes advisory booking announcements to Telegram. The
// notifier is a commit observer: it never blocks or fails a booking, a
// delivery error is only logged.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/campusops/roombooking/internal/booking"
)

// TelegramNotifier announces successful bookings to one chat.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

// RoomRegistered is a no-op; registrations are not announced.
func (n *TelegramNotifier) RoomRegistered(ctx context.Context, room booking.RoomSummary) error {
	return nil
}

// ProfessorRegistered is a no-op.
func (n *TelegramNotifier) ProfessorRegistered(ctx context.Context, prof booking.ProfessorSummary) error {
	return nil
}

// BookingCommitted sends one message per committed booking.
func (n *TelegramNotifier) BookingCommitted(ctx context.Context, commit booking.Commit) error {
	text := fmt.Sprintf("Room %s booked on %s at %s\nCourse: %s\nProfessor: %s",
		commit.Room, commit.Date, commit.Slot,
		commit.Record.CourseName, commit.Record.Professor,
	)

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Warn("Telegram notification failed",
			zap.String("booking_id", commit.Record.ID),
			zap.Error(err),
		)
	}

	// Delivery is advisory; the commit already happened.
	return nil
}
