package notification

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/wb-go/wbf/logger"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    sender
	logger logger.Logger
}

func NewTelegramNotifier(token string, logger logger.Logger) (*TelegramNotifier, error) {
	if token == "" {
		logger.Warn("telegram bot token is empty, notifications disabled")
		return &TelegramNotifier{bot: nil, logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, logger: logger}, nil
}

func dates(b *domain.Booking) string {
	return fmt.Sprintf("%s – %s", b.StartDate.Format(domain.DateLayout), b.EndDate.Format(domain.DateLayout))
}

func (n *TelegramNotifier) NotifyBookingCreated(ctx context.Context, user *domain.User, offering *domain.Offering, b *domain.Booking) {
	total := domain.ComputeTotal(offering.UnitPrice, b.ParticipantCount, b.StartDate, b.EndDate)
	text := fmt.Sprintf(
		"*Booking confirmed!*\n\n"+"Activity: %s\n"+"Dates: %s\n"+"Participants: %d\n"+"Total: %s",
		offering.Name, dates(b), b.ParticipantCount, total,
	)
	n.send(ctx, user.TelegramChatID, text)
}

func (n *TelegramNotifier) NotifyBookingCancelled(ctx context.Context, user *domain.User, offering *domain.Offering, b *domain.Booking) {
	text := fmt.Sprintf(
		"*Booking cancelled*\n\n"+"Activity: %s\n"+"Dates: %s",
		offering.Name, dates(b),
	)
	n.send(ctx, user.TelegramChatID, text)
}

func (n *TelegramNotifier) NotifyReviewRequested(ctx context.Context, user *domain.User, offering *domain.Offering, b *domain.Booking) {
	text := fmt.Sprintf(
		"*How was %s?*\n\n"+"Your trip on %s is over. Rate it from %d to %d stars in your bookings.",
		offering.Name, dates(b), domain.MinRating, domain.MaxRating,
	)
	n.send(ctx, user.TelegramChatID, text)
}

func (n *TelegramNotifier) send(ctx context.Context, chatID *int64, text string) {
	if n.bot == nil {
		n.logger.Debug("notification skipped (bot disabled)", logger.String("text", text))
		return
	}

	if chatID == nil {
		n.logger.Debug("notification skipped (no chat_id)", logger.String("text", text))
		return
	}

	if err := ctx.Err(); err != nil {
		n.logger.Debug("notification skipped (context cancelled)",
			logger.Int64("chat_id", *chatID),
		)
		return
	}

	msg := tgbotapi.NewMessage(*chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("failed to send telegram notification",
			logger.Int64("chat_id", *chatID),
			logger.String("error", err.Error()),
		)
	}
}
