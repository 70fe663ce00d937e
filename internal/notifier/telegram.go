// Package notifier pushes training outcomes to an admin Telegram chat.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"backend/internal/training"
)

// Telegram sends retrain outcome messages to a configured chat. Failures to
// deliver are logged and never propagate into the training path.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) RetrainSucceeded(result training.Result) {
	text := fmt.Sprintf(
		"✅ Model retrained\nVersion: %s\nAccuracy: %.2f%%\nSamples: %d\nFeedback used: %d",
		result.Version, result.Accuracy*100, result.TrainingSamples, result.FeedbackUsed,
	)
	t.send(text)
}

func (t *Telegram) RetrainFailed(err error) {
	t.send(fmt.Sprintf("⚠️ Model retraining failed: %v", err))
}

func (t *Telegram) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Failed to send telegram notification", zap.Error(err))
	}
}
