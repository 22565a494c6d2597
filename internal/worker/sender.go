package worker

import (
	"context"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/pkg/logger"
)

// LogSender records deliveries instead of performing them. Used until a
// platform connector (Telegram, WeChat Work) is wired in; the dispatch
// pipeline, counters, and state transitions behave exactly as with a real
// sender.
type LogSender struct{}

// Send logs the delivery. The chat user identifier is redacted by the
// logger.
func (LogSender) Send(ctx context.Context, user domain.BotUser, text string) error {
	logger.Info("broadcast message delivered",
		"platform", user.Platform,
		"chat_user_id", user.ChatUserID,
		"length", len(text))
	return nil
}
