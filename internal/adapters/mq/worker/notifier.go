package worker

import (
	"context"

	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/pkg/logger"
)

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n model.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n model.Notification) error { return f(ctx, n) }

// LogNotifier writes every notification to the log. It is the default
// delivery channel.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier returns a notifier logging through l.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Nop()
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(ctx context.Context, msg model.Notification) error {
	n.logger.Info(ctx, "notification",
		logger.String("id", msg.ID),
		logger.String("kind", string(msg.Kind)),
		logger.String("recipient", msg.Recipient),
		logger.String("subject", msg.Subject),
	)
	return nil
}
