package mailer

import (
	"context"

	"github.com/dracker/dracker/internal/auth"
)

// LogOnly is the dispatcher used when no SMTP host is configured. It logs
// the link instead of delivering, which keeps local development flowing.
type LogOnly struct {
	Logger auth.Logger
}

var _ auth.MailDispatcher = (*LogOnly)(nil)

func (l LogOnly) SendWelcome(_ context.Context, to, _, link string) error {
	l.Logger.Info("mail disabled, welcome link for %s: %s", to, link)
	return nil
}

func (l LogOnly) SendPasswordReset(_ context.Context, to, _, link string) error {
	l.Logger.Info("mail disabled, password reset link for %s: %s", to, link)
	return nil
}
