package auth

import (
	"context"
	"net/url"
	"time"
)

// MailDispatcher delivers the account mails. Implementations live outside
// this package; handlers only ever call it through dispatchMail.
type MailDispatcher interface {
	SendWelcome(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

const mailTimeout = 30 * time.Second

// dispatchMail sends on a detached goroutine. Delivery failures are logged
// and swallowed; no caller response ever depends on the mail run.
func dispatchMail(logger Logger, what string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			logger.Error("failed to send %s mail: %v", what, err)
		}
	}()
}

// passwordLink builds the SPA password page URL carrying a signed claim.
func passwordLink(spaURL, token string) string {
	return spaURL + "/password?token=" + url.QueryEscape(token)
}
