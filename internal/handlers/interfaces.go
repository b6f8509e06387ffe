package handlers

import (
	"context"

	"politicswithalex/api_site/pkg/email"
	"politicswithalex/api_site/pkg/models"
)

// EmailSender delivers a notification email. Implemented by the Resend
// client and by the SMTP fallback sender.
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

// ContentLister serves the cached video and post listings.
type ContentLister interface {
	Videos(ctx context.Context) []models.ContentItem
	Posts(ctx context.Context) []models.ContentItem
}

// RateLimiter throttles form submissions per client.
type RateLimiter interface {
	Allowed(ctx context.Context, action, clientID string) bool
	Increment(ctx context.Context, action, clientID string)
}
