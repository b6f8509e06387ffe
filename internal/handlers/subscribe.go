package handlers

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"politicswithalex/api_site/internal/validation"
	"politicswithalex/api_site/pkg/email"
	"politicswithalex/api_site/pkg/logging"
)

type SubscribeHandler struct {
	emailSender EmailSender
	limiter     RateLimiter
	toEmail     string
	logger      logging.Logger
	metrics     *FormMetrics
}

func NewSubscribeHandler(
	emailSender EmailSender,
	limiter RateLimiter,
	toEmail string,
	logger logging.Logger,
	metrics *FormMetrics,
) *SubscribeHandler {
	return &SubscribeHandler{
		emailSender: emailSender,
		limiter:     limiter,
		toEmail:     toEmail,
		logger:      logger,
		metrics:     metrics,
	}
}

func (h *SubscribeHandler) Handle(c *gin.Context) {
	var req validation.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.IncSubscribe("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid request",
		})
		return
	}

	req.Normalize()
	remoteIP := getRemoteIP(c)

	if req.Honeypot != "" {
		h.metrics.IncSubscribe("honeypot")
		h.logger.WithFields(logging.Fields{
			"ip": remoteIP,
		}).Warn("Honeypot tripped on signup")

		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid submission",
		})
		return
	}

	if !validation.ValidEmail(req.Email) {
		h.metrics.IncSubscribe("invalid_email")
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid email",
		})
		return
	}

	if !h.limiter.Allowed(c.Request.Context(), "subscribe", remoteIP) {
		h.metrics.IncSubscribe("rate_limited")
		h.logger.WithFields(logging.Fields{
			"ip": remoteIP,
		}).Warn("Signup rate limit hit")

		c.JSON(http.StatusTooManyRequests, gin.H{
			"ok":    false,
			"error": "Too many requests. Try again later.",
		})
		return
	}

	msg := email.Message{
		To:      h.toEmail,
		Subject: "New Newsletter Signup",
		HTML:    fmt.Sprintf("<p><strong>New newsletter signup:</strong></p><p>%s</p>", html.EscapeString(req.Email)),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.emailSender.Send(ctx, msg); err != nil {
		h.metrics.IncSubscribe("email_error")
		h.logger.WithFields(logging.Fields{
			"error": err.Error(),
			"email": redactEmail(req.Email),
		}).Error("Failed to deliver signup notification")

		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": "Failed to subscribe",
		})
		return
	}

	// Only delivered signups count toward the limit.
	h.limiter.Increment(c.Request.Context(), "subscribe", remoteIP)

	h.metrics.IncSubscribe("success")
	h.logger.WithFields(logging.Fields{
		"email": redactEmail(req.Email),
	}).Info("Newsletter signup forwarded")

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
