package handlers

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"politicswithalex/api_site/internal/validation"
	"politicswithalex/api_site/pkg/email"
	"politicswithalex/api_site/pkg/logging"
)

type SubmitHandler struct {
	emailSender EmailSender
	limiter     RateLimiter
	toEmail     string
	logger      logging.Logger
	metrics     *FormMetrics
}

func NewSubmitHandler(
	emailSender EmailSender,
	limiter RateLimiter,
	toEmail string,
	logger logging.Logger,
	metrics *FormMetrics,
) *SubmitHandler {
	return &SubmitHandler{
		emailSender: emailSender,
		limiter:     limiter,
		toEmail:     toEmail,
		logger:      logger,
		metrics:     metrics,
	}
}

func (h *SubmitHandler) Handle(c *gin.Context) {
	var req validation.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.IncSubmit("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid request",
		})
		return
	}

	req.Normalize()
	remoteIP := getRemoteIP(c)

	if req.Honeypot != "" {
		h.metrics.IncSubmit("honeypot")
		h.logger.WithFields(logging.Fields{
			"ip": remoteIP,
		}).Warn("Honeypot tripped on submission")

		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid submission",
		})
		return
	}

	if !validation.ValidEmail(req.Email) {
		h.metrics.IncSubmit("invalid_email")
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Invalid email",
		})
		return
	}

	if req.Subject == "" || req.Message == "" {
		h.metrics.IncSubmit("missing_fields")
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "Missing required fields",
		})
		return
	}

	if !h.limiter.Allowed(c.Request.Context(), "submit", remoteIP) {
		h.metrics.IncSubmit("rate_limited")
		h.logger.WithFields(logging.Fields{
			"ip": remoteIP,
		}).Warn("Submission rate limit hit")

		c.JSON(http.StatusTooManyRequests, gin.H{
			"ok":    false,
			"error": "Too many requests. Try again later.",
		})
		return
	}

	msg := email.Message{
		To:      h.toEmail,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("Story Submission: %s", req.Subject),
		HTML:    buildSubmissionHTML(req.Name, req.Email, req.Subject, req.Message),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.emailSender.Send(ctx, msg); err != nil {
		h.metrics.IncSubmit("email_error")
		h.logger.WithFields(logging.Fields{
			"error": err.Error(),
			"name":  redactName(req.Name),
			"email": redactEmail(req.Email),
		}).Error("Failed to deliver submission notification")

		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": "Failed to send message",
		})
		return
	}

	// Only delivered submissions count toward the limit.
	h.limiter.Increment(c.Request.Context(), "submit", remoteIP)

	h.metrics.IncSubmit("success")
	h.logger.WithFields(logging.Fields{
		"name":  redactName(req.Name),
		"email": redactEmail(req.Email),
	}).Info("Story submission forwarded")

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func buildSubmissionHTML(name, email, subject, message string) string {
	if name == "" {
		name = "Anonymous"
	}

	return fmt.Sprintf(`
		<h2>New Story Submission</h2>
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p><strong>Subject:</strong> %s</p>
		<hr>
		<p><strong>Message:</strong></p>
		<pre style="white-space: pre-wrap;">%s</pre>
		<hr>
		<p><small>Submitted via politicswithalex.com</small></p>
	`, html.EscapeString(name), html.EscapeString(email), html.EscapeString(subject), html.EscapeString(message))
}

// getRemoteIP prefers the edge-provided client address and falls back to a
// shared "unknown" bucket so unattributed traffic still gets rate limited.
func getRemoteIP(c *gin.Context) string {
	if cfIP := c.GetHeader("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	return "unknown"
}
