package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"politicswithalex/api_site/pkg/logging"
	"politicswithalex/api_site/pkg/models"
)

// ContentHandler serves the video and post listings. Both endpoints always
// answer 200 with an items array; upstream trouble shows up as an empty list.
type ContentHandler struct {
	content ContentLister
	logger  logging.Logger
}

func NewContentHandler(content ContentLister, logger logging.Logger) *ContentHandler {
	return &ContentHandler{
		content: content,
		logger:  logger,
	}
}

func (h *ContentHandler) Videos(c *gin.Context) {
	c.JSON(http.StatusOK, models.ContentResponse{
		Items: h.content.Videos(c.Request.Context()),
	})
}

func (h *ContentHandler) Posts(c *gin.Context) {
	c.JSON(http.StatusOK, models.ContentResponse{
		Items: h.content.Posts(c.Request.Context()),
	})
}
