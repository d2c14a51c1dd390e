package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/mail"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	counts  *store.BookingCountCache
	mailer  *mail.Mailer
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, counts *store.BookingCountCache, mailer *mail.Mailer, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		counts:  counts,
		mailer:  mailer,
		webpush: webpushOptions,
	}
}

// abortWithError maps store errors onto HTTP responses: rejected writes
// become 400, missing rows 404, everything else 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalid):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
