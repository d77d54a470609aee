package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"maintplan-backend/internal/planner"
	"maintplan-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	planner *planner.Planner
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, p *planner.Planner, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		planner: p,
		webpush: webpushOptions,
	}
}

// respondError translates planner errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	var vErr *planner.ValidationError
	switch {
	case errors.Is(err, planner.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
