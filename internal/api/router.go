package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"maintplan-backend/config"
	"maintplan-backend/internal/mw"
	"maintplan-backend/internal/planner"
	"maintplan-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, p *planner.Planner, webpushOptions *webpush.Options, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, p, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Equipment master data changes rarely; occurrence lists are never
	// cached because their overdue status is re-derived on every read.
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/facilities/:facility_id/equipment", caching, handler.GetFacilityEquipment)
		api.GET("/facilities/:facility_id/occurrences", handler.GetFacilityOccurrences)
		api.POST("/facilities/:facility_id/plan/:year", handler.GeneratePlan)
		api.DELETE("/facilities/:facility_id/plan/:year", handler.ResetPlan)

		api.GET("/equipment/:equipment_id/occurrences", handler.GetEquipmentOccurrences)

		api.GET("/occurrences/:id", handler.GetOccurrence)
		api.POST("/occurrences/:id/complete", handler.CompleteOccurrence)
		api.POST("/occurrences/:id/uncomplete", handler.UncompleteOccurrence)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
