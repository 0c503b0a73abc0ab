package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"routelogix-backend/config"
	"routelogix-backend/internal/audit"
	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/mw"
	"routelogix-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, auditor *audit.Service) *gin.Engine {
	r := gin.Default()

	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	planner := hos.NewPlanner(hos.Options{
		AverageSpeedMPH:   cfg.Scheduler.AverageSpeedMPH,
		FuelIntervalMiles: cfg.Scheduler.FuelIntervalMiles,
		FuelStopMinutes:   cfg.Scheduler.FuelStopMinutes,
		PickupMinutes:     cfg.Scheduler.PickupMinutes,
		DropoffMinutes:    cfg.Scheduler.DropoffMinutes,
	})
	handler := NewHandler(s, webpushOptions, planner, auditor)

	// Initialize middleware
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/trips", handler.PostTrip)
		api.GET("/trips", handler.GetTrips)
		api.GET("/trips/:trip_id", handler.GetTrip)
		api.GET("/trips/:trip_id/violations", handler.GetTripViolations)

		// Grids are pure renderings of stored logs, safe to cache.
		api.GET("/logs/:log_id/grid", caching, handler.GetLogGrid)
		api.POST("/logs/:log_id/entries", handler.PostLogEntry)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
