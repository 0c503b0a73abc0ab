package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"routelogix-backend/internal/audit"
	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	planner *hos.Planner
	auditor *audit.Service
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, planner *hos.Planner, auditor *audit.Service) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		planner: planner,
		auditor: auditor,
	}
}
