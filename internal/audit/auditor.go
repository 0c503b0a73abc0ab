package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"routelogix-backend/config"
	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/model"
	"routelogix-backend/internal/notification"
	"routelogix-backend/internal/store"
)

// Service re-runs HOS violation detection over trips whose logs changed
// after planning, persists the findings and pushes alerts to subscribers.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool
}

// NewService creates and initializes a new audit service.
func NewService(cfg *config.Config, store store.Store) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, store.DB(), &webpushOptions)

	return &Service{
		cfg:        cfg,
		store:      store,
		workerPool: workerPool,
	}
}

// Run starts the audit process in a loop. The alert worker pool always
// runs: the API dispatches into it after synchronous re-checks even when
// the periodic audit pass is disabled.
func (s *Service) Run(ctx context.Context) {
	s.workerPool.Start(ctx)

	if !s.cfg.Audit.Enabled {
		log.Println("Auditor is disabled. Only serving alert dispatches.")
		return
	}
	log.Println("Starting audit service...")

	s.AuditOnce(ctx)

	timer := time.NewTimer(s.cfg.Audit.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Audit service shutting down.")
			return
		case <-timer.C:
			s.AuditOnce(ctx)
			timer.Reset(s.cfg.Audit.Interval)
		}
	}
}

// AuditOnce performs a single audit pass over all flagged trips.
func (s *Service) AuditOnce(ctx context.Context) {
	log.Println("Executing audit cycle...")

	trips, err := s.store.TripsNeedingAudit(ctx)
	if err != nil {
		log.Printf("Error fetching trips for audit: %v", err)
		return
	}
	if len(trips) == 0 {
		log.Println("Audit cycle finished: no trips to audit.")
		return
	}

	for i := range trips {
		if ctx.Err() != nil {
			return
		}
		if err := s.auditTrip(ctx, &trips[i]); err != nil {
			log.Printf("Error auditing trip %s: %v", trips[i].ID, err)
		}
	}
	log.Printf("Audit cycle finished: %d trip(s) audited.", len(trips))
}

func (s *Service) auditTrip(ctx context.Context, trip *model.Trip) error {
	rows, err := s.AuditTrip(ctx, trip)
	if err != nil {
		return err
	}
	if err := s.store.ClearAuditFlag(ctx, trip.ID); err != nil {
		return err
	}

	log.Printf("Trip %s audited: %d violation(s) found.", trip.ID, len(rows))
	s.workerPool.Dispatch(trip.ID)
	return nil
}

// AuditTrip runs the detector over a trip's stored logs and replaces its
// violation set with the findings. The trip must carry its DailyLogs with
// Entries, both in chronological order.
func (s *Service) AuditTrip(ctx context.Context, trip *model.Trip) ([]model.HOSViolation, error) {
	cycle := hos.CycleType(trip.CycleType)
	if !cycle.Valid() {
		return nil, fmt.Errorf("trip %s has invalid cycle type %q", trip.ID, trip.CycleType)
	}

	days := store.DaysFromLogs(trip.DailyLogs)
	findings := hos.Check(days, cycle)
	rows := store.ViolationRecords(trip.ID, trip.DailyLogs, findings)

	if err := s.store.ReplaceTripViolations(ctx, trip.ID, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Pool exposes the alert worker pool so the API layer can dispatch
// notifications after synchronous re-checks.
func (s *Service) Pool() *notification.WorkerPool {
	return s.workerPool
}
