// Package reminder is the overdue-reminder collaborator. It sits outside
// the planning core: on its own cadence it reads the planner's facility-year
// list path, which also refreshes overdue status, and notifies push
// subscribers of facilities with overdue work. The core never calls into
// this package.
package reminder

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"maintplan-backend/config"
	"maintplan-backend/internal/model"
	"maintplan-backend/internal/planner"
	"maintplan-backend/internal/store"
)

// Service polls for overdue occurrences and dispatches reminder jobs.
type Service struct {
	cfg     *config.Config
	store   store.Store
	planner *planner.Planner
	pool    *WorkerPool
}

// NewService creates and initializes a new reminder service.
func NewService(cfg *config.Config, s store.Store, p *planner.Planner) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Service{
		cfg:     cfg,
		store:   s,
		planner: p,
		pool:    NewWorkerPool(cfg.Reminder.WorkerPoolSize, s.DB(), &webpushOptions),
	}
}

// Run starts the polling loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Reminder.Enabled {
		log.Println("Reminder service is disabled. Not starting.")
		return
	}
	log.Println("Starting reminder service...")

	s.pool.Start(ctx)

	s.PollOnce(ctx)

	timer := time.NewTimer(s.cfg.Reminder.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder service shutting down.")
			return
		case <-timer.C:
			s.PollOnce(ctx)
			timer.Reset(s.cfg.Reminder.Interval)
		}
	}
}

// PollOnce walks every facility, re-derives overdue status for the current
// year through the planner's read path, and dispatches one reminder job per
// facility that has overdue occurrences.
func (s *Service) PollOnce(ctx context.Context) {
	log.Println("Executing reminder cycle...")
	year := time.Now().UTC().Year()

	facilities, err := s.store.ListFacilities(ctx)
	if err != nil {
		log.Printf("Error listing facilities: %v", err)
		return
	}

	for _, facility := range facilities {
		occs, err := s.planner.ListFacilityYear(ctx, facility.ID, year)
		if err != nil {
			log.Printf("Error listing occurrences for facility %d: %v", facility.ID, err)
			continue
		}

		overdue := 0
		for _, occ := range occs {
			if occ.Status == model.StatusOverdue {
				overdue++
			}
		}
		if overdue == 0 {
			continue
		}

		s.pool.Dispatch(Job{
			FacilityID:   facility.ID,
			FacilityName: facility.Name,
			OverdueCount: overdue,
		})
	}

	log.Println("Reminder cycle finished.")
}
