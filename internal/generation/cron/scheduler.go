package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/metrically/metrically-backend/internal/generation/service"
)

type Scheduler struct {
	availability *service.AvailabilityCache
	c            *cron.Cron
}

func NewScheduler(availability *service.AvailabilityCache) *Scheduler {
	return &Scheduler{availability: availability}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	s.c = cron.New()

	// Probe the generation backend every 5 minutes
	_, err := s.c.AddFunc("*/5 * * * *", func() {
		s.probe()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (availability probe every 5 minutes)")
	s.c.Start()

	// Prime the cache so health reports something before the first tick
	go s.probe()
}

func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

func (s *Scheduler) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := s.availability.Refresh(ctx)
	log.Printf("[info] operation=availability_probe available=%t", status.Available)
}
