package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs. Currently a single daily
// status summary at 08:30 so operators see how the pipeline is moving.
type CronService struct {
	cron    *cron.Cron
	service *ApplicationService
}

// NewCronService creates a new cron service
func NewCronService(service *ApplicationService) *CronService {
	return &CronService{
		cron:    cron.New(),
		service: service,
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() {
	s.cron.AddFunc("30 8 * * *", s.logStatusSummary)
	s.cron.Start()
	log.Println("✅ Cron service started (daily summary at 08:30)")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) logStatusSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := s.service.StatusSummary(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to build status summary: %v", err)
		return
	}

	log.Printf("📊 Application status summary: %v", counts)
}
