package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/common"
	"github.com/ternarybob/nimbus/internal/release"
)

// Broadcaster pushes events to connected frontend clients
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// Service runs the background update check on a cron schedule. Disabled
// unless updates.enabled is set with an owner and repository.
type Service struct {
	cron        *cron.Cron
	config      common.UpdatesConfig
	release     *release.Service
	broadcaster Broadcaster
	logger      arbor.ILogger
	running     bool
}

// NewService creates the update-check scheduler
func NewService(config common.UpdatesConfig, releaseService *release.Service, broadcaster Broadcaster, logger arbor.ILogger) *Service {
	return &Service{
		cron:        cron.New(cron.WithSeconds()),
		config:      config,
		release:     releaseService,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Start registers the cron entry and begins scheduling
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Debug().Msg("Update checker disabled")
		return nil
	}
	if s.running {
		return fmt.Errorf("update checker already running")
	}

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "0 0 9 * * *"
	}

	if _, err := s.cron.AddFunc(schedule, s.runCheck); err != nil {
		return fmt.Errorf("failed to add update check cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", schedule).
		Str("owner", s.config.Owner).
		Str("repo", s.config.Repo).
		Msg("Update checker started")

	return nil
}

// Stop halts scheduling; a check already in flight runs to completion
func (s *Service) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Update checker stopped")
}

func (s *Service) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	info, err := s.release.CheckForUpdates(ctx, s.config.Owner, s.config.Repo, s.config.Token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled update check failed")
		return
	}

	if info.UpdateAvailable && s.broadcaster != nil {
		s.broadcaster.Broadcast("update_available", info)
	}
}
