package service

import (
	"context"
	"sync"

	"console/internal/access"
	"console/internal/model"

	"github.com/robfig/cron/v3"
)

// EventRemindersDigest is broadcast by the scheduled digest job
const EventRemindersDigest = "reminders.digest"

// DefaultNotificationConfig applies until an admin saves a config
func DefaultNotificationConfig() model.NotificationConfig {
	return model.NotificationConfig{
		Enabled:         true,
		DigestSchedule:  "0 8 * * *",
		RemindDaysAhead: 3,
	}
}

type Digest struct {
	GeneratedAt string         `json:"generatedAt"`
	Overdue     int            `json:"overdue"`
	Reminders   []ReminderView `json:"reminders"`
}

// NotificationService owns the digest schedule. Start registers the job
// from the stored config; SaveConfig re-registers it.
type NotificationService interface {
	Config(ctx context.Context) model.NotificationConfig
	SaveConfig(ctx context.Context, actor *model.User, cfg model.NotificationConfig) (model.NotificationConfig, error)
	RunDigest(ctx context.Context) Digest
	Start(ctx context.Context) error
	Stop()
}

type notificationService struct {
	Deps
	reminders ReminderService

	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	hasJob  bool
	baseCtx context.Context
}

func NewNotificationService(deps Deps, reminders ReminderService) NotificationService {
	deps.Log = deps.Log.With().Str("component", "notifications").Logger()
	return &notificationService{
		Deps:      deps,
		reminders: reminders,
		cron:      cron.New(),
		baseCtx:   context.Background(),
	}
}

func (s *notificationService) Config(ctx context.Context) model.NotificationConfig {
	cfg, found := s.Repos.Notifications.Get(ctx)
	if !found {
		return DefaultNotificationConfig()
	}
	if cfg.DigestSchedule == "" {
		cfg.DigestSchedule = DefaultNotificationConfig().DigestSchedule
	}
	return cfg
}

func (s *notificationService) SaveConfig(ctx context.Context, actor *model.User, cfg model.NotificationConfig) (model.NotificationConfig, error) {
	if !access.IsAdmin(actor) {
		return cfg, ErrForbidden
	}
	if cfg.DigestSchedule == "" {
		cfg.DigestSchedule = DefaultNotificationConfig().DigestSchedule
	}
	if _, err := cron.ParseStandard(cfg.DigestSchedule); err != nil {
		return cfg, invalidf("digest schedule %q: %v", cfg.DigestSchedule, err)
	}
	if cfg.RemindDaysAhead < 0 {
		return cfg, invalidf("remindDaysAhead must not be negative")
	}

	err := s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Notifications.Save(txCtx, cfg)
	}, actor, model.ActionSaveNotification, model.KeyNotificationConfig, "notifications", cfg)
	if err != nil {
		return cfg, err
	}
	if err := s.schedule(cfg); err != nil {
		s.Log.Warn().Err(err).Msg("digest job not rescheduled")
	}
	return cfg, nil
}

// RunDigest collects due and overdue reminders and broadcasts them
func (s *notificationService) RunDigest(ctx context.Context) Digest {
	cfg := s.Config(ctx)
	digest := Digest{
		GeneratedAt: timestamp(s.now()),
		Reminders:   s.reminders.Due(ctx, cfg.RemindDaysAhead),
	}
	for _, r := range digest.Reminders {
		if r.DaysLeft < 0 {
			digest.Overdue++
		}
	}
	if len(digest.Reminders) == 0 {
		s.Log.Debug().Msg("digest skipped, nothing due")
		return digest
	}
	s.notifier().Publish(EventRemindersDigest, map[string]interface{}{
		"generatedAt": digest.GeneratedAt,
		"overdue":     digest.Overdue,
		"reminders":   digest.Reminders,
	})
	s.Log.Info().Int("due", len(digest.Reminders)).Int("overdue", digest.Overdue).Msg("reminder digest published")
	return digest
}

// schedule replaces the registered job; a disabled config leaves none
func (s *notificationService) schedule(cfg model.NotificationConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasJob {
		s.cron.Remove(s.entry)
		s.hasJob = false
	}
	if !cfg.Enabled {
		return nil
	}
	id, err := s.cron.AddFunc(cfg.DigestSchedule, func() {
		s.RunDigest(s.baseCtx)
	})
	if err != nil {
		return err
	}
	s.entry, s.hasJob = id, true
	s.Log.Info().Str("schedule", cfg.DigestSchedule).Msg("digest job scheduled")
	return nil
}

func (s *notificationService) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	if err := s.schedule(s.Config(ctx)); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running digest to finish
func (s *notificationService) Stop() {
	<-s.cron.Stop().Done()
}
