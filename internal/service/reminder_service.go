package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"console/internal/model"

	"github.com/google/uuid"
)

type ReminderFilter string

const (
	RemindersAll       ReminderFilter = "all"
	RemindersActive    ReminderFilter = "active"
	RemindersCompleted ReminderFilter = "completed"
)

type ReminderRequest struct {
	Title    string                 `json:"title" binding:"required"`
	Notes    string                 `json:"notes"`
	Category model.ReminderCategory `json:"category"`
	Deadline string                 `json:"deadline" binding:"required"`
}

// ReminderView adds the computed deadline label to a reminder
type ReminderView struct {
	model.Reminder
	DaysLeft int    `json:"daysLeft"`
	Status   string `json:"status"`
}

// ReminderService tracks reporting deadlines. Reminders are shared by every
// console user with dashboard access.
type ReminderService interface {
	List(ctx context.Context, filter ReminderFilter) []ReminderView
	Create(ctx context.Context, actor *model.User, req ReminderRequest) (*model.Reminder, error)
	Toggle(ctx context.Context, actor *model.User, id string) (*model.Reminder, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	// Due returns incomplete reminders whose deadline is at most daysAhead away, overdue included
	Due(ctx context.Context, daysAhead int) []ReminderView
}

type reminderService struct {
	Deps
}

func NewReminderService(deps Deps) ReminderService {
	return &reminderService{Deps: deps}
}

// DaysUntil is the number of calendar days from now to the deadline, rounded up
func DaysUntil(deadline string, now time.Time) (int, bool) {
	d, err := time.ParseInLocation(dateLayout, deadline, now.Location())
	if err != nil {
		return 0, false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Ceil(d.Sub(midnight).Hours() / 24)), true
}

// DeadlineStatus labels a day difference for the dashboard
func DeadlineStatus(days int) string {
	switch {
	case days < 0:
		return "Просрочено"
	case days == 0:
		return "СЕГОДНЯ"
	case days == 1:
		return "ЗАВТРА"
	}
	return fmt.Sprintf("Через %d дн.", days)
}

func (s *reminderService) view(r model.Reminder, now time.Time) ReminderView {
	v := ReminderView{Reminder: r}
	if days, ok := DaysUntil(r.Deadline, now); ok {
		v.DaysLeft = days
		v.Status = DeadlineStatus(days)
	}
	return v
}

// List puts incomplete reminders first, each group by deadline
func (s *reminderService) List(ctx context.Context, filter ReminderFilter) []ReminderView {
	now := s.now()
	out := []ReminderView{}
	for _, r := range s.Repos.Reminders.Get(ctx) {
		if filter == RemindersActive && r.IsCompleted {
			continue
		}
		if filter == RemindersCompleted && !r.IsCompleted {
			continue
		}
		out = append(out, s.view(r, now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsCompleted != out[j].IsCompleted {
			return !out[i].IsCompleted
		}
		return out[i].Deadline < out[j].Deadline
	})
	return out
}

func (s *reminderService) Due(ctx context.Context, daysAhead int) []ReminderView {
	out := []ReminderView{}
	for _, v := range s.List(ctx, RemindersActive) {
		if v.Status != "" && v.DaysLeft <= daysAhead {
			out = append(out, v)
		}
	}
	return out
}

func (s *reminderService) Create(ctx context.Context, actor *model.User, req ReminderRequest) (*model.Reminder, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidf("reminder title is required")
	}
	if _, err := time.Parse(dateLayout, req.Deadline); err != nil {
		return nil, invalidf("deadline must be YYYY-MM-DD")
	}
	category := req.Category
	if category == "" {
		category = model.ReminderOther
	}
	r := model.Reminder{
		ID:        uuid.NewString(),
		Title:     title,
		Notes:     req.Notes,
		Category:  category,
		Deadline:  req.Deadline,
		CreatedBy: actor.Username,
		CreatedAt: timestamp(s.now()),
	}
	stored, err := s.Repos.Reminders.Load(ctx)
	if err != nil {
		return nil, err
	}
	list := append(stored, r)
	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Reminders.Save(txCtx, list)
	}, actor, model.ActionSaveReminder, r.ID, r.Title, map[string]string{"deadline": r.Deadline})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *reminderService) Toggle(ctx context.Context, actor *model.User, id string) (*model.Reminder, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	list, err := s.Repos.Reminders.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].IsCompleted = !list[i].IsCompleted
		r := list[i]
		err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
			return s.Repos.Reminders.Save(txCtx, list)
		}, actor, model.ActionSaveReminder, r.ID, r.Title, map[string]bool{"isCompleted": r.IsCompleted})
		if err != nil {
			return nil, err
		}
		return &r, nil
	}
	return nil, notFoundf("reminder %s", id)
}

func (s *reminderService) Delete(ctx context.Context, actor *model.User, id string) error {
	if actor == nil {
		return ErrForbidden
	}
	list, err := s.Repos.Reminders.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Reminder, 0, len(list))
	var removed *model.Reminder
	for i := range list {
		if list[i].ID == id {
			removed = &list[i]
			continue
		}
		kept = append(kept, list[i])
	}
	if removed == nil {
		return notFoundf("reminder %s", id)
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Reminders.Save(txCtx, kept)
	}, actor, model.ActionDeleteReminder, removed.ID, removed.Title, nil)
}
