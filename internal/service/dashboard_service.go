package service

import (
	"context"
	"strings"

	"console/internal/access"
	"console/internal/model"
)

type MonthProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// Dashboard is the landing screen summary
type Dashboard struct {
	Today            []model.ConcertEvent   `json:"today"`
	Tomorrow         []model.ConcertEvent   `json:"tomorrow"`
	NextEvent        *model.ConcertEvent    `json:"nextEvent"`
	ActiveTickets    int                    `json:"activeTickets"`
	ExpectedVehicles int                    `json:"expectedVehicles"`
	Month            MonthProgress          `json:"month"`
	Reminders        []ReminderView         `json:"reminders"`
	Birthdays        []model.BirthdayRecord `json:"birthdays"`
}

type DashboardService interface {
	Summary(ctx context.Context, actor *model.User) (*Dashboard, error)
}

type dashboardService struct {
	Deps
	events    EventService
	reminders ReminderService
}

func NewDashboardService(deps Deps, events EventService, reminders ReminderService) DashboardService {
	return &dashboardService{Deps: deps, events: events, reminders: reminders}
}

func (s *dashboardService) Summary(ctx context.Context, actor *model.User) (*Dashboard, error) {
	if !access.HasAccess(actor, access.SectionDashboard) {
		return nil, ErrForbidden
	}
	now := s.now()
	todayStr := today(now)
	tomorrowStr := today(now.AddDate(0, 0, 1))
	monthPrefix := now.Format("2006-01")
	clock := now.Format(timeLayout)

	d := &Dashboard{
		Today:     []model.ConcertEvent{},
		Tomorrow:  []model.ConcertEvent{},
		Reminders: s.reminders.Due(ctx, 3),
		Birthdays: []model.BirthdayRecord{},
	}

	for _, e := range s.events.List(ctx) {
		if e.IsCancelled {
			continue
		}
		day := e.Date
		if len(day) > 10 {
			day = day[:10]
		}
		switch day {
		case todayStr:
			d.Today = append(d.Today, e)
		case tomorrowStr:
			d.Tomorrow = append(d.Tomorrow, e)
		}
		if strings.HasPrefix(day, monthPrefix) {
			d.Month.Total++
			if day < todayStr {
				d.Month.Completed++
			}
		}
	}
	d.Month.Percent = percent(d.Month.Completed, d.Month.Total)

	// events are sorted by start time within a day
	for i := range d.Today {
		if d.Today[i].StartTime > clock {
			next := d.Today[i]
			d.NextEvent = &next
			break
		}
	}

	for _, t := range s.Repos.Tickets.Get(ctx) {
		if t.Status != model.TicketDone && t.Status != model.TicketRejected {
			d.ActiveTickets++
		}
	}
	for _, v := range s.Repos.Vehicles.Get(ctx) {
		if v.IsExpectedToday {
			d.ExpectedVehicles++
		}
	}

	monthDay := now.Format("01-02")
	for _, b := range s.Repos.Directory.Load(ctx).Birthdays {
		if len(b.Date) >= 10 && b.Date[5:10] == monthDay {
			d.Birthdays = append(d.Birthdays, b)
		}
	}
	return d, nil
}
