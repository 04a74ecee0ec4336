package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"console/internal/access"
	"console/internal/model"
	"console/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkerLoad is how many shifts one person worked in a role
type WorkerLoad struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RoleLoad groups the shifts of one role, busiest workers first
type RoleLoad struct {
	Role    string       `json:"role"`
	Total   int          `json:"total"`
	Workers []WorkerLoad `json:"workers"`
}

type EventStats struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Total         int             `json:"total"`
	Paid          int             `json:"paid"`
	Free          int             `json:"free"`
	PaidPercent   int             `json:"paidPercent"`
	FreePercent   int             `json:"freePercent"`
	Cancelled     int             `json:"cancelled"`
	RentalRevenue decimal.Decimal `json:"rentalRevenue"`
	PaidBreakdown []RoleLoad      `json:"paidBreakdown"`
	FreeBreakdown []RoleLoad      `json:"freeBreakdown"`
}

type ReportKind string

const (
	ReportMonth ReportKind = "month"
	ReportWeek  ReportKind = "week"
)

type ReportRow struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	Title       string            `json:"title"`
	Venue       string            `json:"venue"`
	StartTime   string            `json:"startTime"`
	IsPaid      bool              `json:"isPaid"`
	IsCancelled bool              `json:"isCancelled"`
	Staff       map[string]string `json:"staff"` // role -> abbreviated name
	RentalTotal decimal.Decimal   `json:"rentalTotal"`
}

type EventReport struct {
	Kind  ReportKind  `json:"kind"`
	From  string      `json:"from"`
	To    string      `json:"to"`
	Roles []string    `json:"roles"` // report columns, directory order
	Rows  []ReportRow `json:"rows"`
}

// PublicStaff is a crew member listed on the public event page
type PublicStaff struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// PublicEventView is what an artist sees through the shared event link
type PublicEventView struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Date           string        `json:"date"`
	ArrivalTime    string        `json:"arrivalTime"`
	SoundcheckTime string        `json:"soundcheckTime"`
	DoorsTime      string        `json:"doorsTime"`
	StartTime      string        `json:"startTime"`
	Venue          string        `json:"venue"`
	Rider          string        `json:"rider"`
	IsCancelled    bool          `json:"isCancelled"`
	Staff          []PublicStaff `json:"staff"`
}

// EventService merges event rows with the cancellation and rental registries
type EventService interface {
	List(ctx context.Context) []model.ConcertEvent
	Get(ctx context.Context, id string) (*model.ConcertEvent, error)
	Save(ctx context.Context, actor *model.User, event model.ConcertEvent) (*model.ConcertEvent, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	MonthlyStats(ctx context.Context, year int, month time.Month) EventStats
	Report(ctx context.Context, kind ReportKind, at time.Time) EventReport
	PublicEvent(ctx context.Context, id string) (*PublicEventView, error)
}

type eventService struct {
	Deps
}

func NewEventService(deps Deps) EventService {
	return &eventService{Deps: deps}
}

// merge applies the overlays: cancelled iff the registry holds the id,
// rentals default to an empty list
func merge(events []model.ConcertEvent, cancelled map[string]bool, rentals map[string][]model.RentedEquipment) []model.ConcertEvent {
	if events == nil {
		return []model.ConcertEvent{}
	}
	for i := range events {
		id := events[i].ID
		events[i].IsCancelled = cancelled[id]
		events[i].RentedEquipment = rentals[id]
		if events[i].RentedEquipment == nil {
			events[i].RentedEquipment = []model.RentedEquipment{}
		}
		if events[i].Staff == nil {
			events[i].Staff = model.StaffAssignment{}
		}
	}
	return events
}

func (s *eventService) List(ctx context.Context) []model.ConcertEvent {
	events := s.Repos.Events.List(ctx)
	return merge(events, s.Repos.Cancelled.Get(ctx), s.Repos.Rentals.Get(ctx))
}

func (s *eventService) Get(ctx context.Context, id string) (*model.ConcertEvent, error) {
	event, err := s.Repos.Events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("event %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	merged := merge([]model.ConcertEvent{*event}, s.Repos.Cancelled.Get(ctx), s.Repos.Rentals.Get(ctx))
	return &merged[0], nil
}

func validClock(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse(timeLayout, v)
	return err == nil
}

func (s *eventService) normalize(event *model.ConcertEvent) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return invalidf("event title is required")
	}
	if _, err := time.Parse(dateLayout, event.Date); err != nil {
		return invalidf("event date must be YYYY-MM-DD")
	}
	for _, t := range []string{event.ArrivalTime, event.SoundcheckTime, event.DoorsTime, event.StartTime} {
		if !validClock(t) {
			return invalidf("time %q must be HH:MM", t)
		}
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Staff == nil {
		event.Staff = model.StaffAssignment{}
	}
	if event.RentedEquipment == nil {
		event.RentedEquipment = []model.RentedEquipment{}
	}
	for i := range event.RentedEquipment {
		r := &event.RentedEquipment[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Quantity <= 0 {
			r.Quantity = 1
		}
		if r.Price.IsNegative() {
			return invalidf("rental price of %q is negative", r.Name)
		}
	}
	return nil
}

// Save writes the row and both overlay registries in one transaction.
// The rentals entry is always overwritten, even with an empty list; the
// cancelled entry is removed rather than set to false.
func (s *eventService) Save(ctx context.Context, actor *model.User, event model.ConcertEvent) (*model.ConcertEvent, error) {
	if !access.CanManageEvents(actor) {
		return nil, ErrForbidden
	}
	if err := s.normalize(&event); err != nil {
		return nil, err
	}

	err := s.Repos.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Repos.Events.Upsert(txCtx, &event); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}

		rentals, err := s.Repos.Rentals.Load(txCtx)
		if err != nil {
			return err
		}
		rentals[event.ID] = event.RentedEquipment
		if err := s.Repos.Rentals.Save(txCtx, rentals); err != nil {
			return err
		}

		cancelled, err := s.Repos.Cancelled.Load(txCtx)
		if err != nil {
			return err
		}
		if event.IsCancelled {
			cancelled[event.ID] = true
		} else {
			delete(cancelled, event.ID)
		}
		if err := s.Repos.Cancelled.Save(txCtx, cancelled); err != nil {
			return err
		}

		return s.audit(txCtx, actor, model.ActionSaveEvent, event.ID, event.Title, map[string]interface{}{
			"date":        event.Date,
			"venue":       event.Venue,
			"isCancelled": event.IsCancelled,
			"rentalTotal": event.RentalTotal(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *eventService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !access.CanManageEvents(actor) {
		return ErrForbidden
	}
	event, err := s.Repos.Events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundf("event %s", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.Repos.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Repos.Events.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		rentals, err := s.Repos.Rentals.Load(txCtx)
		if err != nil {
			return err
		}
		if _, ok := rentals[id]; ok {
			delete(rentals, id)
			if err := s.Repos.Rentals.Save(txCtx, rentals); err != nil {
				return err
			}
		}
		cancelled, err := s.Repos.Cancelled.Load(txCtx)
		if err != nil {
			return err
		}
		if _, ok := cancelled[id]; ok {
			delete(cancelled, id)
			if err := s.Repos.Cancelled.Save(txCtx, cancelled); err != nil {
				return err
			}
		}
		return s.audit(txCtx, actor, model.ActionDeleteEvent, id, event.Title, nil)
	})
}

func percent(part, total int) int {
	if total == 0 {
		total = 1
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// MonthlyStats counts the non-cancelled events of a month
func (s *eventService) MonthlyStats(ctx context.Context, year int, month time.Month) EventStats {
	stats := EventStats{Year: year, Month: int(month), RentalRevenue: decimal.Zero}
	var paid, free []model.ConcertEvent

	for _, e := range s.List(ctx) {
		d, ok := e.ParsedDate()
		if !ok || d.Year() != year || d.Month() != month {
			continue
		}
		if e.IsCancelled {
			stats.Cancelled++
			continue
		}
		stats.RentalRevenue = stats.RentalRevenue.Add(e.RentalTotal())
		if e.IsPaid {
			paid = append(paid, e)
		} else {
			free = append(free, e)
		}
	}

	stats.Paid, stats.Free = len(paid), len(free)
	stats.Total = stats.Paid + stats.Free
	stats.PaidPercent = percent(stats.Paid, stats.Total)
	stats.FreePercent = percent(stats.Free, stats.Total)
	stats.PaidBreakdown = roleBreakdown(paid)
	stats.FreeBreakdown = roleBreakdown(free)
	return stats
}

func roleBreakdown(events []model.ConcertEvent) []RoleLoad {
	counts := map[string]map[string]int{}
	for _, e := range events {
		for role, name := range e.Staff {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if counts[role] == nil {
				counts[role] = map[string]int{}
			}
			counts[role][name]++
		}
	}

	out := make([]RoleLoad, 0, len(counts))
	for role, workers := range counts {
		load := RoleLoad{Role: role, Workers: make([]WorkerLoad, 0, len(workers))}
		for name, n := range workers {
			load.Workers = append(load.Workers, WorkerLoad{Name: name, Count: n})
			load.Total += n
		}
		sort.Slice(load.Workers, func(i, j int) bool {
			if load.Workers[i].Count != load.Workers[j].Count {
				return load.Workers[i].Count > load.Workers[j].Count
			}
			return load.Workers[i].Name < load.Workers[j].Name
		})
		out = append(out, load)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Role < out[j].Role
	})
	return out
}

// reportRange returns the month or the Monday-to-Sunday week containing at
func reportRange(kind ReportKind, at time.Time) (time.Time, time.Time) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	if kind == ReportWeek {
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		monday := day.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 6)
	}
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return first, first.AddDate(0, 1, -1)
}

func (s *eventService) Report(ctx context.Context, kind ReportKind, at time.Time) EventReport {
	if kind != ReportWeek {
		kind = ReportMonth
	}
	from, to := reportRange(kind, at)
	report := EventReport{
		Kind:  kind,
		From:  from.Format(dateLayout),
		To:    to.Format(dateLayout),
		Roles: s.Repos.Directory.Load(ctx).Roles,
		Rows:  []ReportRow{},
	}

	for _, e := range s.List(ctx) {
		day := e.Date
		if len(day) > 10 {
			day = day[:10]
		}
		if day < report.From || day > report.To {
			continue
		}
		staff := make(map[string]string, len(e.Staff))
		for role, name := range e.Staff {
			if short := AbbreviateName(name); short != "" {
				staff[role] = short
			}
		}
		report.Rows = append(report.Rows, ReportRow{
			ID:          e.ID,
			Date:        day,
			Title:       e.Title,
			Venue:       e.Venue,
			StartTime:   e.StartTime,
			IsPaid:      e.IsPaid,
			IsCancelled: e.IsCancelled,
			Staff:       staff,
			RentalTotal: e.RentalTotal(),
		})
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].Date != report.Rows[j].Date {
			return report.Rows[i].Date < report.Rows[j].Date
		}
		return report.Rows[i].StartTime < report.Rows[j].StartTime
	})
	return report
}

// AbbreviateName turns "Surname Name Patronymic" into "N.P. Surname"
func AbbreviateName(full string) string {
	parts := strings.Fields(full)
	initial := func(s string) string {
		r, _ := utf8.DecodeRuneInString(s)
		return string(r)
	}
	switch {
	case len(parts) == 0:
		return ""
	case len(parts) == 1:
		return parts[0]
	case len(parts) == 2:
		return initial(parts[1]) + ". " + parts[0]
	default:
		return initial(parts[1]) + "." + initial(parts[2]) + ". " + parts[0]
	}
}

func (s *eventService) PublicEvent(ctx context.Context, id string) (*PublicEventView, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	phones := map[string]string{}
	for _, emp := range s.Repos.Directory.Load(ctx).Employees {
		if emp.Phone != "" {
			phones[emp.Name] = emp.Phone
		}
	}

	staff := make([]PublicStaff, 0, len(event.Staff))
	for role, name := range event.Staff {
		if strings.TrimSpace(name) == "" {
			continue
		}
		staff = append(staff, PublicStaff{Role: role, Name: name, Phone: phones[name]})
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Role < staff[j].Role })

	return &PublicEventView{
		ID:             event.ID,
		Title:          event.Title,
		Date:           event.Date,
		ArrivalTime:    event.ArrivalTime,
		SoundcheckTime: event.SoundcheckTime,
		DoorsTime:      event.DoorsTime,
		StartTime:      event.StartTime,
		Venue:          event.Venue,
		Rider:          event.Rider,
		IsCancelled:    event.IsCancelled,
		Staff:          staff,
	}, nil
}
