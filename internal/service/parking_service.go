package service

import (
	"context"
	"sort"
	"strings"

	"console/internal/access"
	"console/internal/model"

	"github.com/google/uuid"
)

type ParkingQuery struct {
	Category model.VehicleCategory
	Search   string
}

type ParkingStats struct {
	Total    int `json:"total"`
	Expected int `json:"expected"`
	Staff    int `json:"staff"`
	Guests   int `json:"guests"`
}

// WatchmanView is the security post screen for one day
type WatchmanView struct {
	Date     string               `json:"date"`
	Events   []model.ConcertEvent `json:"events"`
	Staff    []string             `json:"staff"` // everyone assigned to those events
	Expected []model.Vehicle      `json:"expected"`
	Matches  []model.Vehicle      `json:"matches,omitempty"`
}

type ParkingService interface {
	List(ctx context.Context, q ParkingQuery) []model.Vehicle
	Save(ctx context.Context, actor *model.User, v model.Vehicle) (*model.Vehicle, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	Stats(ctx context.Context) ParkingStats
	Watchman(ctx context.Context, actor *model.User, dayOffset int, search string) (*WatchmanView, error)
}

type parkingService struct {
	Deps
	events EventService
}

func NewParkingService(deps Deps, events EventService) ParkingService {
	return &parkingService{Deps: deps, events: events}
}

func canManageParking(u *model.User) bool {
	return access.HasAccess(u, access.SectionParking)
}

func (s *parkingService) vehicles(ctx context.Context) []model.Vehicle {
	list := s.Repos.Vehicles.Get(ctx)
	for i := range list {
		if list[i].Category == "" {
			list[i].Category = model.VehicleStaff
		}
	}
	return list
}

// List sorts vehicles expected today first, then by owner
func (s *parkingService) List(ctx context.Context, q ParkingQuery) []model.Vehicle {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := []model.Vehicle{}
	for _, v := range s.vehicles(ctx) {
		if q.Category != "" && v.Category != q.Category {
			continue
		}
		if search != "" && !containsFold(search, v.OwnerName, v.PlateNumber, v.Department, v.Model) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsExpectedToday != out[j].IsExpectedToday {
			return out[i].IsExpectedToday
		}
		return out[i].OwnerName < out[j].OwnerName
	})
	return out
}

func (s *parkingService) Save(ctx context.Context, actor *model.User, v model.Vehicle) (*model.Vehicle, error) {
	if !canManageParking(actor) {
		return nil, ErrForbidden
	}
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(v.PlateNumber))
	v.OwnerName = strings.TrimSpace(v.OwnerName)
	if v.PlateNumber == "" || v.OwnerName == "" {
		return nil, invalidf("owner and plate number are required")
	}
	if v.Category == "" {
		v.Category = model.VehicleStaff
	}
	if !model.ValidVehicleCategory(v.Category) {
		return nil, invalidf("unknown vehicle category %q", v.Category)
	}

	list, err := s.Repos.Vehicles.Load(ctx)
	if err != nil {
		return nil, err
	}
	replaced := false
	if v.ID != "" {
		for i := range list {
			if list[i].ID == v.ID {
				list[i] = v
				replaced = true
				break
			}
		}
	} else {
		v.ID = uuid.NewString()
	}
	if !replaced {
		list = append([]model.Vehicle{v}, list...)
	}

	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Vehicles.Save(txCtx, list)
	}, actor, model.ActionSaveVehicle, v.ID, v.PlateNumber, map[string]interface{}{
		"owner":           v.OwnerName,
		"isExpectedToday": v.IsExpectedToday,
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *parkingService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !canManageParking(actor) {
		return ErrForbidden
	}
	list, err := s.Repos.Vehicles.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Vehicle, 0, len(list))
	var removed *model.Vehicle
	for i := range list {
		if list[i].ID == id {
			removed = &list[i]
			continue
		}
		kept = append(kept, list[i])
	}
	if removed == nil {
		return notFoundf("vehicle %s", id)
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Vehicles.Save(txCtx, kept)
	}, actor, model.ActionDeleteVehicle, removed.ID, removed.PlateNumber, nil)
}

func (s *parkingService) Stats(ctx context.Context) ParkingStats {
	list := s.vehicles(ctx)
	stats := ParkingStats{Total: len(list)}
	for _, v := range list {
		if v.IsExpectedToday {
			stats.Expected++
		}
		switch v.Category {
		case model.VehicleStaff:
			stats.Staff++
		case model.VehicleGuest:
			stats.Guests++
		}
	}
	return stats
}

// Watchman builds the post view for today plus dayOffset (0..2). A search
// looks through every vehicle, not only the expected ones.
func (s *parkingService) Watchman(ctx context.Context, actor *model.User, dayOffset int, search string) (*WatchmanView, error) {
	if !access.HasAccess(actor, access.SectionWatchman) {
		return nil, ErrForbidden
	}
	if dayOffset < 0 || dayOffset > 2 {
		return nil, invalidf("day offset must be between 0 and 2")
	}
	date := today(s.now().AddDate(0, 0, dayOffset))
	view := &WatchmanView{Date: date, Events: []model.ConcertEvent{}, Staff: []string{}, Expected: []model.Vehicle{}}

	names := map[string]bool{}
	for _, e := range s.events.List(ctx) {
		if e.IsCancelled || !strings.HasPrefix(e.Date, date) {
			continue
		}
		view.Events = append(view.Events, e)
		for _, name := range e.Staff {
			if name = strings.TrimSpace(name); name != "" {
				names[name] = true
			}
		}
	}
	for name := range names {
		view.Staff = append(view.Staff, name)
	}
	sort.Strings(view.Staff)

	all := s.vehicles(ctx)
	for _, v := range all {
		if v.IsExpectedToday {
			view.Expected = append(view.Expected, v)
		}
	}
	sort.SliceStable(view.Expected, func(i, j int) bool { return view.Expected[i].OwnerName < view.Expected[j].OwnerName })

	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		view.Matches = []model.Vehicle{}
		for _, v := range all {
			if containsFold(q, v.PlateNumber, v.OwnerName, v.Model) {
				view.Matches = append(view.Matches, v)
			}
		}
	}
	return view, nil
}
