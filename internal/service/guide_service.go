package service

import (
	"context"
	"strings"

	"console/internal/access"
	"console/internal/model"

	"github.com/google/uuid"
)

// GuideService manages the artist guides behind the public venue links
type GuideService interface {
	List(ctx context.Context) []model.GuestGuide
	Save(ctx context.Context, actor *model.User, g model.GuestGuide) (*model.GuestGuide, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	// Public returns the guide only while it is active
	Public(ctx context.Context, id string) (*model.GuestGuide, error)
}

type guideService struct {
	Deps
}

func NewGuideService(deps Deps) GuideService {
	return &guideService{Deps: deps}
}

// NewGuide is the template a fresh guide starts from
func NewGuide() model.GuestGuide {
	return model.GuestGuide{
		Title:               "Новый путеводитель",
		WifiSSID:            "SDDT_GUEST",
		ShowParkingReminder: true,
		ShowRiderReminder:   true,
		IsActive:            true,
	}
}

func (s *guideService) List(ctx context.Context) []model.GuestGuide {
	return s.Repos.Guides.Get(ctx)
}

func (s *guideService) Save(ctx context.Context, actor *model.User, g model.GuestGuide) (*model.GuestGuide, error) {
	if !access.HasAccess(actor, access.SectionConcerts) {
		return nil, ErrForbidden
	}
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		g.Title = NewGuide().Title
	}
	if g.WifiSSID == "" {
		g.WifiSSID = NewGuide().WifiSSID
	}
	g.UpdatedAt = timestamp(s.now())

	list, err := s.Repos.Guides.Load(ctx)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range list {
		if g.ID != "" && list[i].ID == g.ID {
			list[i] = g
			replaced = true
			break
		}
	}
	if !replaced {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		list = append(list, g)
	}

	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Guides.Save(txCtx, list)
	}, actor, model.ActionSaveGuide, g.ID, g.Title, map[string]interface{}{"venue": g.Venue, "isActive": g.IsActive})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *guideService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !access.HasAccess(actor, access.SectionConcerts) {
		return ErrForbidden
	}
	list, err := s.Repos.Guides.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.GuestGuide, 0, len(list))
	var removed *model.GuestGuide
	for i := range list {
		if list[i].ID == id {
			removed = &list[i]
			continue
		}
		kept = append(kept, list[i])
	}
	if removed == nil {
		return notFoundf("guide %s", id)
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Guides.Save(txCtx, kept)
	}, actor, model.ActionDeleteGuide, removed.ID, removed.Title, nil)
}

func (s *guideService) Public(ctx context.Context, id string) (*model.GuestGuide, error) {
	for _, g := range s.Repos.Guides.Get(ctx) {
		if g.ID == id && g.IsActive {
			return &g, nil
		}
	}
	return nil, notFoundf("guide %s", id)
}
