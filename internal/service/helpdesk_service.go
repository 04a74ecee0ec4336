package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"console/internal/access"
	"console/internal/model"

	"github.com/google/uuid"
)

type CreateTicketRequest struct {
	Subject     string               `json:"subject"`
	Description string               `json:"description"`
	Priority    model.TicketPriority `json:"priority"`
	Type        model.TicketType     `json:"type"`
	Department  string               `json:"department"`
	Cabinet     string               `json:"cabinet"`

	EquipmentAction string `json:"equipmentAction"`
	EquipmentModel  string `json:"equipmentModel"`
	ProcurementItem string `json:"procurementItem"`
	PrintType       string `json:"printType"`
	PrintPages      string `json:"printPages"`
	EventSound      bool   `json:"eventSound"`
	EventLight      bool   `json:"eventLight"`
	EventScreen     bool   `json:"eventScreen"`
}

type TicketTypeCount struct {
	Type    model.TicketType `json:"type"`
	Count   int              `json:"count"`
	Percent int              `json:"percent"`
}

type TicketStats struct {
	Total  int               `json:"total"`
	Open   int               `json:"open"`
	Closed int               `json:"closed"`
	ByType []TicketTypeCount `json:"byType"`
}

// HelpdeskService files and tracks IT tickets
type HelpdeskService interface {
	Create(ctx context.Context, actor *model.User, req CreateTicketRequest) (*model.HelpdeskTicket, error)
	UpdateStatus(ctx context.Context, actor *model.User, id string, status model.TicketStatus) (*model.HelpdeskTicket, error)
	AddNote(ctx context.Context, actor *model.User, id, text string) (*model.HelpdeskTicket, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	List(ctx context.Context, actor *model.User, filter model.TicketType) []model.HelpdeskTicket
	Stats(ctx context.Context, actor *model.User) TicketStats
}

type helpdeskService struct {
	Deps
}

func NewHelpdeskService(deps Deps) HelpdeskService {
	return &helpdeskService{Deps: deps}
}

// ticketSubject fills the subject for the form-driven ticket types
func ticketSubject(req CreateTicketRequest) string {
	switch req.Type {
	case model.TicketEquipment:
		action := "Ремонт"
		if req.EquipmentAction == "refill" {
			action = "Заправка"
		}
		item := strings.TrimSpace(req.EquipmentModel)
		if item == "" {
			item = "МФУ"
		}
		return action + ": " + item
	case model.TicketProcurement:
		item := strings.TrimSpace(req.ProcurementItem)
		if item == "" {
			item = "предмет"
		}
		return "Закупка: " + item
	case model.TicketPrintout:
		color := "Ч/Б"
		if req.PrintType == "color" {
			color = "Цвет"
		}
		return fmt.Sprintf("Распечатка: %s стр. (%s)", strings.TrimSpace(req.PrintPages), color)
	}
	return strings.TrimSpace(req.Subject)
}

// Create files a ticket and snapshots the routing rule of its type.
// Later renames of the assignee do not touch existing tickets.
func (s *helpdeskService) Create(ctx context.Context, actor *model.User, req CreateTicketRequest) (*model.HelpdeskTicket, error) {
	if !access.CanCreateTickets(actor) {
		return nil, ErrForbidden
	}
	if req.Type == "" {
		req.Type = model.TicketComputers
	}
	if !validTicketType(req.Type) {
		return nil, invalidf("unknown ticket type %q", req.Type)
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !model.ValidTicketPriority(req.Priority) {
		return nil, invalidf("unknown ticket priority %q", req.Priority)
	}

	subject := ticketSubject(req)
	if subject == "" {
		return nil, invalidf("ticket subject is required")
	}

	stamp := timestamp(s.now())
	department := req.Department
	if department == "" {
		department = actor.Department
	}
	ticket := model.HelpdeskTicket{
		ID:              uuid.NewString(),
		UserID:          actor.ID,
		Username:        actor.Username,
		Subject:         subject,
		Description:     req.Description,
		Status:          model.TicketNew,
		Priority:        req.Priority,
		Type:            req.Type,
		Department:      department,
		Cabinet:         req.Cabinet,
		InternalNotes:   []model.TicketNote{},
		EquipmentAction: req.EquipmentAction,
		EquipmentModel:  req.EquipmentModel,
		ProcurementItem: req.ProcurementItem,
		PrintType:       req.PrintType,
		PrintPages:      req.PrintPages,
		EventSound:      req.EventSound,
		EventLight:      req.EventLight,
		EventScreen:     req.EventScreen,
		CreatedAt:       stamp,
		UpdatedAt:       stamp,
	}

	dir := s.Repos.Directory.Load(ctx)
	if rule, ok := dir.RuleFor(ticket.Type); ok {
		ticket.AssignedToID = rule.AssigneeID
		ticket.AssignedToName = rule.AssigneeName
	}

	stored, err := s.Repos.Tickets.Load(ctx)
	if err != nil {
		return nil, err
	}
	tickets := append([]model.HelpdeskTicket{ticket}, stored...)
	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Tickets.Save(txCtx, tickets)
	}, actor, model.ActionCreateTicket, ticket.ID, ticket.Subject, map[string]string{
		"type":       string(ticket.Type),
		"assignedTo": ticket.AssignedToName,
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// modify applies fn to the ticket with id and saves the collection
func (s *helpdeskService) modify(ctx context.Context, actor *model.User, id string, fn func(t *model.HelpdeskTicket) error) (*model.HelpdeskTicket, error) {
	tickets, err := s.Repos.Tickets.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID != id {
			continue
		}
		if err := fn(&tickets[i]); err != nil {
			return nil, err
		}
		tickets[i].UpdatedAt = timestamp(s.now())
		updated := tickets[i]
		err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
			return s.Repos.Tickets.Save(txCtx, tickets)
		}, actor, model.ActionUpdateTicket, updated.ID, updated.Subject, map[string]string{
			"status": string(updated.Status),
		})
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, notFoundf("ticket %s", id)
}

func (s *helpdeskService) UpdateStatus(ctx context.Context, actor *model.User, id string, status model.TicketStatus) (*model.HelpdeskTicket, error) {
	if !access.CanExecuteTickets(actor) {
		return nil, ErrForbidden
	}
	if !model.ValidTicketStatus(status) {
		return nil, invalidf("unknown ticket status %q", status)
	}
	return s.modify(ctx, actor, id, func(t *model.HelpdeskTicket) error {
		t.Status = status
		return nil
	})
}

func (s *helpdeskService) AddNote(ctx context.Context, actor *model.User, id, text string) (*model.HelpdeskTicket, error) {
	if !access.CanExecuteTickets(actor) {
		return nil, ErrForbidden
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidf("note text is required")
	}
	return s.modify(ctx, actor, id, func(t *model.HelpdeskTicket) error {
		t.InternalNotes = append(t.InternalNotes, model.TicketNote{
			ID:        uuid.NewString(),
			Author:    actor.Username,
			Text:      text,
			CreatedAt: timestamp(s.now()),
		})
		return nil
	})
}

// Delete is allowed to executors, and to the reporter while the ticket is still new
func (s *helpdeskService) Delete(ctx context.Context, actor *model.User, id string) error {
	if actor == nil {
		return ErrForbidden
	}
	tickets, err := s.Repos.Tickets.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.HelpdeskTicket, 0, len(tickets))
	var target *model.HelpdeskTicket
	for i := range tickets {
		if tickets[i].ID == id {
			target = &tickets[i]
			continue
		}
		kept = append(kept, tickets[i])
	}
	if target == nil {
		return notFoundf("ticket %s", id)
	}
	ownNew := target.UserID == actor.ID && target.Status == model.TicketNew
	if !access.CanExecuteTickets(actor) && !ownNew {
		return ErrForbidden
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Tickets.Save(txCtx, kept)
	}, actor, model.ActionDeleteTicket, target.ID, target.Subject, nil)
}

// visible returns the tickets the actor may see, newest first
func (s *helpdeskService) visible(ctx context.Context, actor *model.User) []model.HelpdeskTicket {
	if !access.CanSeeHelpdesk(actor) {
		return []model.HelpdeskTicket{}
	}
	all := s.Repos.Tickets.Get(ctx)
	executor := access.CanExecuteTickets(actor)
	out := make([]model.HelpdeskTicket, 0, len(all))
	for _, t := range all {
		if executor || t.UserID == actor.ID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

func (s *helpdeskService) List(ctx context.Context, actor *model.User, filter model.TicketType) []model.HelpdeskTicket {
	tickets := s.visible(ctx, actor)
	if filter == "" {
		return tickets
	}
	out := tickets[:0]
	for _, t := range tickets {
		if t.Type == filter {
			out = append(out, t)
		}
	}
	return out
}

func (s *helpdeskService) Stats(ctx context.Context, actor *model.User) TicketStats {
	tickets := s.visible(ctx, actor)
	stats := TicketStats{Total: len(tickets), ByType: []TicketTypeCount{}}
	counts := map[model.TicketType]int{}
	for i := range tickets {
		if tickets[i].IsOpen() {
			stats.Open++
		} else {
			stats.Closed++
		}
		counts[tickets[i].Type]++
	}
	for _, t := range model.TicketTypes {
		if n := counts[t]; n > 0 {
			stats.ByType = append(stats.ByType, TicketTypeCount{Type: t, Count: n, Percent: percent(n, stats.Total)})
		}
	}
	sort.SliceStable(stats.ByType, func(i, j int) bool { return stats.ByType[i].Count > stats.ByType[j].Count })
	return stats
}
