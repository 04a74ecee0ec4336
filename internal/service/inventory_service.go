package service

import (
	"context"
	"strings"

	"console/internal/access"
	"console/internal/model"

	"github.com/google/uuid"
)

// InventoryRow is one line of the hierarchical inventory table
type InventoryRow struct {
	model.InventoryItem
	IsChild bool `json:"isChild"`
}

type InventoryQuery struct {
	Search     string
	Department string
	Cabinet    string
}

type InventoryStats struct {
	Total  int `json:"total"`
	Broken int `json:"broken"`
	Repair int `json:"repair"`
}

type CabinetUpdate struct {
	Department    *string `json:"department"`
	Problems      *string `json:"problems"`
	LastAuditDate *string `json:"lastAuditDate"`
	IsAudited     *bool   `json:"isAudited"`
}

type InventoryService interface {
	List(ctx context.Context, q InventoryQuery) []InventoryRow
	Save(ctx context.Context, actor *model.User, item model.InventoryItem) (*model.InventoryItem, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	Stats(ctx context.Context) InventoryStats
	Cabinets(ctx context.Context) map[string]model.CabinetMetadata
	UpdateCabinet(ctx context.Context, actor *model.User, cabinet string, upd CabinetUpdate) (model.CabinetMetadata, error)
}

type inventoryService struct {
	Deps
}

func NewInventoryService(deps Deps) InventoryService {
	return &inventoryService{Deps: deps}
}

// List returns roots each followed by their children. A child whose parent
// is missing or is not a root itself is shown as a root at the end. A search
// flattens the result.
func (s *inventoryService) List(ctx context.Context, q InventoryQuery) []InventoryRow {
	items := s.Repos.Inventory.Get(ctx)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]model.InventoryItem, 0, len(items))
	for _, it := range items {
		if q.Department != "" && it.Department != q.Department {
			continue
		}
		if q.Cabinet != "" && it.Cabinet != q.Cabinet {
			continue
		}
		filtered = append(filtered, it)
	}

	if search != "" {
		out := make([]InventoryRow, 0, len(filtered))
		for _, it := range filtered {
			if containsFold(search, it.Model, it.InvNumber, it.Cabinet, it.ResponsibleName, it.IPAddress) {
				out = append(out, InventoryRow{InventoryItem: it})
			}
		}
		return out
	}

	roots := make(map[string]bool, len(filtered))
	for _, it := range filtered {
		if it.ParentID == "" {
			roots[it.ID] = true
		}
	}
	children := map[string][]model.InventoryItem{}
	for _, it := range filtered {
		if it.ParentID != "" && roots[it.ParentID] {
			children[it.ParentID] = append(children[it.ParentID], it)
		}
	}

	out := make([]InventoryRow, 0, len(filtered))
	var orphans []InventoryRow
	for _, it := range filtered {
		switch {
		case it.ParentID == "":
			out = append(out, InventoryRow{InventoryItem: it})
			for _, c := range children[it.ID] {
				out = append(out, InventoryRow{InventoryItem: c, IsChild: true})
			}
		case !roots[it.ParentID]:
			orphans = append(orphans, InventoryRow{InventoryItem: it})
		}
	}
	return append(out, orphans...)
}

// checkParent keeps the hierarchy one level deep: the parent must be a
// stored root, and an item that already has children cannot be attached.
func checkParent(items []model.InventoryItem, item model.InventoryItem) error {
	if item.ParentID == "" {
		return nil
	}
	if item.ParentID == item.ID {
		return invalidf("an item cannot be its own parent")
	}
	var parent *model.InventoryItem
	for i := range items {
		if items[i].ID == item.ParentID {
			parent = &items[i]
			break
		}
	}
	if parent == nil {
		return invalidf("parent item %s not found", item.ParentID)
	}
	if parent.ParentID != "" {
		return invalidf("%s is attached to another item and cannot be a parent", parent.Model)
	}
	if item.ID == "" {
		return nil
	}
	for i := range items {
		if items[i].ParentID == item.ID && items[i].ID != item.ID {
			return invalidf("an item with attached equipment cannot be attached itself")
		}
	}
	return nil
}

func (s *inventoryService) Save(ctx context.Context, actor *model.User, item model.InventoryItem) (*model.InventoryItem, error) {
	if !access.CanManageInventory(actor) {
		return nil, ErrForbidden
	}
	item.Model = strings.TrimSpace(item.Model)
	if item.Model == "" {
		return nil, invalidf("item model is required")
	}
	if item.Type == "" {
		item.Type = model.EquipmentOther
	}
	if !model.ValidEquipmentType(item.Type) {
		return nil, invalidf("unknown equipment type %q", item.Type)
	}
	if item.Status == "" {
		item.Status = model.StatusWorking
	}
	if !model.ValidEquipmentStatus(item.Status) {
		return nil, invalidf("unknown equipment status %q", item.Status)
	}

	items, err := s.Repos.Inventory.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkParent(items, item); err != nil {
		return nil, err
	}
	now := s.now()
	action := "Создано"
	idx := -1
	if item.ID != "" {
		for i := range items {
			if items[i].ID == item.ID {
				idx = i
				break
			}
		}
	}
	if idx >= 0 {
		action = "Изменено"
		if item.History == nil {
			item.History = items[idx].History
		}
	} else if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.History == nil {
		item.History = []model.InventoryHistoryEntry{}
	}
	item.UpdatedAt = timestamp(now)
	item.History = append(item.History, model.InventoryHistoryEntry{
		ID:     uuid.NewString(),
		Date:   timestamp(now),
		Action: action,
		User:   actor.Username,
	})

	if idx >= 0 {
		items[idx] = item
	} else {
		items = append([]model.InventoryItem{item}, items...)
	}

	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Inventory.Save(txCtx, items)
	}, actor, model.ActionSaveInventory, item.ID, item.Model, map[string]string{
		"invNumber": item.InvNumber,
		"status":    string(item.Status),
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the item; its children become roots
func (s *inventoryService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !access.CanManageInventory(actor) {
		return ErrForbidden
	}
	items, err := s.Repos.Inventory.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.InventoryItem, 0, len(items))
	var removed *model.InventoryItem
	for i := range items {
		if items[i].ID == id {
			removed = &items[i]
			continue
		}
		kept = append(kept, items[i])
	}
	if removed == nil {
		return notFoundf("inventory item %s", id)
	}
	for i := range kept {
		if kept[i].ParentID == id {
			kept[i].ParentID = ""
		}
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Inventory.Save(txCtx, kept)
	}, actor, model.ActionDeleteInventory, removed.ID, removed.Model, nil)
}

func (s *inventoryService) Stats(ctx context.Context) InventoryStats {
	items := s.Repos.Inventory.Get(ctx)
	stats := InventoryStats{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case model.StatusBroken:
			stats.Broken++
		case model.StatusRepair:
			stats.Repair++
		}
	}
	return stats
}

func (s *inventoryService) Cabinets(ctx context.Context) map[string]model.CabinetMetadata {
	return s.Repos.Cabinets.Get(ctx)
}

// UpdateCabinet merges the set fields over the stored metadata, or over an empty record
func (s *inventoryService) UpdateCabinet(ctx context.Context, actor *model.User, cabinet string, upd CabinetUpdate) (model.CabinetMetadata, error) {
	cabinet = strings.TrimSpace(cabinet)
	if !access.CanManageInventory(actor) {
		return model.CabinetMetadata{}, ErrForbidden
	}
	if cabinet == "" {
		return model.CabinetMetadata{}, invalidf("cabinet is required")
	}

	all, err := s.Repos.Cabinets.Load(ctx)
	if err != nil {
		return model.CabinetMetadata{}, err
	}
	meta, ok := all[cabinet]
	if !ok {
		meta = model.CabinetMetadata{Cabinet: cabinet}
	}
	meta.Cabinet = cabinet
	if upd.Department != nil {
		meta.Department = *upd.Department
	}
	if upd.Problems != nil {
		meta.Problems = *upd.Problems
	}
	if upd.LastAuditDate != nil {
		meta.LastAuditDate = upd.LastAuditDate
	}
	if upd.IsAudited != nil {
		meta.IsAudited = *upd.IsAudited
	}
	all[cabinet] = meta

	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Cabinets.Save(txCtx, all)
	}, actor, model.ActionUpdateCabinet, cabinet, cabinet, meta)
	return meta, err
}
