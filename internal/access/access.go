// Package access decides which console sections and actions a user may reach.
//
// Every predicate is pure and total: a nil user or a missing role list
// resolves to "deny", never to a panic.
package access

import (
	"strings"

	"console/internal/model"
)

// Section identifies a top-level navigation section
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionWatchman  Section = "watchman"
	SectionConcerts  Section = "concerts"
	SectionParking   Section = "admin" // historical id of the parking section
	SectionIT        Section = "it"
	SectionInfo      Section = "info"
)

// NavigationOrder is the full navigation set in display order
var NavigationOrder = []Section{
	SectionDashboard, SectionWatchman, SectionConcerts, SectionParking, SectionIT, SectionInfo,
}

// sectionRoles maps the remaining sections to their single required role
var sectionRoles = map[Section]model.UserRole{
	SectionConcerts: model.RoleConcerts,
	SectionParking:  model.RoleParking,
	SectionInfo:     model.RoleInfo,
}

// ITTab is a sub-tab of the IT section
type ITTab string

const (
	TabHelpdesk  ITTab = "helpdesk"
	TabInventory ITTab = "inventory"
)

func has(roles []model.UserRole, want ...model.UserRole) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role
func IsAdmin(u *model.User) bool {
	return u != nil && has(u.Roles, model.RoleAdmin)
}

// HasAccess applies the section rules in priority order; first match wins.
func HasAccess(u *model.User, section Section) bool {
	if u == nil || u.Roles == nil {
		return false
	}
	if has(u.Roles, model.RoleAdmin) {
		return true
	}
	switch section {
	case SectionDashboard:
		return true
	case SectionIT:
		for _, r := range u.Roles {
			if strings.HasPrefix(string(r), "it_") {
				return true
			}
		}
		return false
	case SectionWatchman:
		return has(u.Roles, model.RoleSecurity, model.RoleParking)
	}
	if required, ok := sectionRoles[section]; ok {
		return has(u.Roles, required)
	}
	return false
}

// CanSeeHelpdesk gates the helpdesk sub-tab of the IT section
func CanSeeHelpdesk(u *model.User) bool {
	return IsAdmin(u) || (u != nil && has(u.Roles, model.RoleITTickets, model.RoleITAdmin))
}

// CanSeeInventory gates the inventory sub-tab of the IT section
func CanSeeInventory(u *model.User) bool {
	return IsAdmin(u) || (u != nil && has(u.Roles, model.RoleITInventory, model.RoleITAdmin))
}

// ResolveITTab picks the IT sub-tab to show. When only one tab is permitted it
// is forced regardless of the request; when none is, the result is empty.
func ResolveITTab(u *model.User, requested ITTab) ITTab {
	helpdesk, inventory := CanSeeHelpdesk(u), CanSeeInventory(u)
	switch {
	case helpdesk && inventory:
		if requested == TabInventory {
			return TabInventory
		}
		return TabHelpdesk
	case helpdesk:
		return TabHelpdesk
	case inventory:
		return TabInventory
	}
	return ""
}

// Navigation returns the sections visible to the user in display order.
// The IT entry is dropped when neither IT sub-tab is reachable.
func Navigation(u *model.User) []Section {
	out := make([]Section, 0, len(NavigationOrder))
	for _, s := range NavigationOrder {
		if !HasAccess(u, s) {
			continue
		}
		if s == SectionIT && !CanSeeHelpdesk(u) && !CanSeeInventory(u) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CanManageEvents gates create/edit/delete of concert events. It is
// deliberately separate from read access to the concerts section.
func CanManageEvents(u *model.User) bool {
	return IsAdmin(u)
}

// CanCreateTickets gates filing helpdesk tickets
func CanCreateTickets(u *model.User) bool {
	return u != nil && has(u.Roles, model.RoleAdmin, model.RoleITTickets, model.RoleITAdmin)
}

// CanExecuteTickets gates status changes and full ticket visibility
func CanExecuteTickets(u *model.User) bool {
	return u != nil && has(u.Roles, model.RoleAdmin, model.RoleITAdmin)
}

// CanManageInventory gates inventory and cabinet metadata mutations
func CanManageInventory(u *model.User) bool {
	return u != nil && has(u.Roles, model.RoleAdmin, model.RoleITInventory, model.RoleITAdmin)
}

// CanManageArticles gates knowledge base edits
func CanManageArticles(u *model.User) bool {
	return u != nil && has(u.Roles, model.RoleAdmin, model.RoleInfo, model.RoleITAdmin)
}

// Capabilities is the flattened permission set handed to the console on /me
type Capabilities struct {
	IsAdmin            bool  `json:"isAdmin"`
	CanManageEvents    bool  `json:"canManageEvents"`
	CanSeeHelpdesk     bool  `json:"canSeeHelpdesk"`
	CanSeeInventory    bool  `json:"canSeeInventory"`
	CanCreateTickets   bool  `json:"canCreateTickets"`
	CanExecuteTickets  bool  `json:"canExecuteTickets"`
	CanManageInventory bool  `json:"canManageInventory"`
	CanManageArticles  bool  `json:"canManageArticles"`
	DefaultITTab       ITTab `json:"defaultItTab,omitempty"`
}

// CapabilitiesFor evaluates every predicate for the user
func CapabilitiesFor(u *model.User) Capabilities {
	return Capabilities{
		IsAdmin:            IsAdmin(u),
		CanManageEvents:    CanManageEvents(u),
		CanSeeHelpdesk:     CanSeeHelpdesk(u),
		CanSeeInventory:    CanSeeInventory(u),
		CanCreateTickets:   CanCreateTickets(u),
		CanExecuteTickets:  CanExecuteTickets(u),
		CanManageInventory: CanManageInventory(u),
		CanManageArticles:  CanManageArticles(u),
		DefaultITTab:       ResolveITTab(u, TabHelpdesk),
	}
}
