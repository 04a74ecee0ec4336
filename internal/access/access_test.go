package access_test

import (
	"encoding/json"
	"testing"

	"console/internal/access"
	"console/internal/model"
)

// userWith always builds a non-nil role set; a nil one is the "no roles array" case
func userWith(roles ...model.UserRole) *model.User {
	return &model.User{ID: "u1", Login: "Петров Петр", Roles: append(model.RoleSet{}, roles...)}
}

func TestHasAccess(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.User
		section access.Section
		want    bool
	}{
		{"nil user", nil, access.SectionDashboard, false},
		{"nil roles", &model.User{Login: "x"}, access.SectionDashboard, false},
		{"empty roles dashboard", userWith(), access.SectionDashboard, true},
		{"empty roles concerts", userWith(), access.SectionConcerts, false},
		{"admin any section", userWith(model.RoleAdmin), access.SectionInfo, true},
		{"admin unknown section", userWith(model.RoleAdmin), access.Section("nope"), true},
		{"it prefix tickets", userWith(model.RoleITTickets), access.SectionIT, true},
		{"it prefix inventory", userWith(model.RoleITInventory), access.SectionIT, true},
		{"it custom prefix", userWith(model.UserRole("it_custom")), access.SectionIT, true},
		{"it without prefix", userWith(model.RoleInfo), access.SectionIT, false},
		{"watchman security", userWith(model.RoleSecurity), access.SectionWatchman, true},
		{"watchman parking", userWith(model.RoleParking), access.SectionWatchman, true},
		{"watchman concerts", userWith(model.RoleConcerts), access.SectionWatchman, false},
		{"concerts role", userWith(model.RoleConcerts), access.SectionConcerts, true},
		{"parking section", userWith(model.RoleParking), access.SectionParking, true},
		{"parking section needs parking", userWith(model.RoleSecurity), access.SectionParking, false},
		{"info role", userWith(model.RoleInfo), access.SectionInfo, true},
		{"buh unmapped", userWith(model.RoleBuh), access.SectionInfo, false},
		{"unknown section", userWith(model.RoleConcerts, model.RoleInfo), access.Section("reports"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := access.HasAccess(tt.user, tt.section); got != tt.want {
				t.Errorf("HasAccess(%v) = %v, want %v", tt.section, got, tt.want)
			}
		})
	}
}

func TestAdminSeesWholeNavigation(t *testing.T) {
	admin := userWith(model.RoleAdmin)
	for _, s := range access.NavigationOrder {
		if !access.HasAccess(admin, s) {
			t.Errorf("admin denied section %q", s)
		}
	}
	if got := access.Navigation(admin); len(got) != len(access.NavigationOrder) {
		t.Errorf("expected %d sections, got %v", len(access.NavigationOrder), got)
	}
}

func TestNavigationOmitsITWithoutSubPermissions(t *testing.T) {
	// it_custom passes the prefix rule but grants neither sub-tab
	user := userWith(model.UserRole("it_custom"), model.RoleConcerts)
	for _, s := range access.Navigation(user) {
		if s == access.SectionIT {
			t.Fatalf("IT section must be absent, got %v", access.Navigation(user))
		}
	}

	nav := access.Navigation(userWith(model.RoleITInventory))
	found := false
	for _, s := range nav {
		if s == access.SectionIT {
			found = true
		}
	}
	if !found {
		t.Errorf("expected IT section for it_inventory, got %v", nav)
	}
}

func TestNavigationOrderPreserved(t *testing.T) {
	nav := access.Navigation(userWith(model.RoleInfo, model.RoleSecurity))
	want := []access.Section{access.SectionDashboard, access.SectionWatchman, access.SectionInfo}
	if len(nav) != len(want) {
		t.Fatalf("expected %v, got %v", want, nav)
	}
	for i := range want {
		if nav[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], nav[i])
		}
	}
}

func TestResolveITTab(t *testing.T) {
	tests := []struct {
		name      string
		user      *model.User
		requested access.ITTab
		want      access.ITTab
	}{
		{"only inventory forces inventory", userWith(model.RoleITInventory), access.TabHelpdesk, access.TabInventory},
		{"only helpdesk forces helpdesk", userWith(model.RoleITTickets), access.TabInventory, access.TabHelpdesk},
		{"both keeps request", userWith(model.RoleITAdmin), access.TabInventory, access.TabInventory},
		{"both defaults helpdesk", userWith(model.RoleAdmin), "", access.TabHelpdesk},
		{"none", userWith(model.RoleInfo), access.TabHelpdesk, ""},
		{"nil user", nil, access.TabHelpdesk, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := access.ResolveITTab(tt.user, tt.requested); got != tt.want {
				t.Errorf("ResolveITTab = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManageIsSeparateFromRead(t *testing.T) {
	staff := userWith(model.RoleConcerts)
	if !access.HasAccess(staff, access.SectionConcerts) {
		t.Fatal("concerts role should read the concerts section")
	}
	if access.CanManageEvents(staff) {
		t.Error("concerts role must not manage events")
	}
	if !access.CanManageEvents(userWith(model.RoleAdmin)) {
		t.Error("admin should manage events")
	}
}

func TestTicketAndInventoryCapabilities(t *testing.T) {
	tickets := userWith(model.RoleITTickets)
	if !access.CanCreateTickets(tickets) || access.CanExecuteTickets(tickets) {
		t.Error("it_tickets creates but does not execute")
	}
	itAdmin := userWith(model.RoleITAdmin)
	if !access.CanExecuteTickets(itAdmin) || !access.CanManageInventory(itAdmin) || !access.CanManageArticles(itAdmin) {
		t.Error("it_admin executes tickets, manages inventory and articles")
	}
	if access.CanManageInventory(userWith(model.RoleITTickets)) {
		t.Error("it_tickets must not manage inventory")
	}
	if access.CanCreateTickets(nil) || access.CanManageArticles(nil) {
		t.Error("nil user must be denied")
	}
}

func TestMalformedRolesDecodeSafely(t *testing.T) {
	var u model.User
	if err := json.Unmarshal([]byte(`{"login":"x","roles":"admin"}`), &u); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if access.HasAccess(&u, access.SectionDashboard) {
		t.Error("non-array roles must deny everything")
	}

	if err := json.Unmarshal([]byte(`{"login":"x","roles":[42,"concerts",null]}`), &u); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !access.HasAccess(&u, access.SectionConcerts) {
		t.Error("string entries should survive decoding")
	}
	if len(u.Roles) != 1 {
		t.Errorf("expected 1 role, got %v", u.Roles)
	}
}

func TestEmptyRoleArrayReachesDashboardOnly(t *testing.T) {
	var empty, missing model.User
	if err := json.Unmarshal([]byte(`{"login":"x","roles":[]}`), &empty); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"login":"x","roles":null}`), &missing); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !access.HasAccess(&empty, access.SectionDashboard) {
		t.Error("an empty role array should still reach the dashboard")
	}
	if access.HasAccess(&empty, access.SectionConcerts) {
		t.Error("an empty role array must not reach concerts")
	}
	if access.HasAccess(&missing, access.SectionDashboard) {
		t.Error("null roles must deny everything")
	}
}

func TestCapabilitiesFor(t *testing.T) {
	caps := access.CapabilitiesFor(userWith(model.RoleITInventory))
	if caps.CanSeeHelpdesk || !caps.CanSeeInventory {
		t.Errorf("unexpected IT visibility: %+v", caps)
	}
	if caps.DefaultITTab != access.TabInventory {
		t.Errorf("expected inventory tab, got %q", caps.DefaultITTab)
	}
}
