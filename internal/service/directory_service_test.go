package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"console/internal/model"
	"console/internal/service"

	"github.com/shopspring/decimal"
)

func TestSequentialAddEmployeeKeepsOrder(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	before := len(svc.Get(ctx).Employees)
	names := []string{"Первый", "Второй", "Третий", "Четвёртый"}
	for _, n := range names {
		if _, err := svc.AddEmployee(ctx, adminUser(), service.EmployeeRequest{Name: n}); err != nil {
			t.Fatalf("AddEmployee(%s) failed: %v", n, err)
		}
	}

	employees := svc.Get(ctx).Employees
	if len(employees) != before+len(names) {
		t.Fatalf("expected %d employees, got %d", before+len(names), len(employees))
	}
	for i, n := range names {
		if got := employees[before+i].Name; got != n {
			t.Errorf("position %d: expected %s, got %s", before+i, n, got)
		}
	}
}

func TestDirectoryEditsAreAdminOnly(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	clerk := userWith("u1", "Клерк", model.RoleConcerts)

	if _, err := svc.AddEmployee(context.Background(), clerk, service.EmployeeRequest{Name: "x"}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.AddVenue(context.Background(), clerk, "Сцена"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateAndRemoveEmployee(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	emp, err := svc.AddEmployee(ctx, adminUser(), service.EmployeeRequest{Name: "Орлов", Roles: []string{"Электрик"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateEmployee(ctx, adminUser(), emp.ID, service.EmployeeRequest{Name: "Орлов Олег", Phone: "123"}); err != nil {
		t.Fatalf("UpdateEmployee failed: %v", err)
	}
	if _, err := svc.UpdateEmployee(ctx, adminUser(), "missing", service.EmployeeRequest{Name: "x"}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	found := false
	for _, e := range svc.Get(ctx).Employees {
		if e.ID == emp.ID {
			found = e.Name == "Орлов Олег" && e.Phone == "123" && e.Roles != nil
		}
	}
	if !found {
		t.Error("expected the updated employee to be stored")
	}

	if err := svc.RemoveEmployee(ctx, adminUser(), emp.ID); err != nil {
		t.Fatalf("RemoveEmployee failed: %v", err)
	}
	if err := svc.RemoveEmployee(ctx, adminUser(), emp.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestVenuesAreDeduplicated(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.AddVenue(ctx, adminUser(), " Малый зал "); err != nil {
			t.Fatal(err)
		}
	}
	count := 0
	for _, v := range svc.Get(ctx).Venues {
		if v == "Малый зал" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one venue entry, got %d", count)
	}

	if err := svc.RemoveVenue(ctx, adminUser(), "Малый зал"); err != nil {
		t.Fatal(err)
	}
	for _, v := range svc.Get(ctx).Venues {
		if v == "Малый зал" {
			t.Error("venue survived removal")
		}
	}
}

func TestSetTicketRuleReplacesRuleForType(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		_, err := svc.SetTicketRule(ctx, adminUser(), service.TicketRuleRequest{
			Type:         model.TicketRecording,
			AssigneeID:   fmt.Sprintf("eng-%d", i),
			AssigneeName: fmt.Sprintf("Инженер %d", i),
		})
		if err != nil {
			t.Fatalf("SetTicketRule failed: %v", err)
		}
	}
	dir := svc.Get(ctx)
	rule, ok := dir.RuleFor(model.TicketRecording)
	if !ok || rule.AssigneeID != "eng-2" || len(dir.TicketRules) != 1 {
		t.Errorf("expected a single rule for eng-2, got %+v", dir.TicketRules)
	}

	if _, err := svc.SetTicketRule(ctx, adminUser(), service.TicketRuleRequest{Type: "coffee", AssigneeID: "x", AssigneeName: "x"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SetTicketRule(ctx, adminUser(), service.TicketRuleRequest{Type: model.TicketEvents, AssigneeID: "ghost"}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown assignee, got %v", err)
	}
	// non-admins are refused before the assignee is looked up
	staff := userWith("s1", "Сотрудник", model.RoleConcerts)
	if _, err := svc.SetTicketRule(ctx, staff, service.TicketRuleRequest{Type: model.TicketEvents, AssigneeID: "ghost"}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden for a non-admin, got %v", err)
	}

	if err := svc.RemoveTicketRule(ctx, adminUser(), model.TicketRecording); err != nil {
		t.Fatal(err)
	}
	dir = svc.Get(ctx)
	if _, ok := dir.RuleFor(model.TicketRecording); ok {
		t.Error("rule survived removal")
	}
}

func TestSaveDirectoryAssignsIDsAndRejectsNegativePrices(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	dir := svc.Get(ctx)
	dir.EquipmentCatalog = []model.EquipmentCatalogItem{{Name: "Микрофон", Price: decimal.NewFromInt(500)}}
	saved, err := svc.Save(ctx, adminUser(), dir)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.EquipmentCatalog[0].ID == "" {
		t.Error("expected catalog ids to be assigned")
	}

	dir.EquipmentCatalog = []model.EquipmentCatalogItem{{Name: "Долг", Price: decimal.NewFromInt(-1)}}
	if _, err := svc.Save(ctx, adminUser(), dir); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPhoneBookFiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	dir := svc.Get(ctx)
	dir.PhoneRecords = []model.PhoneRecord{
		{ID: "1", Name: "Яковлева", Department: "Бухгалтерия", Internal: "101"},
		{ID: "2", Name: "Андреев", Department: "IT", Internal: "202"},
		{ID: "3", Name: "Борисова", Department: "Бухгалтерия", Position: "Кассир"},
	}
	if _, err := svc.Save(ctx, adminUser(), dir); err != nil {
		t.Fatal(err)
	}

	all := svc.PhoneBook(ctx, service.PhoneBookQuery{})
	if len(all) != 3 || all[0].Name != "Андреев" {
		t.Errorf("expected sorted phone book, got %+v", all)
	}
	buh := svc.PhoneBook(ctx, service.PhoneBookQuery{Department: "Бухгалтерия"})
	if len(buh) != 2 {
		t.Errorf("expected 2 records, got %d", len(buh))
	}
	cashier := svc.PhoneBook(ctx, service.PhoneBookQuery{Search: "КАССИР"})
	if len(cashier) != 1 || cashier[0].ID != "3" {
		t.Errorf("unexpected search result: %+v", cashier)
	}
}

func TestDirectoryEditAbortsOnUnreadableRecord(t *testing.T) {
	f := newFixture(t)
	svc := service.NewDirectoryService(f.deps)
	ctx := context.Background()

	corrupt := `{"employees":[{"id":"e1","name":"Орлов"}],"venues":"Малый зал"}`
	if err := f.h.Repos.Settings.Write(ctx, model.KeyDirectory, []byte(corrupt)); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddEmployee(ctx, adminUser(), service.EmployeeRequest{Name: "Новый"}); err == nil {
		t.Fatal("expected AddEmployee to fail")
	}
	if err := svc.AddVenue(ctx, adminUser(), "Большой зал"); err == nil {
		t.Fatal("expected AddVenue to fail")
	}
	raw, err := f.h.Repos.Settings.Read(ctx, model.KeyDirectory)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != corrupt {
		t.Errorf("directory was overwritten: %s", raw)
	}
}
