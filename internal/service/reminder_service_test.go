package service_test

import (
	"context"
	"errors"
	"testing"

	"console/internal/model"
	"console/internal/service"
	"console/internal/testutil"
)

func TestDeadlineStatus(t *testing.T) {
	now := testutil.ReferenceTime()
	cases := []struct {
		deadline string
		days     int
		status   string
	}{
		{"2024-05-14", -1, "Просрочено"},
		{"2024-05-15", 0, "СЕГОДНЯ"},
		{"2024-05-16", 1, "ЗАВТРА"},
		{"2024-05-20", 5, "Через 5 дн."},
	}
	for _, tc := range cases {
		days, ok := service.DaysUntil(tc.deadline, now)
		if !ok || days != tc.days {
			t.Errorf("DaysUntil(%s) = %d, %v; want %d", tc.deadline, days, ok, tc.days)
		}
		if got := service.DeadlineStatus(days); got != tc.status {
			t.Errorf("DeadlineStatus(%d) = %q, want %q", days, got, tc.status)
		}
	}
	if _, ok := service.DaysUntil("soon", now); ok {
		t.Error("expected a malformed deadline to be rejected")
	}
}

func TestReminderLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReminderService(f.deps)
	ctx := context.Background()
	user := userWith("u", "Бухгалтер", model.RoleBuh)

	late, err := svc.Create(ctx, user, service.ReminderRequest{Title: "Табель", Deadline: "2024-05-31"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if late.Category != model.ReminderOther || late.CreatedBy != "Бухгалтер" {
		t.Errorf("unexpected defaults: %+v", late)
	}
	early, err := svc.Create(ctx, user, service.ReminderRequest{Title: "Отчёт", Deadline: "2024-05-16", Category: model.ReminderReport})
	if err != nil {
		t.Fatal(err)
	}
	done, err := svc.Create(ctx, user, service.ReminderRequest{Title: "Критерии", Deadline: "2024-05-01"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Toggle(ctx, user, done.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	all := svc.List(ctx, service.RemindersAll)
	if len(all) != 3 || all[0].ID != early.ID || all[1].ID != late.ID || all[2].ID != done.ID {
		t.Errorf("expected incomplete by deadline then completed, got %+v", all)
	}
	if all[0].Status != "ЗАВТРА" {
		t.Errorf("unexpected status %q", all[0].Status)
	}
	if active := svc.List(ctx, service.RemindersActive); len(active) != 2 {
		t.Errorf("expected 2 active reminders, got %d", len(active))
	}
	if completed := svc.List(ctx, service.RemindersCompleted); len(completed) != 1 {
		t.Errorf("expected 1 completed reminder, got %d", len(completed))
	}

	due := svc.Due(ctx, 3)
	if len(due) != 1 || due[0].ID != early.ID {
		t.Errorf("expected only the near deadline to be due, got %+v", due)
	}

	if err := svc.Delete(ctx, user, late.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Toggle(ctx, user, late.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, user, service.ReminderRequest{Title: "x", Deadline: "31.05.2024"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
