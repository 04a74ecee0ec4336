package service_test

import (
	"testing"

	"console/internal/model"
	"console/internal/service"
	"console/internal/testutil"

	"github.com/rs/zerolog"
)

type fixture struct {
	h     *testutil.Harness
	clock *testutil.Clock
	deps  service.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h := testutil.NewHarness(t)
	clock := testutil.NewClock(testutil.ReferenceTime())
	return &fixture{
		h:     h,
		clock: clock,
		deps: service.Deps{
			Repos:    h.Repos,
			Log:      zerolog.Nop(),
			Notifier: h.Notifier,
			Now:      clock.Now,
		},
	}
}

func adminUser() *model.User {
	return &model.User{ID: "admin", Login: "admin", Username: "Администратор", Roles: model.RoleSet{model.RoleAdmin}, IsActive: true}
}

func userWith(id, name string, roles ...model.UserRole) *model.User {
	return &model.User{ID: id, Login: name, Username: name, Roles: append(model.RoleSet{}, roles...), IsActive: true}
}
