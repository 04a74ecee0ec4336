package repository_test

import (
	"context"
	"errors"
	"testing"

	"console/internal/mocks"
	"console/internal/model"
	"console/internal/repository"
	"console/internal/testutil"

	"github.com/rs/zerolog"
)

func newMockBlobs() (*repository.Blobs, *mocks.MockSettingsStore, *mocks.MockNotifier) {
	store := mocks.NewMockSettingsStore()
	notifier := &mocks.MockNotifier{}
	return repository.NewBlobs(store, zerolog.Nop(), notifier), store, notifier
}

func TestCollectionSaveReplacesWholeList(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()

	first := []model.HelpdeskTicket{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	if err := h.Repos.Tickets.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := []model.HelpdeskTicket{{ID: "t9", Subject: "Принтер"}, {ID: "t2"}}
	if err := h.Repos.Tickets.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := h.Repos.Tickets.Get(ctx)
	if len(got) != len(second) {
		t.Fatalf("expected %d tickets, got %d", len(second), len(got))
	}
	for i := range second {
		if got[i].ID != second[i].ID {
			t.Errorf("position %d: expected %s, got %s", i, second[i].ID, got[i].ID)
		}
	}
	if got[0].Subject != "Принтер" {
		t.Errorf("expected subject to survive, got %q", got[0].Subject)
	}
}

func TestCollectionGetMissingIsEmpty(t *testing.T) {
	blobs, _, _ := newMockBlobs()
	coll := repository.NewCollection[model.Vehicle](blobs, model.KeyParkingList)

	got := coll.Get(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCollectionGetSwallowsReadErrors(t *testing.T) {
	blobs, store, _ := newMockBlobs()
	store.ReadError = errors.New("connection reset")
	coll := repository.NewCollection[model.Reminder](blobs, model.KeyReminders)

	if got := coll.Get(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty list on read error, got %v", got)
	}
}

func TestCollectionGetSwallowsCorruptBlob(t *testing.T) {
	blobs, store, _ := newMockBlobs()
	store.Put(model.KeyInfoArticles, `{"not":"an array"`)
	coll := repository.NewCollection[model.InfoArticle](blobs, model.KeyInfoArticles)

	if got := coll.Get(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty list for corrupt blob, got %v", got)
	}
}

func TestCollectionSavePropagatesWriteErrors(t *testing.T) {
	blobs, store, notifier := newMockBlobs()
	store.WriteError = errors.New("disk full")
	coll := repository.NewCollection[model.Vehicle](blobs, model.KeyParkingList)

	err := coll.Save(context.Background(), []model.Vehicle{{ID: "v1"}})
	if !errors.Is(err, store.WriteError) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
	if notifier.Count(repository.EventCollectionUpdated) != 0 {
		t.Error("failed save must not publish")
	}
}

func TestCollectionSavePublishesUpdate(t *testing.T) {
	blobs, _, notifier := newMockBlobs()
	coll := repository.NewCollection[model.GuestGuide](blobs, model.KeyGuestGuides)

	if err := coll.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(notifier.Events) != 1 {
		t.Fatalf("expected one published event, got %d", len(notifier.Events))
	}
	if notifier.Events[0].Data["collection"] != model.KeyGuestGuides {
		t.Errorf("unexpected payload: %v", notifier.Events[0].Data)
	}
	// nil saves as an empty array, not null
	if got := coll.Get(context.Background()); got == nil {
		t.Error("expected empty non-nil list")
	}
}

func TestUsersFallBackToBootstrapAdmin(t *testing.T) {
	blobs, store, _ := newMockBlobs()
	users := repository.NewUserRepository(blobs, "secret")
	ctx := context.Background()

	list := users.List(ctx)
	if len(list) != 1 || list[0].Login != model.AdminLogin || !list[0].HasRole(model.RoleAdmin) {
		t.Fatalf("expected bootstrap admin, got %+v", list)
	}
	if store.WriteCount(model.KeyUserRegistry) != 0 {
		t.Error("fallback must not be persisted")
	}

	store.ReadError = errors.New("timeout")
	if list := users.List(ctx); len(list) != 1 || list[0].Login != model.AdminLogin {
		t.Fatalf("expected bootstrap admin on read error, got %+v", list)
	}
	store.ReadError = nil

	stored := []model.User{{ID: "u1", Login: "Иванов Иван", Roles: model.RoleSet{}}}
	if err := users.Save(ctx, stored); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if list := users.List(ctx); len(list) != 1 || list[0].ID != "u1" {
		t.Fatalf("expected stored registry, got %+v", list)
	}
}

func TestUserGetByLoginIsCaseInsensitive(t *testing.T) {
	blobs, _, _ := newMockBlobs()
	users := repository.NewUserRepository(blobs, "secret")
	ctx := context.Background()

	if err := users.Save(ctx, []model.User{{ID: "u1", Login: "Иванов Иван"}}); err != nil {
		t.Fatal(err)
	}
	u, ok := users.GetByLogin(ctx, "  иванов иван ")
	if !ok || u.ID != "u1" {
		t.Fatalf("expected u1, got %+v %v", u, ok)
	}
	if _, ok := users.GetByLogin(ctx, "Петров"); ok {
		t.Error("unexpected match")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()

	if got := h.Repos.Cancelled.Get(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}
	if err := h.Repos.Cancelled.Save(ctx, map[string]bool{"e1": true}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := h.Repos.Cancelled.Get(ctx); !got["e1"] || len(got) != 1 {
		t.Fatalf("unexpected registry %v", got)
	}
}

func TestDocumentMissingIsNotFound(t *testing.T) {
	blobs, store, _ := newMockBlobs()
	doc := repository.NewDocument[model.NotificationConfig](blobs, model.KeyNotificationConfig)
	ctx := context.Background()

	if _, found := doc.Get(ctx); found {
		t.Fatal("expected not found")
	}
	store.Put(model.KeyNotificationConfig, `{"enabled":true,"digestSchedule":"0 9 * * 1-5","remindDaysAhead":3}`)
	cfg, found := doc.Get(ctx)
	if !found || !cfg.Enabled || cfg.RemindDaysAhead != 3 {
		t.Fatalf("unexpected config %+v (found=%v)", cfg, found)
	}
}

func TestRunInTxRollsBackBlobWrites(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := h.Repos.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := h.Repos.Cancelled.Save(txCtx, map[string]bool{"e1": true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := h.Repos.Cancelled.Get(ctx); len(got) != 0 {
		t.Fatalf("expected rollback, got %v", got)
	}
	if n := h.Notifier.Count(repository.EventCollectionUpdated); n != 0 {
		t.Errorf("a rolled back save must not be published, got %d messages", n)
	}
}

func TestRunInTxPublishesAfterCommit(t *testing.T) {
	h := testutil.NewHarness(t)
	ctx := context.Background()

	err := h.Repos.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := h.Repos.Cancelled.Save(txCtx, map[string]bool{"e1": true}); err != nil {
			return err
		}
		if n := h.Notifier.Count(repository.EventCollectionUpdated); n != 0 {
			t.Errorf("published before commit: %d messages", n)
		}
		return h.Repos.Rentals.Save(txCtx, map[string][]model.RentedEquipment{})
	})
	if err != nil {
		t.Fatalf("RunInTx failed: %v", err)
	}
	if n := h.Notifier.Count(repository.EventCollectionUpdated); n != 2 {
		t.Errorf("expected both saves published after commit, got %d", n)
	}
}

func TestLoadReportsWhatGetSwallows(t *testing.T) {
	blobs, store, _ := newMockBlobs()
	ctx := context.Background()
	tickets := repository.NewCollection[model.HelpdeskTicket](blobs, model.KeyHelpdeskTickets)
	cancelled := repository.NewRegistry[bool](blobs, model.KeyCancelledEvents)

	if got, err := tickets.Load(ctx); err != nil || got == nil || len(got) != 0 {
		t.Fatalf("missing record: expected empty list, got %v (%v)", got, err)
	}

	store.Put(model.KeyHelpdeskTickets, `[{"id":"t1","printPages":12}]`)
	store.Put(model.KeyCancelledEvents, `["e1"]`)
	if _, err := tickets.Load(ctx); err == nil {
		t.Error("expected a decode error from Collection.Load")
	}
	if _, err := cancelled.Load(ctx); err == nil {
		t.Error("expected a decode error from Registry.Load")
	}
	if got := tickets.Get(ctx); len(got) != 0 {
		t.Errorf("Get should still serve an empty list, got %v", got)
	}

	store.ReadError = errors.New("connection reset")
	if _, err := tickets.Load(ctx); !errors.Is(err, store.ReadError) {
		t.Errorf("expected the wrapped read error, got %v", err)
	}
}

func TestUserLoadDoesNotServeFallbackOnError(t *testing.T) {
	blobs, store, _ := newMockBlobs()
	users := repository.NewUserRepository(blobs, "secret")
	ctx := context.Background()

	list, err := users.Load(ctx)
	if err != nil || len(list) != 1 || list[0].Login != model.AdminLogin {
		t.Fatalf("missing registry: expected bootstrap admin, got %+v (%v)", list, err)
	}

	store.ReadError = errors.New("timeout")
	if _, err := users.Load(ctx); !errors.Is(err, store.ReadError) {
		t.Errorf("expected the read error, got %v", err)
	}
}
