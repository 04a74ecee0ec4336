package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"console/internal/model"
	"console/internal/service"
)

func TestArticlesOrderingAndPublicFilter(t *testing.T) {
	f := newFixture(t)
	svc := service.NewArticleService(f.deps)
	ctx := context.Background()
	editor := userWith("e", "Редактор", model.RoleInfo)

	first, err := svc.Save(ctx, editor, model.InfoArticle{Title: "Инструкция по Wi-Fi", Content: "пароль у охраны", Category: model.ArticleInstruction, IsPublic: true})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	f.clock.Advance(time.Minute)
	second, err := svc.Save(ctx, editor, model.InfoArticle{Content: "черновик"})
	if err != nil {
		t.Fatal(err)
	}
	if second.Title != "Без названия" || second.IsPublic || second.AuthorName != "Редактор" {
		t.Errorf("unexpected defaults: %+v", second)
	}

	list := svc.List(ctx, service.ArticleQuery{})
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", list)
	}
	if found := svc.List(ctx, service.ArticleQuery{Search: "ПАРОЛЬ"}); len(found) != 1 || found[0].ID != first.ID {
		t.Errorf("unexpected search result: %+v", found)
	}
	if byCat := svc.List(ctx, service.ArticleQuery{Category: model.ArticleInstruction}); len(byCat) != 1 {
		t.Errorf("expected category filter to match one article, got %d", len(byCat))
	}
	if public := svc.Public(ctx); len(public) != 1 || public[0].ID != first.ID {
		t.Errorf("expected only the public article, got %+v", public)
	}

	f.clock.Advance(time.Minute)
	first.Title = "Wi-Fi"
	updated, err := svc.Save(ctx, editor, *first)
	if err != nil {
		t.Fatal(err)
	}
	if updated.CreatedAt != first.CreatedAt || updated.UpdatedAt == first.UpdatedAt {
		t.Errorf("expected createdAt kept and updatedAt moved: %+v", updated)
	}

	if _, err := svc.Save(ctx, userWith("p", "Парковка", model.RoleParking), model.InfoArticle{}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, editor, second.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestGuidesPublicLookupOnlyActive(t *testing.T) {
	f := newFixture(t)
	svc := service.NewGuideService(f.deps)
	ctx := context.Background()
	manager := userWith("c", "Концерты", model.RoleConcerts)

	draft := service.NewGuide()
	active, err := svc.Save(ctx, manager, draft)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if active.Title != "Новый путеводитель" || active.WifiSSID != "SDDT_GUEST" || !active.ShowRiderReminder {
		t.Errorf("unexpected defaults: %+v", active)
	}

	hidden := service.NewGuide()
	hidden.IsActive = false
	hiddenSaved, err := svc.Save(ctx, manager, hidden)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Public(ctx, active.ID); err != nil {
		t.Errorf("expected the active guide to be public, got %v", err)
	}
	if _, err := svc.Public(ctx, hiddenSaved.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an inactive guide, got %v", err)
	}
	if len(svc.List(ctx)) != 2 {
		t.Error("expected both guides in the console list")
	}

	if err := svc.Delete(ctx, userWith("b", "Бух", model.RoleBuh), active.ID); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, manager, active.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}
