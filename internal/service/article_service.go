package service

import (
	"context"
	"sort"
	"strings"

	"console/internal/access"
	"console/internal/model"

	"github.com/google/uuid"
)

type ArticleQuery struct {
	Category model.ArticleCategory
	Search   string
}

// ArticleService is the knowledge base
type ArticleService interface {
	List(ctx context.Context, q ArticleQuery) []model.InfoArticle
	Public(ctx context.Context) []model.InfoArticle
	Save(ctx context.Context, actor *model.User, a model.InfoArticle) (*model.InfoArticle, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type articleService struct {
	Deps
}

func NewArticleService(deps Deps) ArticleService {
	return &articleService{Deps: deps}
}

func newestFirst(list []model.InfoArticle) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].UpdatedAt > list[j].UpdatedAt })
}

func (s *articleService) List(ctx context.Context, q ArticleQuery) []model.InfoArticle {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := []model.InfoArticle{}
	for _, a := range s.Repos.Articles.Get(ctx) {
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if search != "" && !containsFold(search, a.Title, a.Content) {
			continue
		}
		out = append(out, a)
	}
	newestFirst(out)
	return out
}

// Public returns the articles shown on the login screen
func (s *articleService) Public(ctx context.Context) []model.InfoArticle {
	out := []model.InfoArticle{}
	for _, a := range s.Repos.Articles.Get(ctx) {
		if a.IsPublic {
			out = append(out, a)
		}
	}
	newestFirst(out)
	return out
}

func (s *articleService) Save(ctx context.Context, actor *model.User, a model.InfoArticle) (*model.InfoArticle, error) {
	if !access.CanManageArticles(actor) {
		return nil, ErrForbidden
	}
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		a.Title = "Без названия"
	}
	if a.Category == "" {
		a.Category = model.ArticleNote
	}
	stamp := timestamp(s.now())
	a.UpdatedAt = stamp

	list, err := s.Repos.Articles.Load(ctx)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range list {
		if a.ID != "" && list[i].ID == a.ID {
			a.CreatedAt = list[i].CreatedAt
			list[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.CreatedAt = stamp
		a.AuthorName = actor.Username
		list = append([]model.InfoArticle{a}, list...)
	}

	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Articles.Save(txCtx, list)
	}, actor, model.ActionSaveArticle, a.ID, a.Title, map[string]interface{}{"isPublic": a.IsPublic})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *articleService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !access.CanManageArticles(actor) {
		return ErrForbidden
	}
	list, err := s.Repos.Articles.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.InfoArticle, 0, len(list))
	var removed *model.InfoArticle
	for i := range list {
		if list[i].ID == id {
			removed = &list[i]
			continue
		}
		kept = append(kept, list[i])
	}
	if removed == nil {
		return notFoundf("article %s", id)
	}
	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Articles.Save(txCtx, kept)
	}, actor, model.ActionDeleteArticle, removed.ID, removed.Title, nil)
}
