package service

import (
	"context"

	"console/internal/access"
	"console/internal/model"
	"console/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, actor *model.User, filter repository.AuditFilter, offset, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	Deps
}

// NewAuditService creates a new AuditService instance
func NewAuditService(deps Deps) AuditService {
	return &auditService{Deps: deps}
}

// GetAuditLogs returns one page of the trail, newest first. Admins only.
func (s *auditService) GetAuditLogs(ctx context.Context, actor *model.User, filter repository.AuditFilter, offset, limit int) ([]AuditLogResponse, int64, error) {
	if !access.IsAdmin(actor) {
		return nil, 0, ErrForbidden
	}

	logs, total, err := s.Repos.Audit.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := l.Username
		if username == "" {
			username = "System"
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
