package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"console/internal/model"
	"console/internal/repository"

	"github.com/rs/zerolog"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Deps is what every service is built from
type Deps struct {
	Repos    *repository.Repositories
	Log      zerolog.Logger
	Notifier repository.Notifier
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) notifier() repository.Notifier {
	if d.Notifier != nil {
		return d.Notifier
	}
	return discardNotifier{}
}

type discardNotifier struct{}

func (discardNotifier) Publish(string, map[string]interface{}) {}

// audit writes an audit row; it joins the caller's transaction when ctx carries one
func (d Deps) audit(ctx context.Context, actor *model.User, action, entityID, entityName string, details interface{}) error {
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Username:   "System",
	}
	if actor != nil {
		entry.UserID = actor.ID
		entry.Username = actor.Username
		if entry.Username == "" {
			entry.Username = actor.Login
		}
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		entry.Details = string(raw)
	}
	if err := d.Repos.Audit.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// saveWithAudit writes a collection and its audit row in one transaction
func (d Deps) saveWithAudit(ctx context.Context, save func(ctx context.Context) error, actor *model.User, action, entityID, entityName string, details interface{}) error {
	return d.Repos.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := save(txCtx); err != nil {
			return err
		}
		return d.audit(txCtx, actor, action, entityID, entityName, details)
	})
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func today(t time.Time) string {
	return t.Format(dateLayout)
}
