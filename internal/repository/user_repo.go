package repository

import (
	"context"
	"strings"

	"console/internal/model"
)

// UserRepository defines data access for the user registry collection
type UserRepository interface {
	List(ctx context.Context) []model.User
	// Load is List for read-modify-write paths; read failures are returned
	Load(ctx context.Context) ([]model.User, error)
	Save(ctx context.Context, users []model.User) error
	GetByID(ctx context.Context, id string) (*model.User, bool)
	GetByLogin(ctx context.Context, login string) (*model.User, bool)
}

type userRepository struct {
	users *Collection[model.User]
}

// NewUserRepository serves a bootstrap admin while no registry has been stored
func NewUserRepository(blobs *Blobs, bootstrapPassword string) UserRepository {
	users := NewCollection[model.User](blobs, model.KeyUserRegistry).
		WithFallback(func() []model.User {
			return []model.User{BootstrapAdmin(bootstrapPassword)}
		})
	return &userRepository{users: users}
}

// BootstrapAdmin is the account served when the registry is missing
func BootstrapAdmin(password string) model.User {
	return model.User{
		ID:       "admin",
		Login:    model.AdminLogin,
		Username: "Администратор",
		Password: password,
		Roles:    model.RoleSet{model.RoleAdmin},
		IsActive: true,
	}
}

func (r *userRepository) List(ctx context.Context) []model.User {
	return r.users.Get(ctx)
}

func (r *userRepository) Load(ctx context.Context) ([]model.User, error) {
	return r.users.Load(ctx)
}

func (r *userRepository) Save(ctx context.Context, users []model.User) error {
	return r.users.Save(ctx, users)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, bool) {
	for _, u := range r.users.Get(ctx) {
		if u.ID == id {
			user := u
			return &user, true
		}
	}
	return nil, false
}

// GetByLogin matches case-insensitively on the trimmed login
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, bool) {
	login = strings.TrimSpace(login)
	for _, u := range r.users.Get(ctx) {
		if strings.EqualFold(strings.TrimSpace(u.Login), login) {
			user := u
			return &user, true
		}
	}
	return nil, false
}
