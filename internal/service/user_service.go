package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"console/internal/access"
	"console/internal/model"
	"console/internal/session"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FullName   string `json:"fio" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Department string `json:"department" binding:"required"`
	Birthday   string `json:"birthday" binding:"required"`
}

// UpdateUserRequest changes only the fields that are set
type UpdateUserRequest struct {
	Username   *string           `json:"username"`
	Department *string           `json:"department"`
	Birthday   *string           `json:"birthday"`
	IsActive   *bool             `json:"isActive"`
	Roles      *[]model.UserRole `json:"roles"`
	Password   *string           `json:"password"`
}

type SessionResponse struct {
	Token        string              `json:"token"`
	ExpiresAt    time.Time           `json:"expiresAt"`
	User         model.User          `json:"user"`
	Navigation   []access.Section    `json:"navigation"`
	Capabilities access.Capabilities `json:"capabilities"`
}

// UserService covers the session boundary and admin user management
type UserService interface {
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	Me(ctx context.Context, sessionUser *model.User) (*SessionResponse, error)
	ListUsers(ctx context.Context, actor *model.User) ([]model.User, error)
	UpdateUser(ctx context.Context, actor *model.User, id string, req UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, id string) error
}

type userService struct {
	Deps
	sessions *session.Manager
}

func NewUserService(deps Deps, sessions *session.Manager) UserService {
	deps.Log = deps.Log.With().Str("component", "user_service").Logger()
	return &userService{Deps: deps, sessions: sessions}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// checkPassword reports whether plain matches stored and whether stored is a legacy plaintext value
func checkPassword(stored, plain string) (ok bool, legacy bool) {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1, true
}

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, found := s.Repos.Users.GetByLogin(ctx, req.Login)
	if !found {
		return nil, ErrInvalidCredentials
	}

	ok, legacy := checkPassword(user.Password, req.Password)
	if !ok || user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	// the built-in admin is always active to prevent a permanent lockout
	if !user.CanLogin() {
		return nil, ErrAccountInactive
	}

	if legacy {
		s.upgradePassword(ctx, user.ID, req.Password)
	}

	return s.newSession(user.Sanitized())
}

// upgradePassword re-hashes a plaintext password; failure only costs the upgrade
func (s *userService) upgradePassword(ctx context.Context, id, plain string) {
	hashed, err := hashPassword(plain)
	if err != nil {
		s.Log.Warn().Err(err).Msg("password upgrade skipped")
		return
	}
	users, err := s.Repos.Users.Load(ctx)
	if err != nil {
		s.Log.Warn().Err(err).Str("user_id", id).Msg("password upgrade skipped")
		return
	}
	for i := range users {
		if users[i].ID == id {
			users[i].Password = hashed
		}
	}
	if err := s.Repos.Users.Save(ctx, users); err != nil {
		s.Log.Warn().Err(err).Str("user_id", id).Msg("failed to store upgraded password hash")
	}
}

func (s *userService) newSession(user model.User) (*SessionResponse, error) {
	token, expires, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{
		Token:        token,
		ExpiresAt:    expires,
		User:         user,
		Navigation:   access.Navigation(&user),
		Capabilities: access.CapabilitiesFor(&user),
	}, nil
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	fio := strings.TrimSpace(req.FullName)
	if fio == "" || req.Password == "" || strings.TrimSpace(req.Department) == "" || strings.TrimSpace(req.Birthday) == "" {
		return nil, invalidf("Пожалуйста, заполните все поля")
	}
	if _, err := time.Parse(dateLayout, req.Birthday); err != nil {
		return nil, invalidf("birthday must be YYYY-MM-DD")
	}

	if _, taken := s.Repos.Users.GetByLogin(ctx, fio); taken {
		return nil, ErrLoginTaken
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:         uuid.NewString(),
		Login:      fio,
		Username:   fio,
		Password:   hashed,
		Department: strings.TrimSpace(req.Department),
		Birthday:   req.Birthday,
		Roles:      model.RoleSet{},
		IsActive:   false,
		CreatedAt:  timestamp(s.now()),
	}

	stored, err := s.Repos.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	users := append(stored, user)
	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Users.Save(txCtx, users)
	}, nil, model.ActionRegisterUser, user.ID, user.Login, map[string]string{
		"department": user.Department,
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("user_id", user.ID).Msg("registration awaiting activation")
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Me refreshes the session view from the registry so role changes apply without a new login
func (s *userService) Me(ctx context.Context, sessionUser *model.User) (*SessionResponse, error) {
	if sessionUser == nil {
		return nil, ErrForbidden
	}
	stored, found := s.Repos.Users.GetByID(ctx, sessionUser.ID)
	if !found {
		// the bootstrap admin may not be stored yet
		user := *sessionUser
		return &SessionResponse{
			User:         user,
			Navigation:   access.Navigation(&user),
			Capabilities: access.CapabilitiesFor(&user),
		}, nil
	}
	if !stored.CanLogin() {
		return nil, ErrAccountInactive
	}
	user := stored.Sanitized()
	return &SessionResponse{
		User:         user,
		Navigation:   access.Navigation(&user),
		Capabilities: access.CapabilitiesFor(&user),
	}, nil
}

func (s *userService) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if !access.IsAdmin(actor) {
		return nil, ErrForbidden
	}
	users := s.Repos.Users.List(ctx)
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *model.User, id string, req UpdateUserRequest) (*model.User, error) {
	if !access.IsAdmin(actor) {
		return nil, ErrForbidden
	}

	users, err := s.Repos.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, notFoundf("user %s", id)
	}
	user := users[idx]

	if req.IsActive != nil {
		if !*req.IsActive && user.IsBuiltinAdmin() {
			return nil, invalidf("the admin account cannot be deactivated")
		}
		user.IsActive = *req.IsActive
	}
	if req.Roles != nil {
		roles := make(model.RoleSet, 0, len(*req.Roles))
		for _, r := range *req.Roles {
			if !model.ValidRole(r) {
				return nil, invalidf("unknown role %q", r)
			}
			roles = append(roles, r)
		}
		user.Roles = roles
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	if req.Birthday != nil {
		user.Birthday = *req.Birthday
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	users[idx] = user

	err = s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Users.Save(txCtx, users)
	}, actor, model.ActionUpdateUser, user.ID, user.Login, map[string]interface{}{
		"isActive": user.IsActive,
		"roles":    user.Roles,
	})
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *model.User, id string) error {
	if !access.IsAdmin(actor) {
		return ErrForbidden
	}

	users, err := s.Repos.Users.Load(ctx)
	if err != nil {
		return err
	}
	var target *model.User
	kept := make([]model.User, 0, len(users))
	for i := range users {
		if users[i].ID == id {
			target = &users[i]
			continue
		}
		kept = append(kept, users[i])
	}
	if target == nil {
		return notFoundf("user %s", id)
	}
	if target.IsBuiltinAdmin() {
		return invalidf("the admin account cannot be deleted")
	}

	return s.saveWithAudit(ctx, func(txCtx context.Context) error {
		return s.Repos.Users.Save(txCtx, kept)
	}, actor, model.ActionDeleteUser, target.ID, target.Login, nil)
}
