package service

import (
	"database/sql"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/logger"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

// UserService registers users and manages their roles.
type UserService struct {
	userRepo *db.UserRepo
	log      *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(database *sql.DB, log *slog.Logger) *UserService {
	if log == nil {
		log = logger.NewNope()
	}
	return &UserService{userRepo: db.NewUserRepo(database), log: log}
}

// Register creates a user. The first user of a board becomes its
// administrator; after that only administrators may grant staff roles.
func (s *UserService) Register(name, email string, role models.Role, actor *models.User) (*models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list users")
	}

	if len(users) == 0 {
		role = models.RoleAdministrator
	} else if role == "" {
		role = models.RoleVisitor
	}
	if !role.IsValid() {
		return nil, errors.InvalidField("role", "invalid role: %s", role)
	}
	if len(users) > 0 && role != models.RoleVisitor && (actor == nil || actor.Role != models.RoleAdministrator) {
		return nil, errors.Forbidden("only administrators can register %s users", role)
	}

	u := &models.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Role: role}
	if err := u.Validate(); err != nil {
		field := "email"
		if strings.HasPrefix(err.Error(), "name") {
			field = "name"
		}
		return nil, errors.InvalidField(field, "%s", err.Error())
	}
	if err := s.userRepo.Create(u); err != nil {
		if stderrors.Is(err, db.ErrDuplicateEmail) {
			return nil, errors.Conflict("email %s is already registered", u.Email)
		}
		return nil, errors.WrapInternal(err, "failed to create user")
	}
	s.log.Info("user registered", slog.Int64("user_id", u.ID), slog.String("role", string(u.Role)))
	return u, nil
}

// Resolve looks up the user with the given email.
func (s *UserService) Resolve(email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to get user")
	}
	if u == nil {
		return nil, errors.NotFound("user %s not found", email).
			WithSuggestion("Run 'sprout user add' to register the user.")
	}
	return u, nil
}

// List returns all users.
func (s *UserService) List() ([]*models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list users")
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// SetRole changes the role of the user with email. Administrators cannot
// change their own role, so a board always keeps one.
func (s *UserService) SetRole(email string, role models.Role, actor *models.User) (*models.User, error) {
	if actor == nil || actor.Role != models.RoleAdministrator {
		return nil, errors.Forbidden("only administrators can change roles")
	}
	if !role.IsValid() {
		return nil, errors.InvalidField("role", "invalid role: %s", role)
	}
	u, err := s.Resolve(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.InvalidField("email", "email is required")
	}
	if u.ID == actor.ID {
		return nil, errors.StateError("administrators cannot change their own role")
	}
	if err := s.userRepo.SetRole(u.ID, role); err != nil {
		return nil, errors.WrapInternal(err, "failed to change role")
	}
	u.Role = role
	return u, nil
}
