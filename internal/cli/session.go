package cli

import (
	"log/slog"
	"os"

	"github.com/diogenes-ai-code/sprout/internal/db"
	serrors "github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/diogenes-ai-code/sprout/internal/service"
)

// session bundles an open board and the user commands act as.
type session struct {
	db   *db.DB
	user *models.User
}

// openSession opens the board. When requireUser is set, a missing acting
// user is an error; otherwise the session is anonymous.
func openSession(requireUser bool) (*session, error) {
	path := GetDBPath()
	if !db.Exists(path) {
		return nil, serrors.NotFound("no board found at %s", displayDBPath(path)).
			WithSuggestion(SuggestRunInit)
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, ErrDatabase(err, "failed to open database")
	}

	s := &session{db: database}
	email := GetActingEmail()
	if email == "" {
		if requireUser {
			database.Close()
			return nil, serrors.Forbidden("no acting user").WithSuggestion(SuggestSetUser)
		}
		return s, nil
	}

	user, err := service.NewUserService(database.DB, log).Resolve(email)
	if err != nil {
		database.Close()
		return nil, err
	}
	s.user = user
	log.Debug("acting user", slog.String("email", user.Email), slog.String("role", string(user.Role)))
	return s, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) ideas() *service.IdeaService {
	return service.NewIdeaService(s.db.DB, log)
}

func (s *session) responses() *service.ResponseService {
	return service.NewResponseService(s.db.DB, log)
}

func (s *session) tags() *service.TagService {
	return service.NewTagService(s.db.DB, log)
}

func (s *session) users() *service.UserService {
	return service.NewUserService(s.db.DB, log)
}

// displayDBPath returns the path shown to users for an empty (default) path.
func displayDBPath(path string) string {
	if path == "" {
		return db.DefaultDBPath
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
