// Package service provides business logic services for sprout.
package service

import (
	"database/sql"
	"log/slog"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/logger"
	"github.com/diogenes-ai-code/sprout/internal/markup"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

// maxDescriptionLength bounds idea descriptions and comments.
const maxDescriptionLength = 10000

// IdeaService provides business logic for submitting, editing, supporting
// and discussing ideas.
type IdeaService struct {
	ideaRepo     *db.IdeaRepo
	commentRepo  *db.CommentRepo
	activityRepo *db.ActivityRepo
	log          *slog.Logger
}

// NewIdeaService creates a new IdeaService.
func NewIdeaService(database *sql.DB, log *slog.Logger) *IdeaService {
	if log == nil {
		log = logger.NewNope()
	}
	return &IdeaService{
		ideaRepo:     db.NewIdeaRepo(database),
		commentRepo:  db.NewCommentRepo(database),
		activityRepo: db.NewActivityRepo(database),
		log:          log,
	}
}

// Create submits a new idea.
func (s *IdeaService) Create(title, description string, author *models.User) (*models.Idea, error) {
	if author == nil {
		return nil, errors.Forbidden("you must be signed in to submit an idea").
			WithSuggestion("Set default_user in the config or pass --as <email>.")
	}
	title = markup.Plain(title)
	if err := models.ValidateTitle(title); err != nil {
		return nil, errors.InvalidField("title", "%s", err.Error())
	}
	if len(description) > maxDescriptionLength {
		return nil, errors.InvalidField("description", "description must be %d characters or less", maxDescriptionLength)
	}

	// authors support their own ideas
	idea, err := s.ideaRepo.AddSupported(title, strings.TrimSpace(description), author)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to create idea")
	}
	s.logActivity(idea.ID, models.ActionCreated, author, "Idea submitted", nil)
	s.log.Info("idea created", slog.Int("number", idea.Number), slog.Int64("user_id", author.ID))
	return s.Get(idea.Number, author)
}

// Edit changes an idea's title and description. Only the author or staff may edit.
func (s *IdeaService) Edit(number int, title, description string, editor *models.User) (*models.Idea, error) {
	idea, err := s.Get(number, editor)
	if err != nil {
		return nil, err
	}
	if editor == nil || (editor.ID != idea.UserID && !editor.IsStaff()) {
		return nil, errors.Forbidden("only the author or staff can edit idea #%d", number)
	}
	title = markup.Plain(title)
	if err := models.ValidateTitle(title); err != nil {
		return nil, errors.InvalidField("title", "%s", err.Error())
	}
	if len(description) > maxDescriptionLength {
		return nil, errors.InvalidField("description", "description must be %d characters or less", maxDescriptionLength)
	}

	updated, err := s.ideaRepo.Update(idea.ID, title, description)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to update idea")
	}
	s.logActivity(idea.ID, models.ActionEdited, editor, "Idea edited", nil)
	return s.Get(updated.Number, editor)
}

// Get retrieves an idea by number as seen by viewer.
func (s *IdeaService) Get(number int, viewer *models.User) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetByNumber(number, viewer)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to get idea")
	}
	if idea == nil {
		return nil, errors.NotFound("idea #%d not found", number).
			WithSuggestion("Run 'sprout idea list' to see available ideas.")
	}
	return idea, nil
}

// GetBySlug retrieves an idea by slug as seen by viewer.
func (s *IdeaService) GetBySlug(slug string, viewer *models.User) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetBySlug(slug, viewer)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to get idea")
	}
	if idea == nil {
		return nil, errors.NotFound("idea %q not found", slug)
	}
	return idea, nil
}

// List returns the ideas matching filter as seen by viewer.
func (s *IdeaService) List(filter db.IdeaFilter, viewer *models.User) ([]*models.Idea, error) {
	if filter.View != "" && !filter.View.IsValid() {
		return nil, errors.InvalidField("view", "invalid view: %s", filter.View)
	}
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, errors.InvalidField("status", "invalid status: %s", status)
		}
	}
	ideas, err := s.ideaRepo.List(filter, viewer)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list ideas")
	}
	if ideas == nil {
		ideas = []*models.Idea{}
	}
	return ideas, nil
}

// Support adds user's support to an idea. Closed ideas are left unchanged.
func (s *IdeaService) Support(number int, user *models.User) (*models.Idea, error) {
	return s.toggleSupport(number, user, true)
}

// Unsupport removes user's support from an idea. Closed ideas are left unchanged.
func (s *IdeaService) Unsupport(number int, user *models.User) (*models.Idea, error) {
	return s.toggleSupport(number, user, false)
}

func (s *IdeaService) toggleSupport(number int, user *models.User, add bool) (*models.Idea, error) {
	if user == nil {
		return nil, errors.Forbidden("you must be signed in to support ideas")
	}
	idea, err := s.Get(number, user)
	if err != nil {
		return nil, err
	}
	if !idea.CanBeSupported() {
		return idea, nil
	}

	action := models.ActionSupported
	if add {
		if idea.ViewerSupport {
			return idea, nil
		}
		err = s.ideaRepo.AddSupporter(idea.ID, user)
	} else {
		if !idea.ViewerSupport {
			return idea, nil
		}
		action = models.ActionUnsupported
		err = s.ideaRepo.RemoveSupporter(idea.ID, user)
	}
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to update support")
	}
	s.logActivity(idea.ID, action, user, "", nil)
	return s.Get(number, user)
}

// AddComment posts a comment on an idea and returns it.
func (s *IdeaService) AddComment(number int, content string, user *models.User) (*models.Comment, error) {
	if user == nil {
		return nil, errors.Forbidden("you must be signed in to comment")
	}
	idea, err := s.Get(number, user)
	if err != nil {
		return nil, err
	}
	content, err = cleanComment(content)
	if err != nil {
		return nil, err
	}

	id, err := s.commentRepo.Add(idea.ID, content, user)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to add comment")
	}
	s.logActivity(idea.ID, models.ActionCommented, user, "", map[string]interface{}{"comment_id": id})
	return s.commentRepo.GetByID(id)
}

// EditComment replaces a comment's content. Only its author or staff may edit it.
func (s *IdeaService) EditComment(commentID int64, content string, editor *models.User) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to get comment")
	}
	if comment == nil {
		return nil, errors.NotFound("comment %d not found", commentID)
	}
	if editor == nil || (editor.ID != comment.UserID && !editor.IsStaff()) {
		return nil, errors.Forbidden("only the author or staff can edit comment %d", commentID)
	}
	content, err = cleanComment(content)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Update(commentID, content, editor); err != nil {
		return nil, errors.WrapInternal(err, "failed to update comment")
	}
	s.logActivity(comment.IdeaID, models.ActionEdited, editor, "Comment edited", map[string]interface{}{"comment_id": commentID})
	return s.commentRepo.GetByID(commentID)
}

func cleanComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.InvalidField("content", "comment cannot be empty")
	}
	if len(content) > maxDescriptionLength {
		return "", errors.InvalidField("content", "comment must be %d characters or less", maxDescriptionLength)
	}
	return content, nil
}

// Comments lists the comments of an idea, oldest first.
func (s *IdeaService) Comments(number int, viewer *models.User) ([]*models.Comment, error) {
	idea, err := s.Get(number, viewer)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByIdea(idea.ID)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list comments")
	}
	return comments, nil
}

// History lists the activity of an idea, newest first.
func (s *IdeaService) History(number int, viewer *models.User, limit int) ([]*models.Activity, error) {
	idea, err := s.Get(number, viewer)
	if err != nil {
		return nil, err
	}
	entries, err := s.activityRepo.ListByIdea(idea.ID, limit)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list activity")
	}
	if entries == nil {
		entries = []*models.Activity{}
	}
	return entries, nil
}

// logActivity records an entry; failures are logged, not returned, so the
// primary operation still succeeds.
func (s *IdeaService) logActivity(ideaID int64, action models.Action, user *models.User, summary string, details map[string]interface{}) {
	logActivity(s.activityRepo, s.log, ideaID, action, user, summary, details)
}

func logActivity(repo *db.ActivityRepo, log *slog.Logger, ideaID int64, action models.Action, user *models.User, summary string, details map[string]interface{}) {
	var userID *int64
	if user != nil {
		userID = &user.ID
	}
	if err := repo.Log(ideaID, action, userID, summary, details); err != nil {
		log.Warn("failed to record activity",
			slog.Int64("idea_id", ideaID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
	}
}
