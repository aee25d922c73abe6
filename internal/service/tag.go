package service

import (
	"database/sql"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/logger"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

// TagService manages tags and their assignment to ideas. Every mutation is
// restricted to staff.
type TagService struct {
	tagRepo      *db.TagRepo
	ideaRepo     *db.IdeaRepo
	activityRepo *db.ActivityRepo
	log          *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(database *sql.DB, log *slog.Logger) *TagService {
	if log == nil {
		log = logger.NewNope()
	}
	return &TagService{
		tagRepo:      db.NewTagRepo(database),
		ideaRepo:     db.NewIdeaRepo(database),
		activityRepo: db.NewActivityRepo(database),
		log:          log,
	}
}

// TagInput describes a tag to create or update.
type TagInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsPublic bool   `json:"isPublic"`
}

// List returns the tags visible to viewer.
func (s *TagService) List(viewer *models.User) ([]*models.Tag, error) {
	tags, err := s.tagRepo.List(viewer)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list tags")
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	return tags, nil
}

// Add creates a tag.
func (s *TagService) Add(input TagInput, user *models.User) (*models.Tag, error) {
	if !user.IsStaff() {
		return nil, errors.Forbidden("only collaborators and administrators can manage tags")
	}
	if err := validateTagInput(input); err != nil {
		return nil, err
	}
	tag, err := s.tagRepo.Add(strings.TrimSpace(input.Name), input.Color, input.IsPublic)
	if err != nil {
		return nil, tagError(err, input.Name)
	}
	return tag, nil
}

// Edit updates the tag identified by slug.
func (s *TagService) Edit(slug string, input TagInput, user *models.User) (*models.Tag, error) {
	if !user.IsStaff() {
		return nil, errors.Forbidden("only collaborators and administrators can manage tags")
	}
	tag, err := s.get(slug)
	if err != nil {
		return nil, err
	}
	if err := validateTagInput(input); err != nil {
		return nil, err
	}
	updated, err := s.tagRepo.Update(tag.ID, strings.TrimSpace(input.Name), input.Color, input.IsPublic)
	if err != nil {
		return nil, tagError(err, input.Name)
	}
	return updated, nil
}

// Delete removes the tag identified by slug and unassigns it everywhere.
func (s *TagService) Delete(slug string, user *models.User) error {
	if !user.IsStaff() {
		return errors.Forbidden("only collaborators and administrators can manage tags")
	}
	tag, err := s.get(slug)
	if err != nil {
		return err
	}
	if err := s.tagRepo.Delete(tag.ID); err != nil {
		return errors.WrapInternal(err, "failed to delete tag")
	}
	return nil
}

// Assign attaches the tag identified by slug to idea #number.
func (s *TagService) Assign(slug string, number int, user *models.User) error {
	return s.assignment(slug, number, user, true)
}

// Unassign detaches the tag identified by slug from idea #number.
func (s *TagService) Unassign(slug string, number int, user *models.User) error {
	return s.assignment(slug, number, user, false)
}

func (s *TagService) assignment(slug string, number int, user *models.User, assign bool) error {
	if !user.IsStaff() {
		return errors.Forbidden("only collaborators and administrators can tag ideas")
	}
	tag, err := s.get(slug)
	if err != nil {
		return err
	}
	idea, err := s.ideaRepo.GetByNumber(number, user)
	if err != nil {
		return errors.WrapInternal(err, "failed to get idea")
	}
	if idea == nil {
		return errors.NotFound("idea #%d not found", number)
	}

	action := models.ActionTagged
	if assign {
		err = s.tagRepo.AssignTag(tag.ID, idea.ID, user)
	} else {
		action = models.ActionUntagged
		err = s.tagRepo.UnassignTag(tag.ID, idea.ID)
	}
	if err != nil {
		return errors.WrapInternal(err, "failed to update tags of idea #%d", number)
	}
	logActivity(s.activityRepo, s.log, idea.ID, action, user, tag.Name, map[string]interface{}{"tag": tag.Slug})
	return nil
}

func (s *TagService) get(slug string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetBySlug(common.Slugify(slug))
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to get tag")
	}
	if tag == nil {
		return nil, errors.NotFound("tag %q not found", slug).
			WithSuggestion("Run 'sprout tag list' to see available tags.")
	}
	return tag, nil
}

func validateTagInput(input TagInput) error {
	t := &models.Tag{Name: strings.TrimSpace(input.Name), Slug: common.Slugify(input.Name), Color: input.Color}
	if t.Name == "" {
		return errors.InvalidField("name", "name is required")
	}
	if t.Slug == "" {
		return errors.InvalidField("name", "name must contain letters or digits")
	}
	if len(t.Name) > 30 {
		return errors.InvalidField("name", "name must be 30 characters or less")
	}
	if err := t.Validate(); err != nil {
		return errors.InvalidField("color", "%s", err.Error())
	}
	return nil
}

func tagError(err error, name string) error {
	if stderrors.Is(err, db.ErrDuplicateTag) {
		return errors.Conflict("tag %q already exists", name)
	}
	return errors.WrapInternal(err, "failed to save tag")
}
