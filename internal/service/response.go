package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/logger"
	"github.com/diogenes-ai-code/sprout/internal/markup"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/diogenes-ai-code/sprout/internal/state"
)

// maxResponseLength bounds the text of a staff response.
const maxResponseLength = 5000

// RespondInput is a staff response to an idea.
type RespondInput struct {
	Status models.IdeaStatus `json:"status"`
	Text   string            `json:"text"`
	// OriginalNumber is the idea this one duplicates. Only read when Status is duplicate.
	OriginalNumber int `json:"originalNumber"`
}

// ResponseService applies staff responses: status changes, response text and
// duplicate merges.
type ResponseService struct {
	ideaRepo     *db.IdeaRepo
	activityRepo *db.ActivityRepo
	logic        *state.Logic
	log          *slog.Logger
}

// NewResponseService creates a new ResponseService.
func NewResponseService(database *sql.DB, log *slog.Logger) *ResponseService {
	if log == nil {
		log = logger.NewNope()
	}
	ideaRepo := db.NewIdeaRepo(database)
	return &ResponseService{
		ideaRepo:     ideaRepo,
		activityRepo: db.NewActivityRepo(database),
		logic:        state.NewLogic(ideaRepo),
		log:          log,
	}
}

// Respond records responder's answer to idea #number and returns the updated idea.
//
// A duplicate response ignores Text, links the idea to OriginalNumber and
// merges its supporters into the original. Any other status stores Text.
func (s *ResponseService) Respond(number int, input RespondInput, responder *models.User) (*models.Idea, error) {
	if !responder.IsStaff() {
		return nil, errors.Forbidden("only collaborators and administrators can respond to ideas")
	}

	idea, err := s.ideaRepo.GetByNumber(number, responder)
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to get idea")
	}
	if idea == nil {
		return nil, errors.NotFound("idea #%d not found", number)
	}

	if !input.Status.IsValid() {
		return nil, errors.InvalidField("status", "status is invalid")
	}

	var original *models.Idea
	text := ""
	if input.Status == models.IdeaDuplicate {
		if input.OriginalNumber == number {
			return nil, errors.InvalidField("originalNumber", "cannot be a duplicate of itself")
		}
		original, err = s.ideaRepo.GetByNumber(input.OriginalNumber, responder)
		if err != nil {
			return nil, errors.WrapInternal(err, "failed to get original idea")
		}
		if original == nil {
			return nil, errors.InvalidField("originalNumber", "original idea not found")
		}
		if err := s.logic.CheckDuplicateTarget(idea, original); err != nil {
			return nil, errors.InvalidField("originalNumber", "%s", err.Error())
		}
	} else {
		text = markup.Plain(input.Text)
		if len(text) > maxResponseLength {
			return nil, errors.InvalidField("text", "response must be %d characters or less", maxResponseLength)
		}
	}

	if err := s.logic.CheckTransition(idea, input.Status); err != nil {
		return nil, errors.StateError("cannot respond to idea #%d: %v", number, err).
			WithDetails("current_status", idea.Status)
	}

	from := idea.Status
	if original != nil {
		err = s.ideaRepo.MarkAsDuplicate(idea.ID, original.ID, responder)
	} else {
		err = s.ideaRepo.SetResponse(idea.ID, text, input.Status, responder)
	}
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to respond to idea #%d", number)
	}

	details := map[string]interface{}{"from": string(from), "to": string(input.Status)}
	summary := fmt.Sprintf("%s → %s", from, input.Status)
	if original != nil {
		details["original"] = original.Number
		summary = fmt.Sprintf("duplicate of #%d", original.Number)
		logActivity(s.activityRepo, s.log, original.ID, models.ActionSupported, responder,
			fmt.Sprintf("supporters merged from #%d", number), map[string]interface{}{"duplicate": number})
	}
	logActivity(s.activityRepo, s.log, idea.ID, state.ActionForTransition(from, input.Status), responder, summary, details)

	s.log.Info("idea responded",
		slog.Int("number", number),
		slog.String("from", string(from)),
		slog.String("to", string(input.Status)),
		slog.Int64("responder_id", responder.ID))

	if input.Status == models.IdeaDeleted {
		idea.Status = models.IdeaDeleted
		return idea, nil
	}
	return s.ideaRepo.GetByNumber(number, responder)
}

// ParseRespondInput builds a RespondInput from raw strings, reporting the
// offending field on failure.
func ParseRespondInput(status, text string, originalNumber int) (RespondInput, error) {
	parsed, err := models.ParseIdeaStatus(status)
	if err != nil {
		return RespondInput{}, errors.InvalidField("status", "%s", err.Error())
	}
	if parsed == models.IdeaDuplicate && originalNumber <= 0 {
		return RespondInput{}, errors.InvalidField("originalNumber", "original idea number is required for duplicates")
	}
	return RespondInput{Status: parsed, Text: strings.TrimSpace(text), OriginalNumber: originalNumber}, nil
}
