package service

import (
	"database/sql"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

// StatusService provides the aggregated board overview.
type StatusService struct {
	ideaRepo     *db.IdeaRepo
	activityRepo *db.ActivityRepo
	now          func() time.Time
}

// NewStatusService creates a new StatusService.
func NewStatusService(database *sql.DB) *StatusService {
	return &StatusService{
		ideaRepo:     db.NewIdeaRepo(database),
		activityRepo: db.NewActivityRepo(database),
		now:          time.Now,
	}
}

// ActivityItem represents a recent activity entry.
type ActivityItem struct {
	IdeaNumber int    `json:"idea_number"`
	Action     string `json:"action"`
	UserName   string `json:"user_name,omitempty"`
	Age        string `json:"age"`
	Summary    string `json:"summary,omitempty"`
}

// StatusSummary contains idea counts per status and the latest activity.
type StatusSummary struct {
	Open           int            `json:"open"`
	Planned        int            `json:"planned"`
	Started        int            `json:"started"`
	Completed      int            `json:"completed"`
	Declined       int            `json:"declined"`
	Duplicate      int            `json:"duplicate"`
	Total          int            `json:"total"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// GetSummary returns the board overview with up to activityLimit recent entries.
func (s *StatusService) GetSummary(activityLimit int) (*StatusSummary, error) {
	counts, err := s.ideaRepo.CountByStatus()
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to count ideas")
	}

	summary := &StatusSummary{
		Open:           counts[models.IdeaOpen],
		Planned:        counts[models.IdeaPlanned],
		Started:        counts[models.IdeaStarted],
		Completed:      counts[models.IdeaCompleted],
		Declined:       counts[models.IdeaDeclined],
		Duplicate:      counts[models.IdeaDuplicate],
		RecentActivity: []ActivityItem{},
	}
	summary.Total = summary.Open + summary.Planned + summary.Started +
		summary.Completed + summary.Declined + summary.Duplicate

	if activityLimit <= 0 {
		return summary, nil
	}
	entries, err := s.activityRepo.List(db.ActivityFilter{Limit: activityLimit})
	if err != nil {
		return nil, errors.WrapInternal(err, "failed to list activity")
	}
	now := s.now()
	for _, a := range entries {
		summary.RecentActivity = append(summary.RecentActivity, ActivityItem{
			IdeaNumber: a.IdeaNumber,
			Action:     string(a.Action),
			UserName:   a.UserName,
			Age:        common.TimeSince(now, a.CreatedAt),
			Summary:    a.Summary,
		})
	}
	return summary, nil
}
