package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// ActivityRepo provides database operations for idea activity entries.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// ActivityFilter defines filters for listing activity entries.
type ActivityFilter struct {
	IdeaID *int64
	Action *models.Action
	UserID *int64
	Since  *time.Time
	Limit  int
	Offset int
}

const activityColumns = `
	a.id, a.idea_id, a.action, a.user_id, a.details, a.summary, a.created_at,
	i.number, u.name
	FROM activity_log a
	JOIN ideas i ON a.idea_id = i.id
	LEFT JOIN users u ON a.user_id = u.id
`

// Create creates a new activity entry.
func (r *ActivityRepo) Create(a *models.Activity) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}

	query := `
		INSERT INTO activity_log (idea_id, action, user_id, details, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := r.db.Exec(query,
		a.IdeaID, a.Action, nullInt64(a.UserID),
		nullString(a.Details), nullString(a.Summary), FormatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity id: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	return nil
}

// List retrieves activity entries matching the given filter, newest first.
func (r *ActivityRepo) List(filter ActivityFilter) ([]*models.Activity, error) {
	query := "SELECT " + activityColumns + " WHERE 1=1"
	args := []interface{}{}

	if filter.IdeaID != nil {
		query += " AND a.idea_id = ?"
		args = append(args, *filter.IdeaID)
	}
	if filter.Action != nil {
		query += " AND a.action = ?"
		args = append(args, *filter.Action)
	}
	if filter.UserID != nil {
		query += " AND a.user_id = ?"
		args = append(args, *filter.UserID)
	}
	if filter.Since != nil {
		query += " AND a.created_at >= ?"
		args = append(args, FormatTime(*filter.Since))
	}

	query += " ORDER BY a.created_at DESC, a.id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*models.Activity
	for rows.Next() {
		var a models.Activity
		var userID sql.NullInt64
		var details, summary, userName sql.NullString

		err := rows.Scan(
			&a.ID, &a.IdeaID, &a.Action, &userID, &details, &summary, &a.CreatedAt,
			&a.IdeaNumber, &userName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if userID.Valid {
			a.UserID = &userID.Int64
		}
		a.Details = details.String
		a.Summary = summary.String
		a.UserName = userName.String
		entries = append(entries, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}
	return entries, nil
}

// ListByIdea retrieves the activity entries of one idea.
func (r *ActivityRepo) ListByIdea(ideaID int64, limit int) ([]*models.Activity, error) {
	return r.List(ActivityFilter{IdeaID: &ideaID, Limit: limit})
}

// Log records an action on an idea. userID may be nil for system actions.
func (r *ActivityRepo) Log(ideaID int64, action models.Action, userID *int64, summary string, details map[string]interface{}) error {
	a := &models.Activity{
		IdeaID:  ideaID,
		Action:  action,
		UserID:  userID,
		Summary: summary,
	}
	if err := a.SetDetails(details); err != nil {
		return err
	}
	return r.Create(a)
}
