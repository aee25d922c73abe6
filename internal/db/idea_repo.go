package db

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

// IdeaRepo provides database operations for ideas, their supporters and responses.
//
// Methods that take a viewer use it to compute ViewerSupport and to decide
// whether private tags are included. A nil viewer is an anonymous visitor.
type IdeaRepo struct {
	db *sql.DB
}

// NewIdeaRepo creates a new IdeaRepo.
func NewIdeaRepo(db *sql.DB) *IdeaRepo {
	return &IdeaRepo{db: db}
}

// IdeaFilter defines filters for listing ideas.
type IdeaFilter struct {
	// Query matches title or description, case-insensitively.
	Query string
	// Statuses restricts the result. Empty means open, planned and started.
	Statuses []models.IdeaStatus
	// Tags keeps ideas carrying every one of these tag slugs.
	Tags []string
	// ExcludeNumbers drops specific ideas from the result.
	ExcludeNumbers []int
	View           models.ListView
	Limit          int
}

// DefaultListStatuses are the statuses listed when a filter names none.
var DefaultListStatuses = []models.IdeaStatus{models.IdeaOpen, models.IdeaPlanned, models.IdeaStarted}

// trendingWindow bounds the recent activity that feeds the trending score.
const trendingWindow = 30 * 24 * time.Hour

const ideaSelect = `
	SELECT i.id, i.number, i.title, i.slug, i.description, i.status, i.user_id,
		i.supporters, i.created_at,
		i.response, i.responded_at,
		u.id, u.name, u.email, u.role, u.created_at,
		ru.id, ru.name, ru.email, ru.role, ru.created_at,
		o.number, o.title, o.slug, o.status,
		(SELECT COUNT(*) FROM comments c WHERE c.idea_id = i.id) AS total_comments
	FROM ideas i
	JOIN users u ON u.id = i.user_id
	LEFT JOIN users ru ON ru.id = i.response_user_id
	LEFT JOIN ideas o ON o.id = i.original_id
`

// Add creates a new open idea authored by user.
func (r *IdeaRepo) Add(title, description string, user *models.User) (*models.Idea, error) {
	return r.add(title, description, user, false)
}

// AddSupported creates a new idea with its author as the first supporter.
// The idea and the support are written in one transaction.
func (r *IdeaRepo) AddSupported(title, description string, user *models.User) (*models.Idea, error) {
	return r.add(title, description, user, true)
}

func (r *IdeaRepo) add(title, description string, user *models.User, authorSupports bool) (*models.Idea, error) {
	if user == nil {
		return nil, fmt.Errorf("author is required")
	}
	idea := &models.Idea{
		Title:       strings.TrimSpace(title),
		Slug:        common.Slugify(title),
		Description: strings.TrimSpace(description),
		Status:      models.IdeaOpen,
		UserID:      user.ID,
		User:        user,
		Tags:        []string{},
	}
	if err := idea.Validate(); err != nil {
		return nil, fmt.Errorf("invalid idea: %w", err)
	}

	now := time.Now()
	err := WithTx(r.db, func(tx *sql.Tx) error {
		var maxNum sql.NullInt64
		if err := tx.QueryRow(`SELECT MAX(number) FROM ideas`).Scan(&maxNum); err != nil {
			return fmt.Errorf("failed to get next idea number: %w", err)
		}
		idea.Number = int(maxNum.Int64) + 1

		result, err := tx.Exec(`
			INSERT INTO ideas (number, title, slug, description, status, user_id, supporters, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		`, idea.Number, idea.Title, idea.Slug, nullString(idea.Description), idea.Status, idea.UserID, FormatTime(now))
		if err != nil {
			return fmt.Errorf("failed to create idea: %w", err)
		}
		idea.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get idea id: %w", err)
		}
		if !authorSupports {
			return nil
		}

		if _, err := tx.Exec(
			`INSERT INTO idea_supporters (idea_id, user_id, created_at) VALUES (?, ?, ?)`,
			idea.ID, user.ID, FormatTime(now),
		); err != nil {
			return fmt.Errorf("failed to add author as supporter: %w", err)
		}
		if _, err := tx.Exec(`UPDATE ideas SET supporters = 1 WHERE id = ?`, idea.ID); err != nil {
			return fmt.Errorf("failed to update supporters: %w", err)
		}
		idea.TotalSupporters = 1
		idea.ViewerSupport = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	idea.CreatedAt = now
	return idea, nil
}

// Update changes an idea's title and description. The slug follows the title.
func (r *IdeaRepo) Update(id int64, title, description string) (*models.Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}
	result, err := r.db.Exec(
		`UPDATE ideas SET title = ?, slug = ?, description = ? WHERE id = ? AND status != ?`,
		title, common.Slugify(title), nullString(strings.TrimSpace(description)), id, models.IdeaDeleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("idea not found")
	}
	return r.GetByID(id, nil)
}

// GetByID retrieves an idea by ID. Deleted ideas are not found.
func (r *IdeaRepo) GetByID(id int64, viewer *models.User) (*models.Idea, error) {
	return r.getOne("i.id = ?", id, viewer)
}

// GetByNumber retrieves an idea by its number. Deleted ideas are not found.
func (r *IdeaRepo) GetByNumber(number int, viewer *models.User) (*models.Idea, error) {
	return r.getOne("i.number = ?", number, viewer)
}

// GetBySlug retrieves the most recent idea with the given slug. Deleted ideas are not found.
func (r *IdeaRepo) GetBySlug(slug string, viewer *models.User) (*models.Idea, error) {
	return r.getOne("i.slug = ?", slug, viewer)
}

func (r *IdeaRepo) getOne(cond string, arg interface{}, viewer *models.User) (*models.Idea, error) {
	query := ideaSelect + " WHERE " + cond + " AND i.status != ? ORDER BY i.id DESC LIMIT 1"
	rows, err := r.db.Query(query, arg, models.IdeaDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	ideas, err := scanIdeas(rows)
	if err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return nil, nil
	}
	if err := r.decorate(ideas, viewer); err != nil {
		return nil, err
	}
	return ideas[0], nil
}

// List retrieves ideas matching the filter, ordered by the filter's view.
func (r *IdeaRepo) List(filter IdeaFilter, viewer *models.User) ([]*models.Idea, error) {
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = DefaultListStatuses
	}

	query := ideaSelect + " WHERE i.status IN (" + placeholders(len(statuses)) + ")"
	args := []interface{}{}
	for _, s := range statuses {
		args = append(args, s)
	}
	query += " AND i.status != ?"
	args = append(args, models.IdeaDeleted)

	if q := strings.TrimSpace(filter.Query); q != "" {
		query += " AND (i.title LIKE ? OR i.description LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	for _, slug := range filter.Tags {
		query += " AND EXISTS (SELECT 1 FROM idea_tags it JOIN tags t ON t.id = it.tag_id WHERE it.idea_id = i.id AND t.slug = ?)"
		args = append(args, slug)
	}
	if len(filter.ExcludeNumbers) > 0 {
		query += " AND i.number NOT IN (" + placeholders(len(filter.ExcludeNumbers)) + ")"
		for _, n := range filter.ExcludeNumbers {
			args = append(args, n)
		}
	}
	query += " ORDER BY i.id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	ideas, err := scanIdeas(rows)
	if err != nil {
		return nil, err
	}

	if err := r.sortByView(ideas, filter.View); err != nil {
		return nil, err
	}
	if filter.Limit > 0 && len(ideas) > filter.Limit {
		ideas = ideas[:filter.Limit]
	}
	if err := r.decorate(ideas, viewer); err != nil {
		return nil, err
	}
	return ideas, nil
}

// sortByView orders ideas in place. Ties keep the newest idea first.
func (r *IdeaRepo) sortByView(ideas []*models.Idea, view models.ListView) error {
	switch view {
	case models.ViewRecent:
		// already newest first
	case models.ViewMostWanted:
		sort.SliceStable(ideas, func(a, b int) bool {
			return ideas[a].TotalSupporters > ideas[b].TotalSupporters
		})
	case models.ViewMostDiscussed:
		sort.SliceStable(ideas, func(a, b int) bool {
			return ideas[a].TotalComments > ideas[b].TotalComments
		})
	default:
		scores, err := r.trendingScores(ideas, time.Now())
		if err != nil {
			return err
		}
		sort.SliceStable(ideas, func(a, b int) bool {
			return scores[ideas[a].ID] > scores[ideas[b].ID]
		})
	}
	return nil
}

// trendingScores weighs recent supporters and comments against the idea's age.
func (r *IdeaRepo) trendingScores(ideas []*models.Idea, now time.Time) (map[int64]float64, error) {
	scores := make(map[int64]float64, len(ideas))
	if len(ideas) == 0 {
		return scores, nil
	}

	since := FormatTime(now.Add(-trendingWindow))
	recent := make(map[int64][2]int, len(ideas))
	rows, err := r.db.Query(`
		SELECT i.id,
			(SELECT COUNT(*) FROM idea_supporters s WHERE s.idea_id = i.id AND s.created_at >= ?),
			(SELECT COUNT(*) FROM comments c WHERE c.idea_id = i.id AND c.created_at >= ?)
		FROM ideas i
		WHERE i.status != ?
	`, since, since, models.IdeaDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trending: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var supporters, comments int
		if err := rows.Scan(&id, &supporters, &comments); err != nil {
			return nil, fmt.Errorf("failed to scan trending: %w", err)
		}
		recent[id] = [2]int{supporters, comments}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trending: %w", err)
	}

	for _, idea := range ideas {
		counts := recent[idea.ID]
		scores[idea.ID] = TrendingScore(counts[0], counts[1], now.Sub(idea.CreatedAt))
	}
	return scores, nil
}

// TrendingScore ranks an idea by recent engagement decayed by age.
func TrendingScore(recentSupporters, recentComments int, age time.Duration) float64 {
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	engagement := float64(recentSupporters*5+recentComments*3) - 1
	return engagement / math.Pow(hours+2, 1.4)
}

// AddSupporter records user's support. Supporting twice, or supporting a
// closed idea, is a no-op.
func (r *IdeaRepo) AddSupporter(ideaID int64, user *models.User) error {
	return WithTx(r.db, func(tx *sql.Tx) error {
		open, err := supportable(tx, ideaID)
		if err != nil || !open {
			return err
		}
		result, err := tx.Exec(
			`INSERT OR IGNORE INTO idea_supporters (idea_id, user_id, created_at) VALUES (?, ?, ?)`,
			ideaID, user.ID, FormatTime(time.Now()),
		)
		if err != nil {
			return fmt.Errorf("failed to add supporter: %w", err)
		}
		return bumpSupporters(tx, ideaID, result, 1)
	})
}

// RemoveSupporter withdraws user's support. Removing twice, or removing from
// a closed idea, is a no-op.
func (r *IdeaRepo) RemoveSupporter(ideaID int64, user *models.User) error {
	return WithTx(r.db, func(tx *sql.Tx) error {
		open, err := supportable(tx, ideaID)
		if err != nil || !open {
			return err
		}
		result, err := tx.Exec(`DELETE FROM idea_supporters WHERE idea_id = ? AND user_id = ?`, ideaID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to remove supporter: %w", err)
		}
		return bumpSupporters(tx, ideaID, result, -1)
	})
}

func supportable(tx *sql.Tx, ideaID int64) (bool, error) {
	var status models.IdeaStatus
	err := tx.QueryRow(`SELECT status FROM ideas WHERE id = ?`, ideaID).Scan(&status)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("idea not found")
	}
	if err != nil {
		return false, fmt.Errorf("failed to get idea status: %w", err)
	}
	idea := models.Idea{Status: status}
	return idea.CanBeSupported(), nil
}

func bumpSupporters(tx *sql.Tx, ideaID int64, result sql.Result, delta int) error {
	changed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if changed == 0 {
		return nil
	}
	if _, err := tx.Exec(`UPDATE ideas SET supporters = supporters + ? WHERE id = ?`, delta, ideaID); err != nil {
		return fmt.Errorf("failed to update supporters: %w", err)
	}
	return nil
}

// SupportedBy returns the IDs of the ideas user supports, ordered by ID.
func (r *IdeaRepo) SupportedBy(user *models.User) ([]int64, error) {
	ids := []int64{}
	if user == nil {
		return ids, nil
	}
	rows, err := r.db.Query(`
		SELECT s.idea_id FROM idea_supporters s
		JOIN ideas i ON i.id = s.idea_id
		WHERE s.user_id = ? AND i.status != ?
		ORDER BY s.idea_id
	`, user.ID, models.IdeaDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list supported ideas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan supported idea: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supported ideas: %w", err)
	}
	return ids, nil
}

// SetResponse stores a staff response and status. responded_at only moves
// when the status changes, so editing the text keeps the original date.
// A non-duplicate status clears any previous duplicate link.
func (r *IdeaRepo) SetResponse(ideaID int64, text string, status models.IdeaStatus, by *models.User) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	if status == models.IdeaDuplicate {
		return fmt.Errorf("use MarkAsDuplicate to mark an idea as duplicate")
	}

	now := FormatTime(time.Now())
	result, err := r.db.Exec(`
		UPDATE ideas SET
			response = ?,
			response_user_id = ?,
			responded_at = CASE WHEN status = ? AND responded_at IS NOT NULL THEN responded_at ELSE ? END,
			status = ?,
			original_id = NULL
		WHERE id = ?
	`, text, by.ID, status, now, status, ideaID)
	if err != nil {
		return fmt.Errorf("failed to set response: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("idea not found")
	}
	return nil
}

// MarkAsDuplicate closes idea as a duplicate of original and moves its
// supporters over. Users already supporting the original are not counted twice.
func (r *IdeaRepo) MarkAsDuplicate(ideaID, originalID int64, by *models.User) error {
	if ideaID == originalID {
		return fmt.Errorf("an idea cannot duplicate itself")
	}
	now := FormatTime(time.Now())
	return WithTx(r.db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE ideas SET
				response = '',
				response_user_id = ?,
				responded_at = ?,
				status = ?,
				original_id = ?
			WHERE id = ?
		`, by.ID, now, models.IdeaDuplicate, originalID, ideaID)
		if err != nil {
			return fmt.Errorf("failed to mark as duplicate: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("idea not found")
		}

		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO idea_supporters (idea_id, user_id, created_at)
			SELECT ?, user_id, created_at FROM idea_supporters WHERE idea_id = ?
		`, originalID, ideaID); err != nil {
			return fmt.Errorf("failed to merge supporters: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE ideas SET supporters = (SELECT COUNT(*) FROM idea_supporters WHERE idea_id = ?)
			WHERE id = ?
		`, originalID, originalID); err != nil {
			return fmt.Errorf("failed to recount supporters: %w", err)
		}
		return nil
	})
}

// IsReferenced reports whether another idea is marked as a duplicate of this one.
func (r *IdeaRepo) IsReferenced(ideaID int64) (bool, error) {
	var exists int
	err := r.db.QueryRow(
		`SELECT 1 FROM ideas WHERE original_id = ? AND status = ? LIMIT 1`,
		ideaID, models.IdeaDuplicate,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check idea references: %w", err)
	}
	return true, nil
}

// CountByStatus returns how many ideas are in each status, deleted ones excluded.
func (r *IdeaRepo) CountByStatus() (map[models.IdeaStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM ideas WHERE status != ? GROUP BY status`, models.IdeaDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count ideas: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.IdeaStatus]int)
	for rows.Next() {
		var status models.IdeaStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan idea count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idea counts: %w", err)
	}
	return counts, nil
}

// decorate fills the viewer-dependent fields: visible tag slugs and ViewerSupport.
// It runs after the idea rows are closed since test databases hold one connection.
func (r *IdeaRepo) decorate(ideas []*models.Idea, viewer *models.User) error {
	if len(ideas) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Idea, len(ideas))
	args := make([]interface{}, 0, len(ideas)+1)
	for _, idea := range ideas {
		idea.Tags = []string{}
		byID[idea.ID] = idea
		args = append(args, idea.ID)
	}
	in := placeholders(len(ideas))

	tagQuery := `
		SELECT it.idea_id, t.slug FROM idea_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.idea_id IN (` + in + `)`
	if !viewer.IsStaff() {
		tagQuery += ` AND t.is_public = 1`
	}
	tagQuery += ` ORDER BY t.id`

	if err := eachPair(r.db, tagQuery, args, func(id int64, slug string) {
		byID[id].Tags = append(byID[id].Tags, slug)
	}); err != nil {
		return fmt.Errorf("failed to load idea tags: %w", err)
	}

	if viewer == nil {
		return nil
	}
	supportQuery := `SELECT idea_id, '' FROM idea_supporters WHERE user_id = ? AND idea_id IN (` + in + `)`
	supportArgs := append([]interface{}{viewer.ID}, args...)
	if err := eachPair(r.db, supportQuery, supportArgs, func(id int64, _ string) {
		byID[id].ViewerSupport = true
	}); err != nil {
		return fmt.Errorf("failed to load viewer support: %w", err)
	}
	return nil
}

func eachPair(db *sql.DB, query string, args []interface{}, fn func(int64, string)) error {
	rows, err := db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var s string
		if err := rows.Scan(&id, &s); err != nil {
			return err
		}
		fn(id, s)
	}
	return rows.Err()
}

func scanIdeas(rows *sql.Rows) ([]*models.Idea, error) {
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		var i models.Idea
		var author models.User
		var desc, response sql.NullString
		var respondedAt sql.NullTime
		var ruID sql.NullInt64
		var ruName, ruEmail, ruRole sql.NullString
		var ruCreated sql.NullTime
		var oNumber sql.NullInt64
		var oTitle, oSlug, oStatus sql.NullString

		err := rows.Scan(
			&i.ID, &i.Number, &i.Title, &i.Slug, &desc, &i.Status, &i.UserID,
			&i.TotalSupporters, &i.CreatedAt,
			&response, &respondedAt,
			&author.ID, &author.Name, &author.Email, &author.Role, &author.CreatedAt,
			&ruID, &ruName, &ruEmail, &ruRole, &ruCreated,
			&oNumber, &oTitle, &oSlug, &oStatus,
			&i.TotalComments,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}

		i.Description = desc.String
		i.User = &author
		i.Tags = []string{}
		if respondedAt.Valid {
			resp := &models.IdeaResponse{
				Text:        response.String,
				RespondedAt: respondedAt.Time,
			}
			if ruID.Valid {
				resp.User = &models.User{
					ID:        ruID.Int64,
					Name:      ruName.String,
					Email:     ruEmail.String,
					Role:      models.Role(ruRole.String),
					CreatedAt: ruCreated.Time,
				}
			}
			if i.Status == models.IdeaDuplicate && oNumber.Valid {
				resp.Original = &models.OriginalIdea{
					Number: int(oNumber.Int64),
					Title:  oTitle.String,
					Slug:   oSlug.String,
					Status: models.IdeaStatus(oStatus.String),
				}
			}
			i.Response = resp
		}
		ideas = append(ideas, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ideas: %w", err)
	}
	return ideas, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
