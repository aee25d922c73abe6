package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/common"
	"github.com/diogenes-ai-code/sprout/internal/models"
)

// ErrDuplicateTag is returned when a tag with the same slug already exists.
var ErrDuplicateTag = errors.New("tag already exists")

// TagRepo provides database operations for tags and their assignment to ideas.
type TagRepo struct {
	db *sql.DB
}

// NewTagRepo creates a new TagRepo.
func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

// Add creates a tag. The slug is derived from the name.
func (r *TagRepo) Add(name, color string, isPublic bool) (*models.Tag, error) {
	tag := &models.Tag{
		Name:     strings.TrimSpace(name),
		Slug:     common.Slugify(name),
		Color:    strings.ToUpper(color),
		IsPublic: isPublic,
	}
	if err := tag.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}
	if err := r.ensureSlugFree(tag.Slug, 0); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(
		`INSERT INTO tags (name, slug, color, is_public, created_at) VALUES (?, ?, ?, ?, ?)`,
		tag.Name, tag.Slug, tag.Color, boolToInt(tag.IsPublic), FormatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get tag id: %w", err)
	}
	tag.ID = id
	return tag, nil
}

// Update renames, recolors or changes the visibility of a tag.
func (r *TagRepo) Update(id int64, name, color string, isPublic bool) (*models.Tag, error) {
	tag := &models.Tag{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Slug:     common.Slugify(name),
		Color:    strings.ToUpper(color),
		IsPublic: isPublic,
	}
	if err := tag.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}
	if err := r.ensureSlugFree(tag.Slug, id); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(
		`UPDATE tags SET name = ?, slug = ?, color = ?, is_public = ? WHERE id = ?`,
		tag.Name, tag.Slug, tag.Color, boolToInt(tag.IsPublic), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("tag not found")
	}
	return tag, nil
}

// Delete removes a tag and all of its assignments.
func (r *TagRepo) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tag not found")
	}
	return nil
}

// GetBySlug retrieves a tag by slug.
func (r *TagRepo) GetBySlug(slug string) (*models.Tag, error) {
	row := r.db.QueryRow(`SELECT id, name, slug, color, is_public FROM tags WHERE slug = ?`, slug)
	var t models.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.IsPublic)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tag: %w", err)
	}
	return &t, nil
}

// List retrieves the tags visible to viewer. Private tags are only returned to staff.
func (r *TagRepo) List(viewer *models.User) ([]*models.Tag, error) {
	query := `SELECT id, name, slug, color, is_public FROM tags`
	if !viewer.IsStaff() {
		query += ` WHERE is_public = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// AssignTag attaches a tag to an idea. Assigning twice is a no-op.
func (r *TagRepo) AssignTag(tagID, ideaID int64, by *models.User) error {
	var byID *int64
	if by != nil {
		byID = &by.ID
	}
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO idea_tags (idea_id, tag_id, created_at, created_by) VALUES (?, ?, ?, ?)`,
		ideaID, tagID, FormatTime(time.Now()), nullInt64(byID),
	)
	if err != nil {
		return fmt.Errorf("failed to assign tag: %w", err)
	}
	return nil
}

// UnassignTag detaches a tag from an idea.
func (r *TagRepo) UnassignTag(tagID, ideaID int64) error {
	_, err := r.db.Exec(`DELETE FROM idea_tags WHERE idea_id = ? AND tag_id = ?`, ideaID, tagID)
	if err != nil {
		return fmt.Errorf("failed to unassign tag: %w", err)
	}
	return nil
}

// GetAssigned retrieves every tag attached to an idea.
func (r *TagRepo) GetAssigned(ideaID int64) ([]*models.Tag, error) {
	rows, err := r.db.Query(`
		SELECT t.id, t.name, t.slug, t.color, t.is_public
		FROM tags t
		JOIN idea_tags it ON it.tag_id = t.id
		WHERE it.idea_id = ?
		ORDER BY t.id
	`, ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tags: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *TagRepo) ensureSlugFree(slug string, exceptID int64) error {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM tags WHERE slug = ? AND id != ?`, slug, exceptID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check tag slug: %w", err)
	}
	return ErrDuplicateTag
}

func (r *TagRepo) scanMany(rows *sql.Rows) ([]*models.Tag, error) {
	tags := []*models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.IsPublic); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}
