package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// CommentRepo provides database operations for comments on ideas.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo creates a new CommentRepo.
func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

const commentSelect = `
	SELECT c.id, c.idea_id, c.content, c.user_id, c.created_at, c.edited_at, c.edited_by,
		u.id, u.name, u.email, u.role, u.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

// Add posts a comment on an idea and returns its ID.
func (r *CommentRepo) Add(ideaID int64, content string, user *models.User) (int64, error) {
	c := &models.Comment{IdeaID: ideaID, Content: strings.TrimSpace(content)}
	if user != nil {
		c.UserID = user.ID
	}
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("invalid comment: %w", err)
	}

	result, err := r.db.Exec(
		`INSERT INTO comments (idea_id, content, user_id, created_at) VALUES (?, ?, ?, ?)`,
		c.IdeaID, c.Content, c.UserID, FormatTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get comment id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a comment by ID.
func (r *CommentRepo) GetByID(id int64) (*models.Comment, error) {
	rows, err := r.db.Query(commentSelect+" WHERE c.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, nil
	}
	return comments[0], nil
}

// Update replaces a comment's content and records who edited it and when.
func (r *CommentRepo) Update(id int64, content string, editor *models.User) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("content cannot be empty")
	}
	result, err := r.db.Exec(
		`UPDATE comments SET content = ?, edited_at = ?, edited_by = ? WHERE id = ?`,
		content, FormatTime(time.Now()), editor.ID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("comment not found")
	}
	return nil
}

// ListByIdea retrieves the comments on an idea, oldest first.
func (r *CommentRepo) ListByIdea(ideaID int64) ([]*models.Comment, error) {
	rows, err := r.db.Query(commentSelect+" WHERE c.idea_id = ? ORDER BY c.created_at, c.id", ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return scanComments(rows)
}

func scanComments(rows *sql.Rows) ([]*models.Comment, error) {
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		var u models.User
		var editedAt sql.NullTime
		var editedBy sql.NullInt64

		err := rows.Scan(
			&c.ID, &c.IdeaID, &c.Content, &c.UserID, &c.CreatedAt, &editedAt, &editedBy,
			&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if editedAt.Valid {
			c.EditedAt = &editedAt.Time
		}
		if editedBy.Valid {
			c.EditedBy = &editedBy.Int64
		}
		c.User = &u
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}
