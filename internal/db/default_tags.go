package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// DefaultTags are created by `sprout init` so a new board has something to label with.
var DefaultTags = []models.Tag{
	{Name: "Bug", Color: "D73A4A", IsPublic: true},
	{Name: "Feature Request", Color: "0E8A16", IsPublic: true},
	{Name: "Needs Triage", Color: "FBCA04", IsPublic: false},
}

// SeedDefaultTags creates the default tags in the database.
// This function is idempotent - it will skip tags that already exist.
func SeedDefaultTags(db *sql.DB) error {
	repo := NewTagRepo(db)

	for _, tag := range DefaultTags {
		_, err := repo.Add(tag.Name, tag.Color, tag.IsPublic)
		if errors.Is(err, ErrDuplicateTag) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create default tag %q: %w", tag.Name, err)
		}
	}

	return nil
}
