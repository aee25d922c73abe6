package db

import (
	"database/sql"
	"testing"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// NewTestDB creates an in-memory SQLite database for testing.
//
// IMPORTANT: Always use this function in tests, never use file-based databases.
// Using file-based databases in tests risks accidentally destroying production data
// if the test database path isn't properly isolated.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    db := NewTestDB(t)
//	    defer db.Close()
//
//	    // Use db for testing...
//	}
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database with foreign keys enabled
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Every pooled connection would get its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	if err := Migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &DB{DB: sqlDB, path: ":memory:"}
}

// TestUsers holds the fixture users created by SeedTestUsers.
type TestUsers struct {
	JonSnow   *models.User // administrator
	AryaStark *models.User // visitor
	Sansa     *models.User // collaborator
}

// SeedTestUsers creates a fixed set of users with distinct roles.
func SeedTestUsers(t *testing.T, database *DB) TestUsers {
	t.Helper()

	repo := NewUserRepo(database.DB)
	create := func(name, email string, role models.Role) *models.User {
		u := &models.User{Name: name, Email: email, Role: role}
		if err := repo.Create(u); err != nil {
			t.Fatalf("failed to seed user %s: %v", email, err)
		}
		return u
	}

	return TestUsers{
		JonSnow:   create("Jon Snow", "jon.snow@got.com", models.RoleAdministrator),
		AryaStark: create("Arya Stark", "arya.stark@got.com", models.RoleVisitor),
		Sansa:     create("Sansa Stark", "sansa.stark@got.com", models.RoleCollaborator),
	}
}
