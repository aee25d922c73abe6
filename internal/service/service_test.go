package service

import (
	"testing"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB creates a temporary file-backed test database with the fixture users.
func testDB(t *testing.T) (*db.DB, db.TestUsers) {
	t.Helper()

	database, err := db.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { database.Close() })

	return database, db.SeedTestUsers(t, database)
}

// assertKind checks that err is a *errors.Error of the given kind.
func assertKind(t *testing.T, err error, kind errors.Kind) *errors.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := errors.As(err)
	require.True(t, ok, "expected *errors.Error, got %T: %v", err, err)
	assert.Equal(t, kind, e.Kind, "unexpected kind for %q", err.Error())
	return e
}

// assertField checks that err is a validation error bound to field.
func assertField(t *testing.T, err error, field string) {
	t.Helper()
	e := assertKind(t, err, errors.KindInvalidArgs)
	assert.Equal(t, field, e.Field)
}
