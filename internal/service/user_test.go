package service

import (
	"testing"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register_FirstUserIsAdministrator(t *testing.T) {
	database, err := db.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { database.Close() })

	svc := NewUserService(database.DB, nil)

	first, err := svc.Register("Jon Snow", "jon.snow@got.com", models.RoleVisitor, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, first.Role)

	second, err := svc.Register("Arya Stark", "arya.stark@got.com", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVisitor, second.Role)

	_, err = svc.Register("Sansa Stark", "sansa.stark@got.com", models.RoleCollaborator, second)
	assertKind(t, err, errors.KindForbidden)

	third, err := svc.Register("Sansa Stark", "sansa.stark@got.com", models.RoleCollaborator, first)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCollaborator, third.Role)
}

func TestUserService_Register_Validation(t *testing.T) {
	database, users := testDB(t)
	svc := NewUserService(database.DB, nil)

	_, err := svc.Register("", "bran@got.com", "", nil)
	assertField(t, err, "name")

	_, err = svc.Register("Bran", "not-an-email", "", nil)
	assertField(t, err, "email")

	_, err = svc.Register("Bran", "bran@got.com", "king", users.JonSnow)
	assertField(t, err, "role")

	_, err = svc.Register("Jon Again", "JON.SNOW@got.com", "", nil)
	assertKind(t, err, errors.KindConflict)
}

func TestUserService_Resolve(t *testing.T) {
	database, users := testDB(t)
	svc := NewUserService(database.DB, nil)

	u, err := svc.Resolve("arya.stark@got.com")
	require.NoError(t, err)
	assert.Equal(t, users.AryaStark.ID, u.ID)

	u, err = svc.Resolve("")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = svc.Resolve("hodor@got.com")
	assertKind(t, err, errors.KindNotFound)
}

func TestUserService_SetRole(t *testing.T) {
	database, users := testDB(t)
	svc := NewUserService(database.DB, nil)

	u, err := svc.SetRole("arya.stark@got.com", models.RoleCollaborator, users.JonSnow)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCollaborator, u.Role)

	_, err = svc.SetRole("arya.stark@got.com", models.RoleVisitor, users.Sansa)
	assertKind(t, err, errors.KindForbidden)

	_, err = svc.SetRole("jon.snow@got.com", models.RoleVisitor, users.JonSnow)
	assertKind(t, err, errors.KindStateError)

	_, err = svc.SetRole("hodor@got.com", models.RoleVisitor, users.JonSnow)
	assertKind(t, err, errors.KindNotFound)

	all, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
