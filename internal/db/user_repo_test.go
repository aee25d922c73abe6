package db

import (
	"testing"

	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminViewer = models.User{ID: -1, Role: models.RoleAdministrator}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewUserRepo(db.DB)

	u := &models.User{Name: "Jon Snow", Email: "jon.snow@got.com"}
	require.NoError(t, repo.Create(u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleVisitor, u.Role)

	byID, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Jon Snow", byID.Name)

	byEmail, err := repo.GetByEmail("JON.SNOW@got.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := repo.GetByEmail("nobody@got.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewUserRepo(db.DB)

	require.NoError(t, repo.Create(&models.User{Name: "Jon Snow", Email: "jon.snow@got.com"}))
	err := repo.Create(&models.User{Name: "Other Jon", Email: "Jon.Snow@got.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepo_Invalid(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewUserRepo(db.DB)

	assert.Error(t, repo.Create(&models.User{Name: "", Email: "x@got.com"}))
	assert.Error(t, repo.Create(&models.User{Name: "X", Email: "not-an-email"}))
	assert.Error(t, repo.Create(&models.User{Name: "X", Email: "x@got.com", Role: "king"}))
}

func TestUserRepo_ListAndSetRole(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	repo := NewUserRepo(db.DB)

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, users.JonSnow.ID, all[0].ID)

	require.NoError(t, repo.SetRole(users.AryaStark.ID, models.RoleCollaborator))
	arya, err := repo.GetByID(users.AryaStark.ID)
	require.NoError(t, err)
	assert.True(t, arya.IsStaff())

	assert.Error(t, repo.SetRole(999, models.RoleVisitor))
	assert.Error(t, repo.SetRole(users.AryaStark.ID, "king"))
}
