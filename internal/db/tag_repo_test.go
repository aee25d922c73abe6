package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRepo_AddAndGet(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewTagRepo(db.DB)

	tag, err := repo.Add("Feature Request", "FF0000", true)
	require.NoError(t, err)
	assert.NotZero(t, tag.ID)

	got, err := repo.GetBySlug("feature-request")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tag.ID, got.ID)
	assert.Equal(t, "Feature Request", got.Name)
	assert.Equal(t, "feature-request", got.Slug)
	assert.Equal(t, "FF0000", got.Color)
	assert.True(t, got.IsPublic)
}

func TestTagRepo_AddUpdateAndGet(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewTagRepo(db.DB)

	tag, err := repo.Add("Feature Request", "FF0000", true)
	require.NoError(t, err)
	tag, err = repo.Update(tag.ID, "Bug", "000000", false)
	require.NoError(t, err)

	got, err := repo.GetBySlug("bug")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tag.ID, got.ID)
	assert.Equal(t, "Bug", got.Name)
	assert.Equal(t, "000000", got.Color)
	assert.False(t, got.IsPublic)

	old, err := repo.GetBySlug("feature-request")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestTagRepo_DuplicateSlug(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewTagRepo(db.DB)

	_, err := repo.Add("Bug", "FF0000", true)
	require.NoError(t, err)
	_, err = repo.Add("bug", "00FF00", true)
	assert.ErrorIs(t, err, ErrDuplicateTag)

	other, err := repo.Add("Idea", "00FF00", true)
	require.NoError(t, err)
	_, err = repo.Update(other.ID, "BUG", "00FF00", true)
	assert.ErrorIs(t, err, ErrDuplicateTag)

	// renaming a tag to its own slug is fine
	_, err = repo.Update(other.ID, "IDEA", "00FF00", true)
	assert.NoError(t, err)
}

func TestTagRepo_InvalidColor(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()

	_, err := NewTagRepo(db.DB).Add("Bug", "red", true)
	assert.Error(t, err)
}

func TestTagRepo_AddDeleteAndGet(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	repo := NewTagRepo(db.DB)

	tag, err := repo.Add("Bug", "FFFFFF", true)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(tag.ID))

	got, err := repo.GetBySlug("bug")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, repo.Delete(tag.ID))
}

func TestTagRepo_AssignUnassign(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	repo := NewTagRepo(db.DB)

	idea, _ := NewIdeaRepo(db.DB).Add("My great idea", "with a great description", users.AryaStark)
	tag, _ := repo.Add("Bug", "FFFFFF", true)

	require.NoError(t, repo.AssignTag(tag.ID, idea.ID, users.AryaStark))
	require.NoError(t, repo.AssignTag(tag.ID, idea.ID, users.AryaStark))

	assigned, err := repo.GetAssigned(idea.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, tag.ID, assigned[0].ID)
	assert.Equal(t, "Bug", assigned[0].Name)
	assert.Equal(t, "bug", assigned[0].Slug)
	assert.Equal(t, "FFFFFF", assigned[0].Color)
	assert.True(t, assigned[0].IsPublic)

	require.NoError(t, repo.UnassignTag(tag.ID, idea.ID))

	assigned, err = repo.GetAssigned(idea.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestTagRepo_AssignThenDeleteTag(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	repo := NewTagRepo(db.DB)

	idea, _ := NewIdeaRepo(db.DB).Add("My great idea", "with a great description", users.AryaStark)
	tag, _ := repo.Add("Bug", "FFFFFF", true)

	require.NoError(t, repo.AssignTag(tag.ID, idea.ID, users.AryaStark))
	require.NoError(t, repo.Delete(tag.ID))

	assigned, err := repo.GetAssigned(idea.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestTagRepo_ListVisibility(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	repo := NewTagRepo(db.DB)

	_, err := repo.Add("Feature Request", "FF0000", true)
	require.NoError(t, err)
	_, err = repo.Add("Bug", "0F0F0F", false)
	require.NoError(t, err)

	all, err := repo.List(users.JonSnow)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Feature Request", all[0].Name)
	assert.True(t, all[0].IsPublic)
	assert.Equal(t, "Bug", all[1].Name)
	assert.Equal(t, "0F0F0F", all[1].Color)
	assert.False(t, all[1].IsPublic)

	visitor, err := repo.List(users.AryaStark)
	require.NoError(t, err)
	require.Len(t, visitor, 1)
	assert.Equal(t, "Feature Request", visitor[0].Name)

	anonymous, err := repo.List(nil)
	require.NoError(t, err)
	assert.Len(t, anonymous, 1)
}

func TestSeedDefaultTags(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()

	require.NoError(t, SeedDefaultTags(db.DB))
	// idempotent
	require.NoError(t, SeedDefaultTags(db.DB))

	tags, err := NewTagRepo(db.DB).List(&adminViewer)
	require.NoError(t, err)
	assert.Len(t, tags, len(DefaultTags))
}
