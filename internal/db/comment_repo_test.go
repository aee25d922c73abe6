package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepo_AddAndList(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	ideas := NewIdeaRepo(db.DB)
	repo := NewCommentRepo(db.DB)

	idea, err := ideas.Add("My new idea", "with this description", users.JonSnow)
	require.NoError(t, err)

	_, err = repo.Add(idea.ID, "Comment #1", users.JonSnow)
	require.NoError(t, err)
	_, err = repo.Add(idea.ID, "Comment #2", users.AryaStark)
	require.NoError(t, err)

	comments, err := repo.ListByIdea(idea.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Comment #1", comments[0].Content)
	assert.Equal(t, "Jon Snow", comments[0].User.Name)
	assert.Equal(t, "Comment #2", comments[1].Content)
	assert.Equal(t, "Arya Stark", comments[1].User.Name)

	got, err := ideas.GetByID(idea.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalComments)
}

func TestCommentRepo_AddGetUpdate(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	ideas := NewIdeaRepo(db.DB)
	repo := NewCommentRepo(db.DB)

	idea, _ := ideas.Add("My new idea", "with this description", users.JonSnow)

	id, err := repo.Add(idea.ID, "Comment #1", users.JonSnow)
	require.NoError(t, err)

	comment, err := repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, id, comment.ID)
	assert.Equal(t, "Comment #1", comment.Content)
	assert.Equal(t, users.JonSnow.ID, comment.User.ID)
	assert.Nil(t, comment.EditedAt)
	assert.Nil(t, comment.EditedBy)

	require.NoError(t, repo.Update(id, "Comment #1 with edit", users.AryaStark))

	comment, err = repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Comment #1 with edit", comment.Content)
	assert.Equal(t, users.JonSnow.ID, comment.User.ID)
	require.NotNil(t, comment.EditedAt)
	require.NotNil(t, comment.EditedBy)
	assert.Equal(t, users.AryaStark.ID, *comment.EditedBy)
}

func TestCommentRepo_Invalid(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	ideas := NewIdeaRepo(db.DB)
	repo := NewCommentRepo(db.DB)

	idea, _ := ideas.Add("My new idea", "", users.JonSnow)

	_, err := repo.Add(idea.ID, "   ", users.JonSnow)
	assert.Error(t, err)

	missing, err := repo.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, repo.Update(999, "text", users.JonSnow))
	assert.Error(t, repo.Update(1, "", users.JonSnow))
}

func TestCommentRepo_ListEmpty(t *testing.T) {
	db := NewTestDB(t)
	defer db.Close()
	users := SeedTestUsers(t, db)
	idea, _ := NewIdeaRepo(db.DB).Add("My new idea", "", users.JonSnow)

	comments, err := NewCommentRepo(db.DB).ListByIdea(idea.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.NotNil(t, comments)
}
