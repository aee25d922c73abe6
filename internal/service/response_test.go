package service

import (
	"strings"
	"testing"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/errors"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIdeas(t *testing.T, database *db.DB, users db.TestUsers) (*models.Idea, *models.Idea) {
	t.Helper()
	svc := NewIdeaService(database.DB, nil)
	first, err := svc.Create("Add dark mode to the dashboard", "", users.JonSnow)
	require.NoError(t, err)
	second, err := svc.Create("Support a night theme please", "", users.AryaStark)
	require.NoError(t, err)
	return first, second
}

func TestResponseService_Respond(t *testing.T) {
	database, users := testDB(t)
	idea, _ := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	got, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaPlanned, Text: "Coming in **Q3**"}, users.Sansa)
	require.NoError(t, err)

	assert.Equal(t, models.IdeaPlanned, got.Status)
	require.NotNil(t, got.Response)
	assert.Equal(t, "Coming in **Q3**", got.Response.Text)
	require.NotNil(t, got.Response.User)
	assert.Equal(t, users.Sansa.ID, got.Response.User.ID)
	assert.Nil(t, got.Response.Original)
	assert.WithinDuration(t, time.Now(), got.Response.RespondedAt, time.Minute)
}

func TestResponseService_Respond_KeepsDateWhenStatusUnchanged(t *testing.T) {
	database, users := testDB(t)
	idea, _ := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	first, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaStarted, Text: "On it"}, users.JonSnow)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaStarted, Text: "On it, halfway"}, users.JonSnow)
	require.NoError(t, err)
	assert.Equal(t, "On it, halfway", second.Response.Text)
	assert.True(t, first.Response.RespondedAt.Equal(second.Response.RespondedAt))

	time.Sleep(5 * time.Millisecond)
	third, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaCompleted, Text: "Done"}, users.JonSnow)
	require.NoError(t, err)
	assert.True(t, third.Response.RespondedAt.After(second.Response.RespondedAt))

	history, err := NewIdeaService(database.DB, nil).History(idea.Number, users.JonSnow, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.ActionStatusChanged, history[0].Action)
	assert.Equal(t, models.ActionResponded, history[1].Action)
	assert.Equal(t, models.ActionStatusChanged, history[2].Action)
}

func TestResponseService_Respond_StripsHTML(t *testing.T) {
	database, users := testDB(t)
	idea, _ := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	got, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaDeclined, Text: "<i>Not</i> for now"}, users.JonSnow)
	require.NoError(t, err)
	assert.Equal(t, "Not for now", got.Response.Text)
}

func TestResponseService_Respond_Validation(t *testing.T) {
	database, users := testDB(t)
	idea, _ := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	tests := []struct {
		name  string
		input RespondInput
		field string
	}{
		{"unknown status", RespondInput{Status: "maybe"}, "status"},
		{"empty status", RespondInput{}, "status"},
		{"duplicate of itself", RespondInput{Status: models.IdeaDuplicate, OriginalNumber: idea.Number}, "originalNumber"},
		{"original not found", RespondInput{Status: models.IdeaDuplicate, OriginalNumber: 999}, "originalNumber"},
		{"text too long", RespondInput{Status: models.IdeaPlanned, Text: strings.Repeat("x", maxResponseLength+1)}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Respond(idea.Number, tt.input, users.JonSnow)
			assertField(t, err, tt.field)
		})
	}
}

func TestResponseService_Respond_Authorization(t *testing.T) {
	database, users := testDB(t)
	idea, _ := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	_, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaPlanned}, users.AryaStark)
	assertKind(t, err, errors.KindForbidden)

	_, err = svc.Respond(idea.Number, RespondInput{Status: models.IdeaPlanned}, nil)
	assertKind(t, err, errors.KindForbidden)

	_, err = svc.Respond(404, RespondInput{Status: models.IdeaPlanned}, users.JonSnow)
	assertKind(t, err, errors.KindNotFound)
}

func TestResponseService_Respond_Duplicate(t *testing.T) {
	database, users := testDB(t)
	original, dup := seedIdeas(t, database, users)
	ideas := NewIdeaService(database.DB, nil)
	svc := NewResponseService(database.DB, nil)

	// Sansa supports both, Arya only the duplicate
	_, err := ideas.Support(original.Number, users.Sansa)
	require.NoError(t, err)
	_, err = ideas.Support(dup.Number, users.Sansa)
	require.NoError(t, err)

	got, err := svc.Respond(dup.Number, RespondInput{
		Status:         models.IdeaDuplicate,
		Text:           "ignored",
		OriginalNumber: original.Number,
	}, users.JonSnow)
	require.NoError(t, err)

	assert.Equal(t, models.IdeaDuplicate, got.Status)
	require.NotNil(t, got.Response)
	assert.Equal(t, "", got.Response.Text)
	require.NotNil(t, got.Response.Original)
	assert.Equal(t, original.Number, got.Response.Original.Number)
	assert.Equal(t, original.Title, got.Response.Original.Title)

	merged, err := ideas.Get(original.Number, users.AryaStark)
	require.NoError(t, err)
	// Jon (author), Sansa, Arya: Sansa is not counted twice
	assert.Equal(t, 3, merged.TotalSupporters)
	assert.True(t, merged.ViewerSupport)
}

func TestResponseService_Respond_ReferencedIdea(t *testing.T) {
	database, users := testDB(t)
	original, dup := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	_, err := svc.Respond(dup.Number, RespondInput{Status: models.IdeaDuplicate, OriginalNumber: original.Number}, users.JonSnow)
	require.NoError(t, err)

	_, err = svc.Respond(original.Number, RespondInput{Status: models.IdeaDeleted}, users.JonSnow)
	assertKind(t, err, errors.KindStateError)

	// an original cannot itself be a duplicate target chain
	third, err := NewIdeaService(database.DB, nil).Create("Dark mode for the mobile app", "", users.Sansa)
	require.NoError(t, err)
	_, err = svc.Respond(third.Number, RespondInput{Status: models.IdeaDuplicate, OriginalNumber: dup.Number}, users.JonSnow)
	assertField(t, err, "originalNumber")

	_, err = svc.Respond(original.Number, RespondInput{Status: models.IdeaDuplicate, OriginalNumber: third.Number}, users.JonSnow)
	assertKind(t, err, errors.KindStateError)
}

func TestResponseService_Respond_Delete(t *testing.T) {
	database, users := testDB(t)
	idea, _ := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	got, err := svc.Respond(idea.Number, RespondInput{Status: models.IdeaDeleted, Text: "spam"}, users.JonSnow)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaDeleted, got.Status)

	_, err = NewIdeaService(database.DB, nil).Get(idea.Number, users.JonSnow)
	assertKind(t, err, errors.KindNotFound)

	_, err = svc.Respond(idea.Number, RespondInput{Status: models.IdeaOpen}, users.JonSnow)
	assertKind(t, err, errors.KindNotFound)
}

func TestResponseService_Respond_ReopenDuplicate(t *testing.T) {
	database, users := testDB(t)
	original, dup := seedIdeas(t, database, users)
	svc := NewResponseService(database.DB, nil)

	_, err := svc.Respond(dup.Number, RespondInput{Status: models.IdeaDuplicate, OriginalNumber: original.Number}, users.JonSnow)
	require.NoError(t, err)

	got, err := svc.Respond(dup.Number, RespondInput{Status: models.IdeaOpen, Text: "Not quite the same"}, users.JonSnow)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaOpen, got.Status)
	assert.Nil(t, got.Response.Original)

	// no longer referenced, so the original may now be deleted
	_, err = svc.Respond(original.Number, RespondInput{Status: models.IdeaDeleted}, users.JonSnow)
	require.NoError(t, err)
}

func TestParseRespondInput(t *testing.T) {
	input, err := ParseRespondInput("planned", "  soon  ", 0)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaPlanned, input.Status)
	assert.Equal(t, "soon", input.Text)

	input, err = ParseRespondInput("duplicate", "", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, input.OriginalNumber)

	_, err = ParseRespondInput("someday", "", 0)
	assertField(t, err, "status")

	_, err = ParseRespondInput("duplicate", "", 0)
	assertField(t, err, "originalNumber")
}
