package service

import (
	"testing"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusService_GetSummary(t *testing.T) {
	database, users := testDB(t)
	ideas := NewIdeaService(database.DB, nil)
	responses := NewResponseService(database.DB, nil)

	titles := []string{
		"Add dark mode to the dashboard",
		"Export reports to CSV files",
		"Single sign-on with Google",
		"Keyboard shortcuts for triage",
	}
	for _, title := range titles {
		_, err := ideas.Create(title, "", users.AryaStark)
		require.NoError(t, err)
	}
	_, err := responses.Respond(2, RespondInput{Status: models.IdeaPlanned}, users.JonSnow)
	require.NoError(t, err)
	_, err = responses.Respond(3, RespondInput{Status: models.IdeaCompleted}, users.JonSnow)
	require.NoError(t, err)
	_, err = responses.Respond(4, RespondInput{Status: models.IdeaDeleted}, users.JonSnow)
	require.NoError(t, err)

	svc := NewStatusService(database.DB)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	summary, err := svc.GetSummary(2)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Open)
	assert.Equal(t, 1, summary.Planned)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 0, summary.Started)
	assert.Equal(t, 3, summary.Total)

	require.Len(t, summary.RecentActivity, 2)
	assert.Equal(t, 4, summary.RecentActivity[0].IdeaNumber)
	assert.Equal(t, "about 2 hours ago", summary.RecentActivity[0].Age)
	assert.Equal(t, "Jon Snow", summary.RecentActivity[0].UserName)
}

func TestStatusService_GetSummary_Empty(t *testing.T) {
	database, _ := testDB(t)
	svc := NewStatusService(database.DB)

	summary, err := svc.GetSummary(0)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.NotNil(t, summary.RecentActivity)
	assert.Empty(t, summary.RecentActivity)
}
