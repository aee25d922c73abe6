package backup

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/config"
	"github.com/diogenes-ai-code/sprout/internal/db"
	"github.com/diogenes-ai-code/sprout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestConfig() config.BackupConfig {
	return config.BackupConfig{
		Enabled:       true,
		IntervalHours: 24,
		MaxCount:      5,
	}
}

// openDB creates a migrated database holding one user.
func openDB(t *testing.T) (*db.DB, string) {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "sprout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	u := &models.User{Name: "Jon Snow", Email: "jon.snow@got.com", Role: models.RoleAdministrator}
	require.NoError(t, db.NewUserRepo(database.DB).Create(u))
	return database, dir
}

// writeOldSnapshot fakes an existing snapshot of the given age.
func writeOldSnapshot(t *testing.T, dir string, number int, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, Prefix+strconv.Itoa(number))
	require.NoError(t, os.WriteFile(path, []byte("snapshot "+strconv.Itoa(number)), 0644))
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
	return path
}

func TestNewManager(t *testing.T) {
	t.Run("uses custom backup path when specified", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Path = "/custom/backup/path"
		m := NewManager(nil, "/data/sprout.db", cfg)
		assert.Equal(t, "/custom/backup/path", m.Dir())
	})

	t.Run("uses db directory when backup path not specified", func(t *testing.T) {
		m := NewManager(nil, "/data/sprout.db", defaultTestConfig())
		assert.Equal(t, "/data", m.Dir())
	})
}

func TestBackupIfDue_Disabled(t *testing.T) {
	database, _ := openDB(t)
	cfg := defaultTestConfig()
	cfg.Enabled = false

	m := NewManager(database.DB, database.Path(), cfg)
	snap, err := m.BackupIfDue(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestBackupIfDue_FirstBackupIsReadable(t *testing.T) {
	database, dir := openDB(t)

	m := NewManager(database.DB, database.Path(), defaultTestConfig())
	snap, err := m.BackupIfDue(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, filepath.Join(dir, "sprout.db.bak.1"), snap.Path)
	assert.Equal(t, 1, snap.Number)
	assert.Positive(t, snap.Size)

	restored, err := db.Open(snap.Path)
	require.NoError(t, err)
	defer restored.Close()

	u, err := db.NewUserRepo(restored.DB).GetByEmail("jon.snow@got.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Jon Snow", u.Name)
}

func TestBackupIfDue_RecentSnapshot(t *testing.T) {
	database, dir := openDB(t)
	writeOldSnapshot(t, dir, 1, time.Hour)

	m := NewManager(database.DB, database.Path(), defaultTestConfig())
	snap, err := m.BackupIfDue(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap, "should not back up while the newest snapshot is recent")
}

func TestBackupIfDue_StaleSnapshot(t *testing.T) {
	database, dir := openDB(t)
	writeOldSnapshot(t, dir, 1, 25*time.Hour)

	m := NewManager(database.DB, database.Path(), defaultTestConfig())
	snap, err := m.BackupIfDue(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	content, err := os.ReadFile(filepath.Join(dir, Prefix+"2"))
	require.NoError(t, err)
	assert.Equal(t, "snapshot 1", string(content), "old snapshot should be rotated to .bak.2")
}

func TestBackup_Rotation(t *testing.T) {
	database, dir := openDB(t)
	for i := 1; i <= 3; i++ {
		writeOldSnapshot(t, dir, i, time.Duration(25+i)*time.Hour)
	}

	m := NewManager(database.DB, database.Path(), defaultTestConfig())
	_, err := m.Backup(context.Background())
	require.NoError(t, err)

	snaps, err := m.List()
	require.NoError(t, err)
	require.Len(t, snaps, 4)
	for i, s := range snaps {
		assert.Equal(t, i+1, s.Number)
	}

	content, err := os.ReadFile(filepath.Join(dir, Prefix+"4"))
	require.NoError(t, err)
	assert.Equal(t, "snapshot 3", string(content))
}

func TestBackup_ExceedsMaxCount(t *testing.T) {
	database, dir := openDB(t)
	for i := 1; i <= 3; i++ {
		writeOldSnapshot(t, dir, i, time.Duration(25+i)*time.Hour)
	}

	cfg := defaultTestConfig()
	cfg.MaxCount = 3
	m := NewManager(database.DB, database.Path(), cfg)
	_, err := m.Backup(context.Background())
	require.NoError(t, err)

	snaps, err := m.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 3, "should only keep MaxCount backups")

	_, err = os.Stat(filepath.Join(dir, Prefix+"4"))
	assert.True(t, os.IsNotExist(err), "backup 4 should be deleted")

	content, err := os.ReadFile(filepath.Join(dir, Prefix+"3"))
	require.NoError(t, err)
	assert.Equal(t, "snapshot 2", string(content))
}

func TestBackup_CustomDirIsCreated(t *testing.T) {
	database, dir := openDB(t)
	cfg := defaultTestConfig()
	cfg.Path = filepath.Join(dir, "nested", "backups")

	m := NewManager(database.DB, database.Path(), cfg)
	snap, err := m.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Path, Prefix+"1"), snap.Path)
}

func TestList_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sprout.db", Prefix + "abc", Prefix + "0", Prefix + "tmp", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	writeOldSnapshot(t, dir, 2, time.Hour)

	m := NewManager(nil, filepath.Join(dir, "sprout.db"), defaultTestConfig())
	snaps, err := m.List()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].Number)
}

func TestList_MissingDir(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Path = filepath.Join(t.TempDir(), "missing")
	m := NewManager(nil, "/data/sprout.db", cfg)

	snaps, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)

	due, err := m.Due()
	require.NoError(t, err)
	assert.True(t, due)
}

func TestDue_UsesClock(t *testing.T) {
	dir := t.TempDir()
	writeOldSnapshot(t, dir, 1, time.Hour)

	m := NewManager(nil, filepath.Join(dir, "sprout.db"), defaultTestConfig())
	due, err := m.Due()
	require.NoError(t, err)
	assert.False(t, due)

	m.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	due, err = m.Due()
	require.NoError(t, err)
	assert.True(t, due)
}
