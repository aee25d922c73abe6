package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/diogenes-ai-code/sprout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDBPath_WithConfig(t *testing.T) {
	origConfig := globalConfig
	defer func() { globalConfig = origConfig }()

	globalConfig = &config.Config{DB: "/config/path.db"}
	dbPath = ""
	assert.Equal(t, "/config/path.db", GetDBPath())

	// flag overrides config
	dbPath = "/flag/path.db"
	assert.Equal(t, "/flag/path.db", GetDBPath())

	dbPath = ""
}

func TestIsNoColor_WithConfig(t *testing.T) {
	origConfig := globalConfig
	origNoColor := noColor
	defer func() {
		globalConfig = origConfig
		noColor = origNoColor
	}()

	globalConfig = &config.Config{NoColor: true}
	noColor = false
	assert.True(t, IsNoColor())

	globalConfig = &config.Config{NoColor: false}
	noColor = true
	assert.True(t, IsNoColor())

	globalConfig = &config.Config{NoColor: false}
	noColor = false
	assert.False(t, IsNoColor())
}

func TestGetActingEmail(t *testing.T) {
	origConfig := globalConfig
	origAs := asUser
	defer func() {
		globalConfig = origConfig
		asUser = origAs
	}()

	globalConfig = &config.Config{DefaultUser: "config@got.com"}
	asUser = ""
	assert.Equal(t, "config@got.com", GetActingEmail())

	asUser = "flag@got.com"
	assert.Equal(t, "flag@got.com", GetActingEmail())

	globalConfig = nil
	asUser = ""
	assert.Equal(t, "", GetActingEmail())
}

func TestGetConfig(t *testing.T) {
	origConfig := globalConfig
	defer func() { globalConfig = origConfig }()

	globalConfig = &config.Config{DB: "/custom/path.db", NoColor: true, DefaultUser: "jon.snow@got.com"}
	cfg := GetConfig()
	assert.Equal(t, "/custom/path.db", cfg.DB)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "jon.snow@got.com", cfg.DefaultUser)

	globalConfig = nil
	cfg = GetConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, 18090, cfg.Server.Port)
}

func TestConfigWithEnvOverrides(t *testing.T) {
	origConfig := globalConfig
	origAs := asUser
	defer func() {
		globalConfig = origConfig
		asUser = origAs
	}()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
db = "/file/db/path.db"
default_user = "file@got.com"
`), 0644))

	t.Setenv("SPROUT_DB", "/env/db/path.db")

	cfg, err := config.LoadFromPath(configPath)
	require.NoError(t, err)
	globalConfig = cfg
	asUser = ""

	assert.Equal(t, "/env/db/path.db", GetDBPath())
	assert.Equal(t, "file@got.com", GetActingEmail())
}

func TestCmdConfigInit(t *testing.T) {
	origConfig := globalConfig
	defer func() { globalConfig = origConfig }()

	target := filepath.Join(t.TempDir(), "conf", "config.toml")
	db := filepath.Join(t.TempDir(), "unused.db")

	out, err := runCmd(t, db, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)
	assert.FileExists(t, target)

	_, err = runCmd(t, db, "config", "init", "--path", target)
	assert.Error(t, err)

	_, err = runCmd(t, db, "config", "init", "--path", target, "--force")
	assert.NoError(t, err)
}

func TestCmdConfigShow(t *testing.T) {
	origConfig := globalConfig
	defer func() { globalConfig = origConfig }()

	db := filepath.Join(t.TempDir(), "board.db")
	out, err := runCmd(t, db, "--json", "--as", "arya@got.com", "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "arya@got.com", cfg.DefaultUser)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.False(t, cfg.Backup.Enabled)
}
