package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_SeedsWorkspace(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	for _, path := range []string{cfg.SettingsPath(), cfg.SiteProfilesPath()} {
		_, err := os.Stat(path)
		require.NoError(t, err, "expected seeded file %s", path)
	}
	require.Len(t, cfg.Settings.Owners, 2)
	require.Equal(t, "parent", cfg.Settings.Owners[0].ID)
	require.True(t, cfg.Settings.AllowOnlineBreachChecks)
	require.Equal(t, cfg.DataDir(), filepath.Dir(cfg.VaultPath()))
}

func TestLoad_KeepsExistingSettings(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	custom := cfg.Settings
	custom.Owners = []OwnerProfile{{ID: "alice", DisplayName: "Alice", EmailPatterns: []string{"alice@"}}}
	require.NoError(t, WriteJSON(cfg.SettingsPath(), custom))

	reloaded, err := Load(root)
	require.NoError(t, err)
	require.Len(t, reloaded.Settings.Owners, 1)
	require.Equal(t, "alice", reloaded.Settings.Owners[0].ID)
}

func TestOwnerForUsername(t *testing.T) {
	t.Parallel()
	cfg := &Config{Settings: Settings{Owners: []OwnerProfile{
		{ID: "parent", EmailPatterns: []string{"dad@", "parent"}},
		{ID: "son", EmailPatterns: []string{"kid@example.com"}},
	}}}

	require.Equal(t, "son", cfg.OwnerForUsername("KID@example.com"))
	require.Equal(t, "parent", cfg.OwnerForUsername("dad@example.com"))
	// no match falls back to the first configured owner
	require.Equal(t, "parent", cfg.OwnerForUsername("unknown@other.com"))
}

func TestSiteProfiles_For(t *testing.T) {
	t.Parallel()
	profiles := DefaultSiteProfiles()
	github := profiles.For("github.com")
	require.Equal(t, "https://github.com/settings/security", github.ChangePasswordURL)
	require.False(t, github.Automation.Enabled)

	unknown := profiles.For("nowhere.example")
	require.Empty(t, unknown.ChangePasswordURL)
}
