// Package config resolves workspace paths and persisted settings.
//
// Everything the components need (file paths, endpoints, owner roster,
// triage priorities) is carried in an explicit Config rather than package
// globals, so tests can point a component at a temp workspace.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/credential-defense/creddef/internal/model"
)

// Default breach lookup endpoints.
const (
	DefaultPwnedRangeEndpoint      = "https://api.pwnedpasswords.com/range/"
	DefaultBreachedAccountEndpoint = "https://haveibeenpwned.com/api/v3/breachedaccount/"
)

// DefaultHTTPTimeout bounds a single remote breach lookup.
const DefaultHTTPTimeout = 15 * time.Second

// OwnerProfile is one logical account holder from the closed configured set.
type OwnerProfile struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	EmailPatterns []string `json:"email_patterns"`
}

// Settings is the persisted workspace configuration.
type Settings struct {
	Owners                     []OwnerProfile   `json:"owners"`
	PriorityCategories         []model.Category `json:"priority_categories"`
	RequireConfirmBeforeDelete bool             `json:"require_confirm_before_delete"`
	AllowOnlineBreachChecks    bool             `json:"allow_online_breach_checks"`
}

// Config carries resolved workspace paths, endpoints and settings.
type Config struct {
	WorkspaceRoot string
	Settings      Settings

	PwnedRangeEndpoint      string
	BreachedAccountEndpoint string
	HTTPTimeout             time.Duration
}

// Path helpers, all rooted at WorkspaceRoot.

func (c *Config) ConfigDir() string  { return filepath.Join(c.WorkspaceRoot, "config") }
func (c *Config) DataDir() string    { return filepath.Join(c.WorkspaceRoot, "data") }
func (c *Config) ImportsDir() string { return filepath.Join(c.WorkspaceRoot, "imports") }

func (c *Config) SettingsPath() string     { return filepath.Join(c.ConfigDir(), "workspace_settings.json") }
func (c *Config) SiteProfilesPath() string { return filepath.Join(c.ConfigDir(), "site_profiles.json") }
func (c *Config) VaultPath() string        { return filepath.Join(c.DataDir(), "vault.enc") }
func (c *Config) VaultMetaPath() string    { return filepath.Join(c.DataDir(), "vault_meta.json") }
func (c *Config) ActionQueuePath() string  { return filepath.Join(c.DataDir(), "action_queue.json") }
func (c *Config) BreachCachePath() string  { return filepath.Join(c.DataDir(), "local_breach_cache.json") }
func (c *Config) JournalPath() string      { return filepath.Join(c.DataDir(), "session_journal.jsonl") }

// DefaultSettings returns the settings seeded into a fresh workspace.
func DefaultSettings() Settings {
	return Settings{
		Owners: []OwnerProfile{
			{ID: "parent", DisplayName: "Parent", EmailPatterns: []string{}},
			{ID: "son", DisplayName: "Son", EmailPatterns: []string{}},
		},
		PriorityCategories:         append([]model.Category(nil), model.DefaultCategoryOrder...),
		RequireConfirmBeforeDelete: true,
		AllowOnlineBreachChecks:    true,
	}
}

// Load ensures the workspace layout exists, seeds default settings and site
// profiles on first run, and returns the resolved Config.
func Load(workspaceRoot string) (*Config, error) {
	cfg := &Config{
		WorkspaceRoot:           workspaceRoot,
		PwnedRangeEndpoint:      DefaultPwnedRangeEndpoint,
		BreachedAccountEndpoint: DefaultBreachedAccountEndpoint,
		HTTPTimeout:             DefaultHTTPTimeout,
	}
	for _, dir := range []string{cfg.ConfigDir(), cfg.DataDir(), cfg.ImportsDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create workspace dir: %w", err)
		}
	}
	if err := seedJSON(cfg.SettingsPath(), DefaultSettings()); err != nil {
		return nil, err
	}
	if err := seedJSON(cfg.SiteProfilesPath(), DefaultSiteProfiles()); err != nil {
		return nil, err
	}
	if err := readJSON(cfg.SettingsPath(), &cfg.Settings); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return cfg, nil
}

// LoadSiteProfiles reads the per-domain remediation profile file.
func (c *Config) LoadSiteProfiles() (SiteProfiles, error) {
	var profiles SiteProfiles
	if err := readJSON(c.SiteProfilesPath(), &profiles); err != nil {
		if os.IsNotExist(err) {
			return DefaultSiteProfiles(), nil
		}
		return SiteProfiles{}, fmt.Errorf("read site profiles: %w", err)
	}
	return profiles, nil
}

// OwnerForUsername attributes a username to a configured owner by email
// pattern match, falling back to the first configured owner.
func (c *Config) OwnerForUsername(username string) string {
	value := strings.ToLower(username)
	for _, owner := range c.Settings.Owners {
		for _, pattern := range owner.EmailPatterns {
			if p := strings.ToLower(pattern); p != "" && strings.Contains(value, p) {
				return owner.ID
			}
		}
	}
	if len(c.Settings.Owners) > 0 {
		return c.Settings.Owners[0].ID
	}
	return "parent"
}

func seedJSON(path string, v any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return WriteJSON(path, v)
}

// WriteJSON writes v to path as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
