package breach

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// CacheEntry is the advisory per-record snapshot of the last assessment.
// The cache is never authoritative for vault contents and is safe to lose.
type CacheEntry struct {
	Service            string    `json:"service"`
	Username           string    `json:"username"`
	Owner              string    `json:"owner"`
	CheckedAt          time.Time `json:"checked_at"`
	PwnedPasswordCount int       `json:"pwned_password_count"`
	EmailBreaches      []string  `json:"email_breaches"`
	RiskLevel          string    `json:"risk_level"`
	Reasons            []string  `json:"reasons"`
}

// Cache persists assessment snapshots keyed by record ID as a plain JSON file.
type Cache struct {
	path string
}

// NewCache builds a Cache over the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load reads all cached entries. A missing or unreadable file yields an
// empty cache.
func (c *Cache) Load() map[string]CacheEntry {
	entries := map[string]CacheEntry{}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]CacheEntry{}
	}
	return entries
}

// Upsert stores an entry and rewrites the cache file.
func (c *Cache) Upsert(recordID string, entry CacheEntry) error {
	entries := c.Load()
	entries[recordID] = entry
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, append(data, '\n'), 0o600)
}
