package actions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/credential-defense/creddef/internal/model"
)

// JournalEntry is one line of the append-only session journal: the audit
// trail of task execution outcomes.
type JournalEntry struct {
	Timestamp  time.Time        `json:"timestamp"`
	TaskID     string           `json:"task_id"`
	RecordID   string           `json:"record_id"`
	Service    string           `json:"service"`
	Username   string           `json:"username"`
	ActionType model.ActionType `json:"action_type"`
	Status     model.TaskStatus `json:"status"`
}

// Journal appends line-delimited JSON entries. The file is never rewritten.
type Journal struct {
	path string
}

// NewJournal builds a Journal over the given file path.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Append writes one entry as a JSON line.
func (j *Journal) Append(entry JournalEntry) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}
