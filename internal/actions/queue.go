// Package actions persists and executes queued remediation tasks.
package actions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/credential-defense/creddef/internal/model"
)

// Queue is the flat on-disk task collection. Enqueue is idempotent by task
// ID; execution order is FIFO by CreatedAt at read time, not by insertion
// position. Tasks are never deleted; terminal tasks stay for audit.
type Queue struct {
	path  string
	tasks []model.ActionTask
}

// LoadQueue reads the queue file. A missing file yields an empty queue.
func LoadQueue(path string) (*Queue, error) {
	q := &Queue{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return q, nil
		}
		return nil, fmt.Errorf("read action queue: %w", err)
	}
	if err := json.Unmarshal(data, &q.tasks); err != nil {
		return nil, fmt.Errorf("decode action queue: %w", err)
	}
	return q, nil
}

// Enqueue adds a task unless one with the same ID already exists.
// Reports whether the task was added.
func (q *Queue) Enqueue(task model.ActionTask) bool {
	for _, existing := range q.tasks {
		if existing.TaskID == task.TaskID {
			return false
		}
	}
	q.tasks = append(q.tasks, task)
	return true
}

// Len returns the number of tasks, terminal ones included.
func (q *Queue) Len() int { return len(q.tasks) }

// Tasks returns a copy of all tasks.
func (q *Queue) Tasks() []model.ActionTask {
	return append([]model.ActionTask(nil), q.tasks...)
}

// Pending returns pending tasks ordered FIFO by CreatedAt.
func (q *Queue) Pending() []model.ActionTask {
	var pending []model.ActionTask
	for _, task := range q.tasks {
		if task.Status == model.TaskPending {
			pending = append(pending, task)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending
}

// update replaces the stored task with the same ID.
func (q *Queue) update(task model.ActionTask) {
	for i := range q.tasks {
		if q.tasks[i].TaskID == task.TaskID {
			q.tasks[i] = task
			return
		}
	}
}

// Save rewrites the whole queue file.
func (q *Queue) Save() error {
	if err := os.MkdirAll(filepath.Dir(q.path), 0o700); err != nil {
		return err
	}
	tasks := q.tasks
	if tasks == nil {
		tasks = []model.ActionTask{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode action queue: %w", err)
	}
	return os.WriteFile(q.path, append(data, '\n'), 0o600)
}
