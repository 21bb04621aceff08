package actions

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/credential-defense/creddef/internal/model"
)

func taskAt(service string, action model.ActionType, createdAt time.Time) model.ActionTask {
	rec := model.NewRecord("parent", service, "https://"+service+".example", "a@example.com", "pw", "chrome", createdAt)
	return model.NewTask(rec, action, "queued", createdAt)
}

func TestQueue_EnqueueIdempotent(t *testing.T) {
	t.Parallel()
	q, err := LoadQueue(filepath.Join(t.TempDir(), "queue.json"))
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := taskAt("gmail", model.ActionRotatePassword, now)

	require.True(t, q.Enqueue(task))
	require.False(t, q.Enqueue(task), "same task id must be a no-op")
	require.Equal(t, 1, q.Len())

	// same record, different action is a distinct task
	require.True(t, q.Enqueue(taskAt("gmail", model.ActionDeleteAccount, now)))
	require.Equal(t, 2, q.Len())
}

func TestQueue_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "queue.json")
	q, err := LoadQueue(path)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	q.Enqueue(taskAt("gmail", model.ActionRotatePassword, now))
	require.NoError(t, q.Save())

	reloaded, err := LoadQueue(path)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Len())
	require.Equal(t, q.Tasks()[0].TaskID, reloaded.Tasks()[0].TaskID)
}

func TestQueue_PendingFIFOByCreatedAt(t *testing.T) {
	t.Parallel()
	q, err := LoadQueue(filepath.Join(t.TempDir(), "queue.json"))
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := taskAt("zeta", model.ActionRotatePassword, base.Add(2*time.Hour))
	early := taskAt("alpha", model.ActionRotatePassword, base)
	done := taskAt("done", model.ActionRotatePassword, base.Add(time.Hour))
	done.Status = model.TaskCompleted

	// insertion order deliberately differs from creation order
	q.Enqueue(late)
	q.Enqueue(done)
	q.Enqueue(early)

	pending := q.Pending()
	require.Len(t, pending, 2, "terminal tasks are not pending")
	require.Equal(t, "alpha", pending[0].Service)
	require.Equal(t, "zeta", pending[1].Service)
}

func TestQueue_LoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	q, err := LoadQueue(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Zero(t, q.Len())
}
