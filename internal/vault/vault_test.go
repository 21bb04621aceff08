package vault

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/credential-defense/creddef/internal/errs"
	"github.com/credential-defense/creddef/internal/model"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	e := NewEngine(filepath.Join(dir, "vault_meta.json"), filepath.Join(dir, "vault.enc"))
	e.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestEngine_InitializeAndLoadRoundTrip(t *testing.T) {
	t.Parallel()
	e := testEngine(t)

	require.False(t, e.Exists())
	require.NoError(t, e.Initialize("correct horse"))
	require.True(t, e.Exists())

	collection, err := e.LoadCollection("correct horse")
	require.NoError(t, err)
	require.Empty(t, collection.Records)
	require.True(t, collection.CreatedAt.Equal(collection.UpdatedAt))

	// metadata is inspectable without decryption
	raw, err := os.ReadFile(e.metaPath)
	require.NoError(t, err)
	var meta Meta
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.Equal(t, "argon2id", meta.KDF)
	require.Len(t, meta.Salt, saltLen)
	require.True(t, meta.CreatedAt.Equal(collection.CreatedAt))
}

func TestEngine_InitializeTwiceFails(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	require.NoError(t, e.Initialize("pw"))
	require.ErrorIs(t, e.Initialize("pw"), errs.ErrVaultExists)
}

func TestEngine_LoadBeforeInit(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	_, err := e.Load("pw")
	require.ErrorIs(t, err, errs.ErrVaultNotInitialized)
}

func TestEngine_WrongPasswordNeverReturnsData(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	require.NoError(t, e.Initialize("right"))

	records, err := e.Load("wrong")
	require.ErrorIs(t, err, errs.ErrInvalidVaultPassword)
	require.Nil(t, records)
}

func TestEngine_CorruptedBlobFailsAuthentication(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	require.NoError(t, e.Initialize("pw"))

	blob, err := os.ReadFile(e.blobPath)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(e.blobPath, blob, 0o600))

	_, err = e.Load("pw")
	require.ErrorIs(t, err, errs.ErrInvalidVaultPassword)
}

func TestEngine_UpsertIdempotentByRecordID(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	require.NoError(t, e.Initialize("pw"))

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	rec := model.NewRecord("parent", "GitHub", "https://github.com", "dev@example.com", "hunter2", "chrome", first)
	created, err := e.Upsert("pw", []model.CredentialRecord{rec})
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// re-importing the same triple merges instead of duplicating
	e.now = func() time.Time { return later }
	rec.Password = "rotated-password"
	created, err = e.Upsert("pw", []model.CredentialRecord{rec})
	require.NoError(t, err)
	require.Equal(t, 0, created)

	records, err := e.Load("pw")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "rotated-password", records[0].Password)
	require.True(t, records[0].CreatedAt.Equal(first), "CreatedAt must survive updates")
	require.True(t, records[0].UpdatedAt.Equal(later), "UpdatedAt must refresh")
}

func TestEngine_UpsertDistinctRecords(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	require.NoError(t, e.Initialize("pw"))

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	created, err := e.Upsert("pw", []model.CredentialRecord{
		model.NewRecord("parent", "GitHub", "https://github.com", "dev@example.com", "a", "chrome", now),
		model.NewRecord("son", "GitHub", "https://github.com", "dev@example.com", "b", "chrome", now),
	})
	require.NoError(t, err)
	require.Equal(t, 2, created)

	records, err := e.Load("pw")
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestEngine_ReplaceSingleRecord(t *testing.T) {
	t.Parallel()
	e := testEngine(t)
	require.NoError(t, e.Initialize("pw"))

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := model.NewRecord("parent", "GitHub", "https://github.com", "dev@example.com", "a", "chrome", now)
	require.NoError(t, e.Replace("pw", rec))

	rec.Password = "b"
	require.NoError(t, e.Replace("pw", rec))

	records, err := e.Load("pw")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "b", records[0].Password)
}

func TestEngine_OtherIOErrorsPropagate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "vault_meta.json")
	require.NoError(t, os.WriteFile(metaPath, []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vault.enc"), []byte("x"), 0o600))

	e := NewEngine(metaPath, filepath.Join(dir, "vault.enc"))
	_, err := e.Load("pw")
	require.Error(t, err)
	require.False(t, errors.Is(err, errs.ErrInvalidVaultPassword))
	require.False(t, errors.Is(err, errs.ErrVaultNotInitialized))
}
