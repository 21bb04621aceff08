// Package vault implements the encrypted-at-rest credential store.
//
// The vault is two files: plaintext KDF metadata (inspectable without the
// master password) and one authenticated-encrypted JSON blob holding the full
// record collection. Every mutation is decrypt whole, mutate, re-encrypt
// whole, write whole; there is no partial or append write path.
package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/credential-defense/creddef/internal/errs"
	"github.com/credential-defense/creddef/internal/model"
)

const formatVersion = 1

// Meta is the plaintext metadata file beside the encrypted blob.
type Meta struct {
	Version   int       `json:"version"`
	KDF       string    `json:"kdf"`
	Salt      []byte    `json:"salt"`
	Params    KDFParams `json:"params"`
	CreatedAt time.Time `json:"created_at"`
}

// Collection is the decrypted vault payload.
type Collection struct {
	Records   []model.CredentialRecord `json:"records"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Engine reads and writes the two vault files.
type Engine struct {
	metaPath string
	blobPath string
	now      func() time.Time
}

// NewEngine constructs an Engine over the given vault file paths.
func NewEngine(metaPath, blobPath string) *Engine {
	return &Engine{metaPath: metaPath, blobPath: blobPath, now: time.Now}
}

// Exists reports whether both vault files are present.
func (e *Engine) Exists() bool {
	if _, err := os.Stat(e.metaPath); err != nil {
		return false
	}
	_, err := os.Stat(e.blobPath)
	return err == nil
}

// Initialize creates a fresh vault: random salt, default work factors, and an
// empty encrypted collection. Fails with ErrVaultExists if one is present.
func (e *Engine) Initialize(master string) error {
	if e.Exists() {
		return errs.ErrVaultExists
	}
	salt, err := randBytes(saltLen)
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	now := e.now().UTC()
	meta := Meta{
		Version:   formatVersion,
		KDF:       "argon2id",
		Salt:      salt,
		Params:    DefaultKDFParams(),
		CreatedAt: now,
	}
	if err := writeFileJSON(e.metaPath, meta); err != nil {
		return fmt.Errorf("write vault metadata: %w", err)
	}
	collection := Collection{Records: []model.CredentialRecord{}, CreatedAt: now, UpdatedAt: now}
	return e.save(master, meta, collection)
}

// LoadCollection decrypts and returns the full vault payload.
// Wrong password or a corrupted blob yields ErrInvalidVaultPassword; missing
// vault files yield ErrVaultNotInitialized. Never returns partial data.
func (e *Engine) LoadCollection(master string) (Collection, error) {
	meta, err := e.readMeta()
	if err != nil {
		return Collection{}, err
	}
	blob, err := os.ReadFile(e.blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Collection{}, errs.ErrVaultNotInitialized
		}
		return Collection{}, fmt.Errorf("read vault blob: %w", err)
	}
	key := deriveKey(master, meta.Salt, meta.Params)
	plaintext, err := open(key, blob)
	if err != nil {
		return Collection{}, errs.ErrInvalidVaultPassword
	}
	var collection Collection
	if err := json.Unmarshal(plaintext, &collection); err != nil {
		return Collection{}, fmt.Errorf("decode vault payload: %w", err)
	}
	return collection, nil
}

// Load decrypts the vault and returns its records.
func (e *Engine) Load(master string) ([]model.CredentialRecord, error) {
	collection, err := e.LoadCollection(master)
	if err != nil {
		return nil, err
	}
	return collection.Records, nil
}

// Upsert merges records into the collection by record ID, preserving
// CreatedAt for existing records and refreshing UpdatedAt, then rewrites the
// whole blob. Returns the count of newly created records.
func (e *Engine) Upsert(master string, records []model.CredentialRecord) (int, error) {
	meta, err := e.readMeta()
	if err != nil {
		return 0, err
	}
	collection, err := e.LoadCollection(master)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]int, len(collection.Records))
	for i, existing := range collection.Records {
		byID[existing.RecordID] = i
	}
	now := e.now().UTC()
	created := 0
	for _, rec := range records {
		rec.UpdatedAt = now
		if i, ok := byID[rec.RecordID]; ok {
			rec.CreatedAt = collection.Records[i].CreatedAt
			collection.Records[i] = rec
			continue
		}
		rec.CreatedAt = now
		byID[rec.RecordID] = len(collection.Records)
		collection.Records = append(collection.Records, rec)
		created++
	}
	collection.UpdatedAt = now
	if err := e.save(master, meta, collection); err != nil {
		return 0, err
	}
	return created, nil
}

// Replace upserts a single record.
func (e *Engine) Replace(master string, rec model.CredentialRecord) error {
	_, err := e.Upsert(master, []model.CredentialRecord{rec})
	return err
}

func (e *Engine) readMeta() (Meta, error) {
	data, err := os.ReadFile(e.metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, errs.ErrVaultNotInitialized
		}
		return Meta{}, fmt.Errorf("read vault metadata: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("decode vault metadata: %w", err)
	}
	return meta, nil
}

// save re-encrypts and fully overwrites the on-disk ciphertext.
func (e *Engine) save(master string, meta Meta, collection Collection) error {
	plaintext, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode vault payload: %w", err)
	}
	key := deriveKey(master, meta.Salt, meta.Params)
	blob, err := seal(key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt vault payload: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(e.blobPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(e.blobPath, blob, 0o600)
}

func writeFileJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
