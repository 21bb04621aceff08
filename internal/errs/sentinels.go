// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across vault/queue/executor layers.
var (
	// ErrVaultExists indicates an attempt to initialize an already initialized vault.
	ErrVaultExists = errors.New("vault already exists")

	// ErrVaultNotInitialized indicates the vault files are missing.
	ErrVaultNotInitialized = errors.New("vault not initialized")

	// ErrInvalidVaultPassword indicates authenticated decryption failed
	// (wrong master password or corrupted blob).
	ErrInvalidVaultPassword = errors.New("invalid vault password")

	// ErrRecordMissing indicates a task references a record no longer in the vault.
	ErrRecordMissing = errors.New("record missing in vault")

	// ErrRemoteCheckUnavailable indicates a breach lookup endpoint could not be
	// reached. Advisory: recorded as a reason string, never aborts assessment.
	ErrRemoteCheckUnavailable = errors.New("remote check unavailable")

	// ErrAutomationUnavailable indicates no browser automation engine is present.
	ErrAutomationUnavailable = errors.New("automation unavailable")
)
