package model

import "github.com/gofrs/uuid/v5"

// Name-based UUIDv5 namespaces. Fixed so identity stays stable across runs
// and installations.
var (
	recordNamespace = uuid.NewV5(uuid.NamespaceURL, "creddef/record")
	taskNamespace   = uuid.NewV5(uuid.NamespaceURL, "creddef/task")
)

// RecordID derives the stable record identifier from (owner, service, username).
// Deterministic: the same triple always yields the same ID.
func RecordID(owner, service, username string) string {
	return uuid.NewV5(recordNamespace, owner+"|"+service+"|"+username).String()
}

// TaskID derives the stable task identifier from (record_id, action_type).
func TaskID(recordID string, action ActionType) string {
	return uuid.NewV5(taskNamespace, recordID+"|"+string(action)).String()
}
