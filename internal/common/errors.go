// Package common defines shared constants and sentinel errors used across
// the offline capture-and-sync client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Local persistence errors. ErrStoreUnavailable is never replaced by an
	// empty result: an empty queue and an unreadable queue must stay distinct.
	ErrStoreUnavailable = errors.New("artifact store unavailable")
	ErrUnknownKind      = errors.New("unknown artifact kind")

	// Per-item remote failures.
	ErrUploadFailed = errors.New("binary upload failed")
	ErrInsertFailed = errors.New("record insert failed")

	// ErrSyncInProgress is returned when a sync run is requested while
	// another one is active.
	ErrSyncInProgress = errors.New("sync already in progress")

	// Backend reachability.
	ErrUnavailable = errors.New("backend unavailable")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Capture validation.
	ErrInvalidArtifact = errors.New("invalid artifact")
)
