package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound       = errors.New("resource not found") // General not found
	ErrConflict       = errors.New("resource was modified concurrently")
	ErrPlayerNotFound = errors.New("player stats not found")

	// Authentication Errors
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Battle Session Errors
	ErrSessionAlreadyCompleted = errors.New("battle session already completed")
	ErrActiveSessionExists     = errors.New("player already has an active battle session")
	ErrBattleStartInProgress   = errors.New("battle start is already in progress for this player")
	ErrInsufficientClicks      = errors.New("insufficient clicks to defeat monster")
	ErrZoneLocked              = errors.New("zone is not unlocked for this player")
	ErrLootNotAvailable        = errors.New("no loot options available for this session")
	ErrLootAlreadySelected     = errors.New("loot has already been selected for this session")

	// Infrastructure
	ErrLockNotAcquired = errors.New("lock is held by another request")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
