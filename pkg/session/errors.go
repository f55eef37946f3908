package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when no record exists for a session id.
	ErrNotFound = errors.New("session: not found")

	// ErrInvalidID is returned when a session id cannot be used as a storage key.
	ErrInvalidID = errors.New("session: invalid id")

	// ErrNoDirectory is returned when a FileStore is created without a directory.
	ErrNoDirectory = errors.New("session: storage directory required")

	// ErrCorrupted is returned when a stored record cannot be decoded.
	ErrCorrupted = errors.New("session: corrupted record")

	// ErrUnencodable is returned when a bag holds a value of an unregistered type.
	ErrUnencodable = errors.New("session: value cannot be encoded, see Register")

	// ErrInvalidSchedule is returned when a sweeper cron expression cannot be parsed.
	ErrInvalidSchedule = errors.New("session: invalid sweep schedule")
)
