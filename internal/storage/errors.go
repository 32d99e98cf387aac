package storage

import "errors"

var (
	// ErrOutOfOrder is returned when a sample's timestamp is strictly less
	// than the last timestamp inserted into the same series.
	ErrOutOfOrder = errors.New("storage: sample out of order")

	// ErrTombstoned is returned on insert into a deleted series.
	ErrTombstoned = errors.New("storage: series tombstoned")

	// ErrSealed is returned on append to a sealed block.
	ErrSealed = errors.New("storage: block sealed")

	// ErrWindowExceeded is returned when a timestamp falls past the end of a
	// block's window. The series reacts by sealing the block and opening a
	// new one; callers of TSMap never see this error.
	ErrWindowExceeded = errors.New("storage: timestamp outside block window")

	// ErrInvalidWindow is returned when a registry is created with a
	// non-positive block duration.
	ErrInvalidWindow = errors.New("storage: block duration must be positive")
)
