package models

import (
	"time"

	"github.com/google/uuid"
)

// ID represents a unique identifier
type ID string

// GenerateUUID creates a new random ID
func GenerateUUID() ID {
	return ID(uuid.New().String())
}

// NewID creates an ID from string, rejecting anything that is not a UUID
func NewID(id string) (ID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}
	return ID(parsed.String()), nil
}

// String returns string representation
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is empty
func (id ID) IsZero() bool {
	return id == ""
}

// Timestamps represents creation and update times
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTimestamps creates timestamps set to the current UTC time
func NewTimestamps() Timestamps {
	now := time.Now().UTC()
	return Timestamps{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch returns a copy with UpdatedAt moved to the current UTC time
func (t Timestamps) Touch() Timestamps {
	t.UpdatedAt = time.Now().UTC()
	return t
}

// Version is the aggregate version used for optimistic locking
type Version int

// InitialVersion is the version of a freshly created aggregate
const InitialVersion Version = 1

// Next returns the following version
func (v Version) Next() Version {
	return v + 1
}

// Int returns the version as int for storage
func (v Version) Int() int {
	return int(v)
}
