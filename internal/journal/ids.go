package journal

import (
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator mints UUIDv4 plan ids.
type UUIDGenerator struct{}

// NewID returns a fresh UUID string.
func (UUIDGenerator) NewID() string { return uuid.New().String() }

// SystemClock reads the wall clock in UTC. Document timestamps are
// always UTC so serialized output is stable across hosts.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
