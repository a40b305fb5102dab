// ABOUTME: ULID generation helper using crypto/rand for monotonic IDs.
// ABOUTME: Centralizes ULID creation so all client-generated ids share one entropy source.
package workflow

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID using crypto/rand entropy.
func NewULID() ulid.ULID {
	return ulid.MustNew(ulid.Now(), rand.Reader)
}
