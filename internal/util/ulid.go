package util

import "github.com/oklog/ulid/v2"

// NewULID generates a new ULID string. ulid.Make draws entropy from
// crypto/rand, so concurrent callers get distinct identifiers.
func NewULID() string {
	return ulid.Make().String()
}
