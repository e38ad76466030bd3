// Package id generates unique identifiers for library nodes, prompts and sections.
package id

import "github.com/google/uuid"

// Generator produces a fresh unique identifier on each call.
// Tree and prompt operations that re-issue ids take one of these so tests
// can substitute a deterministic sequence.
type Generator func() string

// New returns a random 128-bit identifier. Ids are safe to persist and safe
// to use as merge target keys: no two calls in one process return equal values.
func New() string {
	return uuid.NewString()
}
