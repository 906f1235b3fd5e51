// Package idgen produces identifiers for studio records.  Identifiers keep
// a short entity prefix ("stu", "inst", "cls", "pay") followed by a unique
// part so they remain recognisable in logs and exports.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Entity prefixes.
const (
	PrefixStudent    = "stu"
	PrefixInstructor = "inst"
	PrefixClass      = "cls"
	PrefixPayment    = "pay"
)

// Generator returns a fresh identifier for the given prefix.  Implementations
// must be safe for concurrent use.
type Generator interface {
	NewID(prefix string) string
}

// UUID generates "<prefix>_<random uuid v4>" identifiers.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Sequence generates "<prefix>_<n>" identifiers from a monotonic counter
// shared by all prefixes.  Useful when ids must be predictable.
type Sequence struct {
	n atomic.Uint64
}

// NewSequence returns a Sequence whose first identifier ends in start+1.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	s.n.Store(start)
	return s
}

// NewID implements Generator.
func (s *Sequence) NewID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, s.n.Add(1))
}
