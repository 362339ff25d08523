package normalize

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/okian/roster/internal/domain/model"
)

// IDGenerator produces an identifier for rows without an id cell.
type IDGenerator func() string

// NewUUID is the production IDGenerator.
func NewUUID() string { return uuid.NewString() }

// SequenceIDs returns a deterministic generator yielding prefix-1, prefix-2, ...
// It is safe for concurrent use.
func SequenceIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

type options struct {
	forcedStatus model.Status
	newID        IDGenerator
}

// Option configures one normalization run.
type Option func(*options)

// WithForcedStatus overrides the status column for every row of the source.
// A blank status leaves the column in charge.
func WithForcedStatus(s model.Status) Option {
	return func(o *options) {
		o.forcedStatus = s
	}
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{newID: NewUUID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
