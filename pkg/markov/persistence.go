package markov

import (
	"context"
	"errors"
)

// ErrNoPersistence is returned by Save and Load when the chain was created
// without a Persistence.
var ErrNoPersistence = errors.New("no persistence configured")

// Persistence moves a chain's state to and from some storage. Implementations
// are expected to use ToPortable and FromPortable.
type Persistence interface {
	Save(ctx context.Context, c *Chain) error
	Load(ctx context.Context, c *Chain) error
}

// Save writes the chain through its Persistence. Errors from the strategy are
// returned as is.
func (c *Chain) Save(ctx context.Context) error {
	if c.persistence == nil {
		return ErrNoPersistence
	}
	return c.persistence.Save(ctx, c)
}

// Load reads the chain through its Persistence. Errors from the strategy are
// returned as is.
func (c *Chain) Load(ctx context.Context) error {
	if c.persistence == nil {
		return ErrNoPersistence
	}
	return c.persistence.Load(ctx, c)
}
