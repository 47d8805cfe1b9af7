// Package clock provides the default logical clock. The engine treats the
// clock as host-supplied: deployments embedded in a block-producing host
// should inject their own ports.Clock instead.
package clock

import "sync/atomic"

// Logical is an in-process stand-in for the host block counter: every
// observation advances it by one, so values are strictly monotonic.
type Logical struct {
	n atomic.Uint64
}

// NewLogical starts a logical clock at the given height.
func NewLogical(start uint64) *Logical {
	c := &Logical{}
	c.n.Store(start)
	return c
}

func (c *Logical) Now() uint64 {
	return c.n.Add(1)
}
