package deconz

import (
	"context"
	"sync"
)

// callResult is the single value a Call can settle to: either a payload
// paired with the status the device reported, or the cancellation error.
type callResult struct {
	payload IncomingPayload
	status StatusCode
	err error
}

// Call is a one-shot awaitable bridging a request seq/command pair to the
// response that eventually arrives on the Client's read loop.
// It settles exactly once, either with a response or with cancellation.
type Call struct {
	resultCh chan callResult
	once sync.Once
}

func newCall() *Call {
	return &Call{resultCh: make(chan callResult, 1)}
}

// resolve settles the call with a decoded response. Only the first caller
// (resolve or cancel) has any effect.
func (c *Call) resolve(payload IncomingPayload, status StatusCode) {
	c.once.Do(func() {
		c.resultCh <- callResult{payload: payload, status: status}
	})
}

// cancel settles the call as cancelled, e.g. because the Client shut down
// before a response arrived.
func (c *Call) cancel() {
	c.once.Do(func() {
		c.resultCh <- callResult{err: ErrChannelCanceled}
	})
}

// wait blocks until the call settles or ctx is done, whichever comes first.
func (c *Call) wait(ctx context.Context) (IncomingPayload, StatusCode, error) {
	select {
	case r := <-c.resultCh:
		return r.payload, r.status, r.err
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}
