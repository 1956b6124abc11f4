package fractal

import "errors"

var (
	// ErrBudgetAlignment reports an iteration budget that is not a multiple of 64.
	ErrBudgetAlignment = errors.New("fractal: iteration budget is not a multiple of 64")

	// ErrNonFinite reports a NaN or infinite parameter.
	ErrNonFinite = errors.New("fractal: parameter is not finite")

	// ErrSubmit wraps any failure to hand a render to the worker pool.
	ErrSubmit = errors.New("fractal: render submission failed")

	// ErrPoolClosed is returned by a pool that no longer accepts work.
	ErrPoolClosed = errors.New("fractal: worker pool closed")

	// ErrPoolExhausted is returned by a bounded pool with no free slot.
	ErrPoolExhausted = errors.New("fractal: worker pool exhausted")

	// ErrRenderFailed reports a background render that did not run to completion.
	ErrRenderFailed = errors.New("fractal: render failed")
)
