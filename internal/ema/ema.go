// Package ema implements a single reusable exponential moving average for
// tracking a rolling rate or latency. Provider health tracking uses it for
// both response time and error rate; the rate limiter's backoff is a plain
// multiplier and does not use it.
package ema

// Tracker computes an exponential moving average with a fixed smoothing
// factor Alpha, supplied at construction.
type Tracker struct {
	alpha     float64
	value     float64
	hasSample bool
}

// New creates a Tracker with the given smoothing factor in (0,1].
func New(alpha float64) *Tracker {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.1
	}
	return &Tracker{alpha: alpha}
}

// Observe folds sample into the moving average and returns the updated value.
// The first observation seeds the average directly.
func (t *Tracker) Observe(sample float64) float64 {
	if !t.hasSample {
		t.value = sample
		t.hasSample = true
		return t.value
	}
	t.value = t.alpha*sample + (1-t.alpha)*t.value
	return t.value
}

// Value returns the current moving average (zero if no sample was observed).
func (t *Tracker) Value() float64 {
	return t.value
}

// Reset clears the tracker back to its zero state.
func (t *Tracker) Reset() {
	t.value = 0
	t.hasSample = false
}
