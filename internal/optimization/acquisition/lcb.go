package acquisition

// LowerConfidenceBound scores a point by the optimistic bound
// mu - beta*sigma. For minimisation a low bound is promising, so the
// utility is its negation. Beta controls the trade-off: higher values
// weight uncertain regions more heavily.
type LowerConfidenceBound struct {
	beta float64
}

// NewLowerConfidenceBound creates a new LCB acquisition function. A beta
// around 2.0 is a reasonable default.
func NewLowerConfidenceBound(beta float64) *LowerConfidenceBound {
	return &LowerConfidenceBound{beta: beta}
}

// Compute returns -(mu - beta*sigma).
func (lcb *LowerConfidenceBound) Compute(mu, sigma float64) float64 {
	return -(mu - lcb.beta*sigma)
}

// UpdateBest is a no-op: the confidence bound does not depend on the
// incumbent.
func (lcb *LowerConfidenceBound) UpdateBest(float64) {}
