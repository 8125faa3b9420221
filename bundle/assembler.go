// Package bundle groups signed transactions into capacity-bounded bundles
// and drives them through the broadcast endpoint with rate limiting and
// pacing.
package bundle

// DefaultCapacity is the maximum number of transactions the broadcast
// endpoint accepts per bundle.
const DefaultCapacity = 5

// Assemble chunks signed transactions into submission bundles, preserving
// input order. All bundles hold exactly capacity transactions except the
// last, which may be short. Empty input yields no bundles. A capacity below
// one falls back to DefaultCapacity.
func Assemble(signedTxs []string, capacity int) [][]string {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	bundles := make([][]string, 0, (len(signedTxs)+capacity-1)/capacity)
	for start := 0; start < len(signedTxs); start += capacity {
		end := min(start+capacity, len(signedTxs))
		bundles = append(bundles, signedTxs[start:end])
	}
	return bundles
}
