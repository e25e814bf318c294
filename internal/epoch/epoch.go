// Package epoch recovers absolute times from the 32-bit timestamps in status
// snapshots.
//
// Senders store seconds in an int32, which wraps in 2038. A reader compares each
// value against a trusted "now": anything more than about 34 years in the past is
// assumed to have wrapped and is moved forward one wrap period at a time.
package epoch

// Horizon is the oldest a genuine timestamp may be relative to now (~34 years).
const Horizon = 0x40000000

// Correction returns the amount to add to every timestamp of one snapshot whose
// reference value is t. The wrap period is added in three steps, each below
// 2^31, so no intermediate ever needs more than 31 bits of magnitude.
func Correction(t int32, now int64) int64 {
	var c int64
	for now-int64(t)-c > Horizon {
		c += 0x70000000
		c += 0x70000000
		c += 0x20000000
	}
	return c
}

// Unwrap applies a correction to a raw timestamp.
func Unwrap(t int32, correction int64) int64 {
	return int64(t) + correction
}
