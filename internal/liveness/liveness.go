// Package liveness classifies peers as up or down from the age of their last
// received snapshot.
package liveness

import "time"

// DefaultThreshold is how stale a snapshot may get before its host is down.
const DefaultThreshold = 11 * time.Minute

// Classifier decides whether a host is down. All times are Unix seconds.
type Classifier struct {
	Threshold time.Duration
}

// New returns a Classifier, falling back to DefaultThreshold for a non-positive value.
func New(threshold time.Duration) Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Classifier{Threshold: threshold}
}

// IsDown reports whether a snapshot received at recv is older than the threshold
// at now. A snapshot exactly Threshold old is still up.
func (c Classifier) IsDown(recv, now int64) bool {
	return now-recv > int64(c.threshold()/time.Second)
}

// Since returns how long ago recv was, in seconds.
func (c Classifier) Since(recv, now int64) int64 {
	return now - recv
}

func (c Classifier) threshold() time.Duration {
	if c.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Threshold
}
