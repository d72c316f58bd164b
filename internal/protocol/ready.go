package protocol

import "time"

// ReadyPolicy names how the parent announces parent_ready. The original
// design posted exactly once with no acknowledgment, which can strand a
// slow-loading iframe that missed the post; the policy makes the choice
// explicit instead of implicit.
type ReadyPolicy struct {
	// Attempts is the total number of posts, at least 1.
	Attempts int
	// Interval separates consecutive posts.
	Interval time.Duration
}

// AnnounceOnce posts a single parent_ready and never repeats it.
func AnnounceOnce() ReadyPolicy {
	return ReadyPolicy{Attempts: 1}
}

// DefaultReadyPolicy is a bounded idempotent retry: the post is cheap
// and the child ignores duplicates, so a few repeats cover iframes that
// were still parsing when the first one arrived.
func DefaultReadyPolicy() ReadyPolicy {
	return ReadyPolicy{Attempts: 3, Interval: 400 * time.Millisecond}
}
