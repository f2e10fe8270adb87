package engine

import "github.com/dm/dfsmon/internal/model"

// Sink consumes poll results. Implementations must be safe for concurrent
// use: overlapping fetches publish from different goroutines, and whichever
// completes last wins.
type Sink interface {
	// Publish delivers the summary derived from a successful poll.
	Publish(summary *model.Summary)
	// Failed reports a skipped tick. Previously published summaries stay valid.
	Failed(err error)
}

// TokenSource yields the credential used for each poll. ok is false while no
// session is established, in which case the tick performs no fetch.
type TokenSource interface {
	Token() (token string, ok bool)
}
