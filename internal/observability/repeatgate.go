package observability

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// RepeatGate suppresses messages that were seen recently.
//
// Logging paths that can fail on every redraw, like writes to a closed
// pipe, would otherwise emit the same message many times a second. The
// gate remembers when each distinct message last went through and blocks
// it until the interval has passed.
//
// Seen messages live in a bounded LRU cache. When more distinct messages
// than the cache holds are being logged, evicted ones may get through
// early.
//
// A nil gate allows everything.
type RepeatGate struct {
	seen     *lru.Cache
	interval time.Duration
}

// NewRepeatGate returns a gate that lets each distinct message through
// once per interval, remembering up to size messages.
func NewRepeatGate(size int, interval time.Duration) (*RepeatGate, error) {
	seen, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &RepeatGate{seen: seen, interval: interval}, nil
}

// Allow reports whether msg may be logged, recording it if so.
func (g *RepeatGate) Allow(msg string) bool {
	if g == nil {
		return true
	}

	now := time.Now()
	if last, ok := g.seen.Get(msg); ok &&
		now.Sub(last.(time.Time)) < g.interval {
		return false
	}

	g.seen.Add(msg, now)
	return true
}
