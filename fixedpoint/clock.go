package fixedpoint

import "time"

// SecondsPerDay is the length of the UTC day index bucket.
const SecondsPerDay = 24 * 60 * 60

// Clock is the injected time capability. The arithmetic core never reads the
// wall clock directly so hosts can substitute deterministic time in tests and
// replay environments.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// CurrentDay returns the UTC day index (Unix time / 86_400) of the clock.
func CurrentDay(clock Clock) uint64 {
	ts := clock.Now().Unix()
	if ts < 0 {
		return 0
	}
	return uint64(ts) / SecondsPerDay
}
