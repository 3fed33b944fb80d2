package schedule

import "context"

// StubRefresher counts refresh calls. Test double for the loader.
type StubRefresher struct {
	Calls int
}

func (s *StubRefresher) Reload(ctx context.Context) {
	s.Calls++
}
