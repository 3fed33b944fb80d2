package loader

import (
	"context"
	"time"
)

// StubFetcher returns a canned CSV or error. Test double for HTTPFetcher.
type StubFetcher struct {
	Text  string
	Err   error
	Calls int
}

func (s *StubFetcher) Fetch(ctx context.Context) (string, error) {
	s.Calls++
	return s.Text, s.Err
}

// StubCache is an in-memory Cache test double.
type StubCache struct {
	Text      string
	FetchedAt time.Time
	Err       error
}

func (s *StubCache) Latest(ctx context.Context) (string, time.Time, error) {
	return s.Text, s.FetchedAt, s.Err
}
