package library

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQuiet = 20 * time.Millisecond

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	limits  []int
	respond func(ctx context.Context, q string) ([]SearchResult, error)
}

func (f *fakeSearcher) SearchBooks(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.limits = append(f.limits, limit)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return []SearchResult{{Name: q}}, nil
	}
	return respond(ctx, q)
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func newTestController(s Searcher) *SearchController {
	return NewSearchController(s, SearchOptions{QuietPeriod: testQuiet})
}

func TestSearchDebounceOnlyLastQueryFetches(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("d")
	c.SetQuery("du")
	c.SetQuery("dun")

	eventually(t, func() bool { return len(c.State().Results) == 1 }, "results arrive")
	time.Sleep(3 * testQuiet)

	assert.Equal(t, []string{"dun"}, fake.Calls())
	assert.Equal(t, []SearchResult{{Name: "dun"}}, c.State().Results)
	assert.Equal(t, "dun", c.State().Query)
	assert.False(t, c.State().Loading)
}

func TestSearchSendsTrimmedQueryAndDefaultLimit(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("  dune  ")
	eventually(t, func() bool { return len(fake.Calls()) == 1 }, "fetch issued")

	assert.Equal(t, []string{"dune"}, fake.Calls())
	fake.mu.Lock()
	assert.Equal(t, []int{30}, fake.limits)
	fake.mu.Unlock()
	assert.Equal(t, "  dune  ", c.State().Query)
}

func TestSearchEmptyQueryClearsSynchronously(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("dune")
	eventually(t, func() bool { return len(c.State().Results) == 1 }, "results arrive")

	c.SetQuery("")
	st := c.State()
	assert.Empty(t, st.Results)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)

	time.Sleep(3 * testQuiet)
	assert.Equal(t, []string{"dune"}, fake.Calls(), "empty query never fetches")
}

func TestSearchFetchedTracksCurrentQuery(t *testing.T) {
	fake := &fakeSearcher{respond: func(ctx context.Context, q string) ([]SearchResult, error) {
		return nil, nil
	}}
	c := NewSearchController(fake, SearchOptions{QuietPeriod: time.Hour})
	defer c.Close()

	c.SetQuery("zzz")
	assert.False(t, c.State().Fetched, "nothing looked up during the quiet period")

	c.Refresh()
	eventually(t, func() bool { return c.State().Fetched }, "lookup finishes")
	assert.Empty(t, c.State().Results)

	c.SetQuery("zzzz")
	assert.False(t, c.State().Fetched, "a new query has not been looked up")
}

func TestSearchWhitespaceQueryDoesNotFetch(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("   ")
	time.Sleep(3 * testQuiet)

	assert.Empty(t, fake.Calls())
	assert.Empty(t, c.State().Results)
	assert.Equal(t, "   ", c.State().Query)
}

func TestSearchStaleResultDiscarded(t *testing.T) {
	started := make(chan string, 4)
	release := make(chan struct{})
	fake := &fakeSearcher{respond: func(ctx context.Context, q string) ([]SearchResult, error) {
		started <- q
		if q == "first" {
			<-release // ignores ctx on purpose
			return []SearchResult{{Name: "stale"}}, nil
		}
		return []SearchResult{{Name: "fresh"}}, nil
	}}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("first")
	require.Equal(t, "first", <-started)
	eventually(t, func() bool { return c.State().Loading }, "first fetch in flight")

	c.SetQuery("second")
	require.Equal(t, "second", <-started)
	eventually(t, func() bool {
		st := c.State()
		return len(st.Results) == 1 && st.Results[0].Name == "fresh"
	}, "second result applied")

	close(release)
	time.Sleep(3 * testQuiet)

	st := c.State()
	assert.Equal(t, []SearchResult{{Name: "fresh"}}, st.Results)
	assert.False(t, st.Loading)
	assert.Equal(t, "second", st.Query)
}

func TestSearchSupersededFetchIsCancelled(t *testing.T) {
	cancelled := make(chan error, 1)
	fake := &fakeSearcher{respond: func(ctx context.Context, q string) ([]SearchResult, error) {
		if q == "slow" {
			<-ctx.Done()
			cancelled <- ctx.Err()
			return nil, ctx.Err()
		}
		return []SearchResult{{Name: q}}, nil
	}}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("slow")
	eventually(t, func() bool { return c.State().Loading }, "slow fetch in flight")
	c.SetQuery("fast")

	select {
	case err := <-cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}

	eventually(t, func() bool { return len(c.State().Results) == 1 }, "fast result applied")
	assert.Empty(t, c.State().Err, "cancellation of a superseded fetch is not an error")
}

func TestSearchFailureKeepsPriorResults(t *testing.T) {
	fake := &fakeSearcher{respond: func(ctx context.Context, q string) ([]SearchResult, error) {
		if q == "bad" {
			return nil, errors.New("boom")
		}
		return []SearchResult{{Name: q}}, nil
	}}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("good")
	eventually(t, func() bool { return len(c.State().Results) == 1 }, "good results")

	c.SetQuery("bad")
	eventually(t, func() bool { return c.State().Err != "" }, "error reported")

	st := c.State()
	assert.Equal(t, "Search failed: boom", st.Err)
	assert.False(t, st.Loading)
	assert.Equal(t, []SearchResult{{Name: "good"}}, st.Results)
}

func TestSearchAPIErrorMessage(t *testing.T) {
	fake := &fakeSearcher{respond: func(ctx context.Context, q string) ([]SearchResult, error) {
		return nil, &APIError{StatusCode: 503, Status: "503 Service Unavailable"}
	}}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("dune")
	eventually(t, func() bool { return c.State().Err != "" }, "error reported")
	assert.Equal(t, "Search failed: bad status: 503 Service Unavailable", c.State().Err)
}

func TestSearchLoadingAndErrorNeverBothSet(t *testing.T) {
	var (
		mu    sync.Mutex
		snaps []SearchState
	)
	fake := &fakeSearcher{respond: func(ctx context.Context, q string) ([]SearchResult, error) {
		if q == "bad" {
			return nil, errors.New("boom")
		}
		return []SearchResult{{Name: q}}, nil
	}}
	c := NewSearchController(fake, SearchOptions{
		QuietPeriod: testQuiet,
		OnChange: func(s SearchState) {
			mu.Lock()
			snaps = append(snaps, s)
			mu.Unlock()
		},
	})
	defer c.Close()

	c.SetQuery("bad")
	eventually(t, func() bool { return c.State().Err != "" }, "error reported")
	c.SetQuery("good")
	eventually(t, func() bool { return len(c.State().Results) == 1 }, "results arrive")

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snaps)
	sawLoading := false
	for _, s := range snaps {
		assert.False(t, s.Loading && s.Err != "", "loading and error set together: %+v", s)
		sawLoading = sawLoading || s.Loading
	}
	assert.True(t, sawLoading, "a loading snapshot was published")
}

func TestSearchSameQueryIsNoop(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("dune")
	eventually(t, func() bool { return len(fake.Calls()) == 1 }, "first fetch")
	c.SetQuery("dune")
	time.Sleep(3 * testQuiet)

	assert.Len(t, fake.Calls(), 1)
}

func TestSearchRefreshRefetches(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.Refresh()
	time.Sleep(testQuiet)
	assert.Empty(t, fake.Calls(), "refresh with no query does nothing")

	c.SetQuery("dune")
	eventually(t, func() bool { return len(fake.Calls()) == 1 }, "first fetch")
	c.Refresh()
	eventually(t, func() bool { return len(fake.Calls()) == 2 }, "refresh fetch")
	assert.Equal(t, []string{"dune", "dune"}, fake.Calls())
}

func TestSearchCloseStopsPendingTimer(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)

	c.SetQuery("dune")
	c.Close()
	time.Sleep(3 * testQuiet)

	assert.Empty(t, fake.Calls())
	c.SetQuery("other")
	time.Sleep(3 * testQuiet)
	assert.Empty(t, fake.Calls())
}

func TestSearchSnapshotsAreCopies(t *testing.T) {
	fake := &fakeSearcher{}
	c := newTestController(fake)
	defer c.Close()

	c.SetQuery("dune")
	eventually(t, func() bool { return len(c.State().Results) == 1 }, "results arrive")

	st := c.State()
	st.Results[0].Name = "mutated"
	assert.Equal(t, "dune", c.State().Results[0].Name)
}
