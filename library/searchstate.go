package library

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pocket_library/lang"
	"pocket_library/utils"
)

const DefaultQuietPeriod = 300 * time.Millisecond

// Searcher is the remote lookup behind a SearchController.
type Searcher interface {
	SearchBooks(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// SearchState is an immutable snapshot of the search tab. Loading and Err
// are never both set. Fetched turns true once a lookup for Query finishes.
type SearchState struct {
	Query   string
	Loading bool
	Fetched bool
	Err     string
	Results []SearchResult
}

type SearchOptions struct {
	QuietPeriod time.Duration
	Limit       int
	// OnChange receives every new snapshot. It runs without the controller
	// lock held, possibly on a timer goroutine.
	OnChange func(SearchState)
}

// SearchController debounces query edits into remote lookups. Only the latest
// query's lookup may update state; older ones are cancelled and discarded.
type SearchController struct {
	searcher Searcher
	quiet    time.Duration
	limit    int
	onChange func(SearchState)

	mu     sync.Mutex
	state  SearchState
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

func NewSearchController(s Searcher, opts SearchOptions) *SearchController {
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &SearchController{
		searcher: s,
		quiet:    opts.QuietPeriod,
		limit:    opts.Limit,
		onChange: opts.OnChange,
	}
}

// State returns the current snapshot.
func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetQuery records the query and schedules a lookup after the quiet period.
// A blank query clears the results immediately without a lookup. Setting the
// current query again does nothing.
func (c *SearchController) SetQuery(q string) {
	c.mu.Lock()
	if c.closed || q == c.state.Query {
		c.mu.Unlock()
		return
	}
	c.supersedeLocked()
	c.state.Query = q
	c.state.Fetched = false

	trimmed := NormalizeQuery(q)
	if trimmed == "" {
		c.state.Results = nil
		c.state.Err = ""
	} else {
		g := c.gen
		c.timer = time.AfterFunc(c.quiet, func() { c.fire(g, trimmed) })
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// Refresh looks up the current query right away, superseding anything pending
// or in flight.
func (c *SearchController) Refresh() {
	c.mu.Lock()
	trimmed := NormalizeQuery(c.state.Query)
	if c.closed || trimmed == "" {
		c.mu.Unlock()
		return
	}
	c.supersedeLocked()
	g := c.gen
	c.mu.Unlock()

	go c.fire(g, trimmed)
}

// Close stops the pending timer and cancels any in-flight lookup. Later calls
// are ignored.
func (c *SearchController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.closed = true
}

// supersedeLocked invalidates the pending timer and the in-flight lookup.
func (c *SearchController) supersedeLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Loading = false
}

func (c *SearchController) fire(g uint64, query string) {
	c.mu.Lock()
	if g != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.timer = nil
	c.cancel = cancel
	c.state.Loading = true
	c.state.Err = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)

	utils.Info("search fired", "query", query)
	results, err := c.searcher.SearchBooks(ctx, query, c.limit)
	cancel()

	c.mu.Lock()
	if g != c.gen {
		c.mu.Unlock()
		utils.Debug("search superseded", "query", query)
		return
	}
	c.cancel = nil
	c.state.Loading = false
	c.state.Fetched = true
	if err != nil {
		utils.Warn("search failed", "query", query, "err", err)
		c.state.Err = errorMessage(err)
	} else {
		c.state.Results = results
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
}

func (c *SearchController) snapshotLocked() SearchState {
	s := c.state
	if s.Results != nil {
		s.Results = append([]SearchResult(nil), s.Results...)
	}
	return s
}

func (c *SearchController) publish(s SearchState) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// errorMessage turns a lookup failure into display text.
func errorMessage(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return lang.SearchError(apiErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return lang.SearchError(context.DeadlineExceeded.Error())
	}
	return lang.SearchError(strings.TrimSpace(err.Error()))
}
