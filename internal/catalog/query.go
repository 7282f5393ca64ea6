package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// ItemsPerPage is the fixed page size for tool searches
const ItemsPerPage = 20

// SentinelAll is the designated category filter meaning "no category
// restriction". It is never a real stored category value; the remote search
// procedures understand it as the absence of a filter.
const SentinelAll = "All"

// Searcher is the slice of the remote catalog service the query layer needs
type Searcher interface {
	SearchTools(ctx context.Context, term, category string, page, perPage int) ([]model.Tool, error)
	CountTools(ctx context.Context, term, category string) (int, error)
}

// Page is the accumulated view of one query: every page fetched so far for
// the current (search term, category) tuple, plus the total match count.
type Page struct {
	Tools   []model.Tool `json:"tools"`
	Total   int          `json:"total"`
	HasMore bool         `json:"has_more"`
	Cached  bool         `json:"cached"`
}

type queryKey struct {
	term     string
	category string
}

// queryState accumulates fetched pages for one query key. The generation
// counter implements last-request-wins: every superseding request and every
// invalidation bumps it, and a resolving fetch that no longer matches is
// discarded.
type queryState struct {
	tools      []model.Tool
	total      int
	pages      int
	exhausted  bool
	fetchedAt  time.Time
	generation uint64
}

// Query is the paginated, filtered, cached view over the remote tool
// collection. Results are accumulated forward-only per query key; changing
// the key restarts at page one; any tool mutation invalidates everything
// wholesale regardless of freshness.
type Query struct {
	mu        sync.Mutex
	remote    Searcher
	logger    *zap.Logger
	freshness time.Duration
	states    map[queryKey]*queryState
	flight    singleflight.Group
}

// NewQuery creates the catalog query layer with the given freshness window
func NewQuery(remote Searcher, freshness time.Duration, logger *zap.Logger) *Query {
	return &Query{
		remote:    remote,
		logger:    logger,
		freshness: freshness,
		states:    make(map[queryKey]*queryState),
	}
}

func newKey(term, category string) queryKey {
	if category == "" {
		category = SentinelAll
	}
	return queryKey{term: term, category: category}
}

// Search returns the accumulated results for the query, serving fresh cached
// results immediately and otherwise fetching page one (restarting the
// accumulation). A fetch failure keeps already-accumulated results available
// alongside the error so consumers can show stale data with an error banner.
func (q *Query) Search(ctx context.Context, term, category string) (Page, error) {
	key := newKey(term, category)

	q.mu.Lock()
	state, ok := q.states[key]
	if !ok {
		state = &queryState{}
		q.states[key] = state
	}
	if state.pages > 0 && time.Since(state.fetchedAt) < q.freshness {
		page := state.page(true)
		q.mu.Unlock()
		return page, nil
	}
	state.generation++
	generation := state.generation
	q.mu.Unlock()

	result, err := q.fetchFirstPage(ctx, key)
	if err != nil {
		q.logger.Warn("Tool search failed",
			zap.String("search_term", key.term),
			zap.String("category", key.category),
			zap.Error(err))
		q.mu.Lock()
		page := state.page(false)
		q.mu.Unlock()
		return page, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	state, ok = q.states[key]
	if !ok || state.generation != generation {
		// Superseded by a newer request or an invalidation while in flight;
		// the newer request's result wins for display.
		if !ok {
			return Page{Tools: []model.Tool{}}, nil
		}
		return state.page(false), nil
	}

	state.tools = result.tools
	state.total = result.total
	state.pages = 1
	state.exhausted = len(result.tools) < ItemsPerPage
	state.fetchedAt = time.Now()

	q.logger.Info("Tool search resolved",
		zap.String("search_term", key.term),
		zap.String("category", key.category),
		zap.Int("results", len(result.tools)),
		zap.Int("total", result.total))

	return state.page(false), nil
}

// LoadMore appends the next page to the query's accumulation. If the page
// returns fewer than ItemsPerPage items, the query is exhausted and no
// further pages exist.
func (q *Query) LoadMore(ctx context.Context, term, category string) (Page, error) {
	key := newKey(term, category)

	q.mu.Lock()
	state, ok := q.states[key]
	if !ok || state.pages == 0 {
		q.mu.Unlock()
		return q.Search(ctx, term, category)
	}
	if state.exhausted {
		page := state.page(true)
		q.mu.Unlock()
		return page, nil
	}
	generation := state.generation
	nextPage := state.pages + 1
	q.mu.Unlock()

	tools, err := q.fetchTools(ctx, key, nextPage)
	if err != nil {
		q.logger.Warn("Tool page fetch failed",
			zap.String("search_term", key.term),
			zap.String("category", key.category),
			zap.Int("page", nextPage),
			zap.Error(err))
		q.mu.Lock()
		page := state.page(false)
		q.mu.Unlock()
		return page, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	state, ok = q.states[key]
	if !ok || state.generation != generation || state.pages != nextPage-1 {
		if !ok {
			return Page{Tools: []model.Tool{}}, nil
		}
		return state.page(false), nil
	}

	state.tools = append(state.tools, tools...)
	state.pages = nextPage
	if len(tools) < ItemsPerPage {
		state.exhausted = true
	}

	return state.page(false), nil
}

// Total returns the total match count for the query, fetching it if no
// accumulation exists yet
func (q *Query) Total(ctx context.Context, term, category string) (int, error) {
	key := newKey(term, category)

	q.mu.Lock()
	state, ok := q.states[key]
	if ok && state.pages > 0 && time.Since(state.fetchedAt) < q.freshness {
		total := state.total
		q.mu.Unlock()
		return total, nil
	}
	q.mu.Unlock()

	return q.remote.CountTools(ctx, key.term, key.category)
}

// Invalidate discards every cached query result wholesale. Called after any
// tool mutation; in-flight fetches issued before the invalidation are
// discarded when they resolve.
func (q *Query) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, state := range q.states {
		state.generation++
		state.tools = nil
		state.total = 0
		state.pages = 0
		state.exhausted = false
		state.fetchedAt = time.Time{}
	}

	q.logger.Info("Tool query cache invalidated", zap.Int("queries", len(q.states)))
}

type fetchResult struct {
	tools []model.Tool
	total int
}

// fetchFirstPage fetches page one and the total count, deduplicating
// concurrent identical fetches
func (q *Query) fetchFirstPage(ctx context.Context, key queryKey) (fetchResult, error) {
	flightKey := fmt.Sprintf("%s|%s|1", key.term, key.category)
	v, err, _ := q.flight.Do(flightKey, func() (interface{}, error) {
		tools, err := q.remote.SearchTools(ctx, key.term, key.category, 1, ItemsPerPage)
		if err != nil {
			return nil, err
		}
		total, err := q.remote.CountTools(ctx, key.term, key.category)
		if err != nil {
			return nil, err
		}
		return fetchResult{tools: tools, total: total}, nil
	})
	if err != nil {
		return fetchResult{}, err
	}
	return v.(fetchResult), nil
}

func (q *Query) fetchTools(ctx context.Context, key queryKey, page int) ([]model.Tool, error) {
	flightKey := fmt.Sprintf("%s|%s|%d", key.term, key.category, page)
	v, err, _ := q.flight.Do(flightKey, func() (interface{}, error) {
		return q.remote.SearchTools(ctx, key.term, key.category, page, ItemsPerPage)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Tool), nil
}

// page builds the consumer view of the state. Caller must hold the lock.
func (s *queryState) page(cached bool) Page {
	tools := make([]model.Tool, len(s.tools))
	copy(tools, s.tools)
	return Page{
		Tools:   tools,
		Total:   s.total,
		HasMore: s.pages > 0 && !s.exhausted,
		Cached:  cached,
	}
}
