package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// MockSearcher is a testify mock over the remote search operations
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchTools(ctx context.Context, term, category string, page, perPage int) ([]model.Tool, error) {
	args := m.Called(ctx, term, category, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tool), args.Error(1)
}

func (m *MockSearcher) CountTools(ctx context.Context, term, category string) (int, error) {
	args := m.Called(ctx, term, category)
	return args.Int(0), args.Error(1)
}

func makeTools(offset, n int) []model.Tool {
	tools := make([]model.Tool, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("t%03d", offset+i)
		tools = append(tools, model.Tool{ID: id, PartNumber: "PN-" + id, Name: "Tool " + id})
	}
	return tools
}

func TestQuery_PaginationTermination(t *testing.T) {
	// 45 matches at 20 per page: pages yield 20, 20, 5 and then no more
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "wrench", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 20), nil)
	remote.On("SearchTools", mock.Anything, "wrench", SentinelAll, 2, ItemsPerPage).Return(makeTools(20, 20), nil)
	remote.On("SearchTools", mock.Anything, "wrench", SentinelAll, 3, ItemsPerPage).Return(makeTools(40, 5), nil)
	remote.On("CountTools", mock.Anything, "wrench", SentinelAll).Return(45, nil)

	q := NewQuery(remote, time.Hour, zap.NewNop())

	page, err := q.Search(context.Background(), "wrench", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 20)
	assert.Equal(t, 45, page.Total)
	assert.True(t, page.HasMore)

	page, err = q.LoadMore(context.Background(), "wrench", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 40)
	assert.True(t, page.HasMore)

	page, err = q.LoadMore(context.Background(), "wrench", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 45)
	assert.False(t, page.HasMore)

	// Exhausted queries never issue another page fetch
	page, err = q.LoadMore(context.Background(), "wrench", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 45)
	assert.False(t, page.HasMore)

	remote.AssertNumberOfCalls(t, "SearchTools", 3)
}

func TestQuery_AccumulationRestartsOnKeyChange(t *testing.T) {
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "wrench", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 20), nil)
	remote.On("SearchTools", mock.Anything, "wrench", SentinelAll, 2, ItemsPerPage).Return(makeTools(20, 20), nil)
	remote.On("CountTools", mock.Anything, "wrench", SentinelAll).Return(45, nil)
	remote.On("SearchTools", mock.Anything, "caliper", "Measurement", 1, ItemsPerPage).Return(makeTools(100, 3), nil)
	remote.On("CountTools", mock.Anything, "caliper", "Measurement").Return(3, nil)

	q := NewQuery(remote, time.Hour, zap.NewNop())

	_, err := q.Search(context.Background(), "wrench", "")
	require.NoError(t, err)
	_, err = q.LoadMore(context.Background(), "wrench", "")
	require.NoError(t, err)

	// A different key starts its own accumulation at page one
	page, err := q.Search(context.Background(), "caliper", "Measurement")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 3)
	assert.Equal(t, 3, page.Total)
	assert.False(t, page.HasMore)

	// The first key's accumulation is still intact and served from cache
	page, err = q.Search(context.Background(), "wrench", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 40)
	assert.True(t, page.Cached)
}

func TestQuery_FreshCacheIsServedWithoutRefetch(t *testing.T) {
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 5), nil)
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil)

	q := NewQuery(remote, time.Hour, zap.NewNop())

	first, err := q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Tools, second.Tools)

	remote.AssertNumberOfCalls(t, "SearchTools", 1)
}

func TestQuery_InvalidateForcesRefetch(t *testing.T) {
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 5), nil).Once()
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil).Once()
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 6), nil).Once()
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(6, nil).Once()

	q := NewQuery(remote, time.Hour, zap.NewNop())

	page, err := q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 5)

	// Invalidation discards cached results regardless of freshness
	q.Invalidate()

	page, err = q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 6)
	assert.Equal(t, 6, page.Total)
}

func TestQuery_FailedFetchKeepsStaleResults(t *testing.T) {
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 5), nil).Once()
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil).Once()
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(nil, apperr.Transientf("service down")).Once()

	// Zero freshness: every Search refetches
	q := NewQuery(remote, 0, zap.NewNop())

	page, err := q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 5)

	// The failed refresh surfaces the error but not at the cost of the
	// already-displayed results
	page, err = q.Search(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
	assert.Len(t, page.Tools, 5)
}

func TestQuery_InFlightResultDiscardedAfterInvalidation(t *testing.T) {
	remote := new(MockSearcher)
	q := NewQuery(remote, time.Hour, zap.NewNop())

	// The invalidation lands while the fetch is in flight; its result must
	// not repopulate the cache.
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).
		Run(func(args mock.Arguments) { q.Invalidate() }).
		Return(makeTools(0, 5), nil).Once()
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil).Once()

	page, err := q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, page.Tools)

	// The next search fetches for real
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 5), nil).Once()
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil).Once()

	page, err = q.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 5)
}

func TestQuery_LoadMoreWithoutAccumulationSearches(t *testing.T) {
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 5), nil)
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil)

	q := NewQuery(remote, time.Hour, zap.NewNop())

	page, err := q.LoadMore(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, page.Tools, 5)
}

func TestQuery_TotalWithoutAccumulationCountsDirectly(t *testing.T) {
	remote := new(MockSearcher)
	remote.On("CountTools", mock.Anything, "drill", SentinelAll).Return(12, nil)

	q := NewQuery(remote, time.Hour, zap.NewNop())

	total, err := q.Total(context.Background(), "drill", "")
	require.NoError(t, err)
	assert.Equal(t, 12, total)
}

func TestQuery_EmptyCategoryIsTheSentinel(t *testing.T) {
	// "" and "All" are the same query key
	remote := new(MockSearcher)
	remote.On("SearchTools", mock.Anything, "", SentinelAll, 1, ItemsPerPage).Return(makeTools(0, 5), nil)
	remote.On("CountTools", mock.Anything, "", SentinelAll).Return(5, nil)

	q := NewQuery(remote, time.Hour, zap.NewNop())

	_, err := q.Search(context.Background(), "", "")
	require.NoError(t, err)

	page, err := q.Search(context.Background(), "", SentinelAll)
	require.NoError(t, err)
	assert.True(t, page.Cached)

	remote.AssertNumberOfCalls(t, "SearchTools", 1)
}
